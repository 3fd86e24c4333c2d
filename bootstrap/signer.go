// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/config"
	"github.com/vara-dapps/sailscalls-go/crypto/keys"
	"github.com/vara-dapps/sailscalls-go/crypto/kms"
	"net"
)

// SignerNode is a remote wallet holding one key, for clients configured with a signer endpoint
type SignerNode struct {
	govnr.TreeSupervisor

	service   *kms.Service
	address   net.Addr
	account   string
	ctxCancel context.CancelFunc
}

func NewSignerNode(cfg config.NodeConfig, logger log.Logger) (*SignerNode, error) {
	if cfg.SignerMnemonic() == "" {
		return nil, errors.New("signer needs a mnemonic")
	}
	pair, err := keys.NewSr25519KeyPairFromMnemonic(cfg.SignerMnemonic())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	service := kms.NewService(cfg.SignerListenAddress(), pair, logger)
	address, err := service.Start(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	n := &SignerNode{
		service:   service,
		address:   address,
		account:   pair.PublicKeyHex(),
		ctxCancel: cancel,
	}
	n.Supervise(service)
	return n, nil
}

func (n *SignerNode) Endpoint() string {
	return "http://" + n.address.String()
}

func (n *SignerNode) Account() string {
	return n.account
}

func (n *SignerNode) GracefulShutdown(shutdownContext context.Context) {
	n.ctxCancel()
}
