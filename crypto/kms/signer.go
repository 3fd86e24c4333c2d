// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package kms

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/crypto/address"
	"github.com/vara-dapps/sailscalls-go/crypto/keys"
	"io/ioutil"
	"net/http"
	"strings"
)

// Signer signs transaction payloads on behalf of a single account
type Signer interface {
	Address() string
	Sign(ctx context.Context, payload []byte) ([]byte, error)
}

type local struct {
	pair *keys.Sr25519KeyPair
}

// client is the wallet-style signer: the secret never leaves the signer service
type client struct {
	endpoint string
	address  string
	http     *http.Client
}

type signRequest struct {
	Address string        `json:"address"`
	Payload hexutil.Bytes `json:"payload"`
}

type signResponse struct {
	Signature hexutil.Bytes `json:"signature"`
}

type addressResponse struct {
	Address string `json:"address"`
}

func NewLocalSigner(pair *keys.Sr25519KeyPair) Signer {
	return &local{
		pair: pair,
	}
}

func (c *local) Address() string {
	return c.pair.PublicKeyHex()
}

func (c *local) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	return c.pair.Sign(payload)
}

func NewSignerClient(endpoint string, userAddress string) (Signer, error) {
	accountId, err := address.ToAccountIdHex(userAddress)
	if err != nil {
		return nil, err
	}

	return &client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		address:  accountId,
		http:     &http.Client{},
	}, nil
}

// DiscoverSignerClient asks the signer service which account it signs for
func DiscoverSignerClient(ctx context.Context, endpoint string) (Signer, error) {
	endpoint = strings.TrimSuffix(endpoint, "/")
	request, err := http.NewRequest(http.MethodGet, endpoint+"/address", nil)
	if err != nil {
		return nil, err
	}

	response, err := http.DefaultClient.Do(request.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "signer at %s is unreachable", endpoint)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, errors.Errorf("bad response from signer: %s", response.Status)
	}

	var body addressResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return nil, errors.Wrapf(err, "malformed address response")
	}

	return NewSignerClient(endpoint, body.Address)
}

func (c *client) Address() string {
	return c.address
}

func (c *client) Sign(ctx context.Context, payload []byte) ([]byte, error) {
	input, err := json.Marshal(&signRequest{Address: c.address, Payload: payload})
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequest(http.MethodPost, c.endpoint+"/sign", bytes.NewReader(input))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.http.Do(request.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		message, _ := ioutil.ReadAll(response.Body)
		return nil, errors.Errorf("signer rejected request: %s %s", response.Status, strings.TrimSpace(string(message)))
	}

	var body signResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return nil, errors.Wrapf(err, "malformed sign response")
	}

	return body.Signature, nil
}

type SignerConfig interface {
	SignerEndpoint() string
	SignerMnemonic() string
}

// GetSigner prefers a remote signer when an endpoint is configured
func GetSigner(ctx context.Context, config SignerConfig) (Signer, error) {
	if config.SignerEndpoint() != "" {
		return DiscoverSignerClient(ctx, config.SignerEndpoint())
	}

	if config.SignerMnemonic() != "" {
		pair, err := keys.NewSr25519KeyPairFromMnemonic(config.SignerMnemonic())
		if err != nil {
			return nil, err
		}
		return NewLocalSigner(pair), nil
	}

	return nil, errors.New("no signer configured: set a signer endpoint or a mnemonic")
}
