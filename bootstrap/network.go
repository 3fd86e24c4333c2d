// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/config"
	"github.com/vara-dapps/sailscalls-go/contracts/trafficlight"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter/memory"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter/rpc"
	"github.com/vara-dapps/sailscalls-go/services/voucher"
	"io/ioutil"
	"strings"
)

// NewSimulator starts an in-process chain with the traffic light deployed
func NewSimulator(ctx context.Context, cfg config.NodeConfig, logger log.Logger) *memory.Network {
	initialBalance := voucher.ToBaseUnits(cfg.SimulatorInitialBalanceTokens())
	simulator := memory.NewNetwork(ctx, cfg.SimulatorBlockInterval(), initialBalance, logger)
	simulator.Deploy(trafficlight.PROGRAM_ID, trafficlight.NewProgram())
	return simulator
}

// newNetwork picks the adapter by endpoint scheme: memory:// runs a simulator, ws and http dial a gateway.
// The returned closer releases the connection, if there is one.
func newNetwork(ctx context.Context, cfg config.NodeConfig, logger log.Logger) (adapter.Network, *memory.Network, func(), error) {
	endpoint := cfg.NetworkEndpoint()
	switch {
	case endpoint == config.MEMORY_NETWORK_ENDPOINT:
		simulator := NewSimulator(ctx, cfg, logger)
		return simulator, simulator, func() {}, nil
	case hasAnyPrefix(endpoint, "ws://", "wss://", "http://", "https://"):
		network, err := rpc.Dial(ctx, cfg, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return network, nil, network.Close, nil
	}
	return nil, nil, nil, errors.Errorf("unsupported network endpoint %q", endpoint)
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// idlSource prefers inline IDL, then the IDL file, then the built in traffic light IDL for its program id
func idlSource(cfg config.NodeConfig) (string, error) {
	if idl := cfg.ContractIdl(); idl != "" {
		return idl, nil
	}
	if path := cfg.ContractIdlPath(); path != "" {
		raw, err := ioutil.ReadFile(path)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read idl from %s", path)
		}
		return string(raw), nil
	}
	if strings.EqualFold(cfg.DefaultContractId(), trafficlight.PROGRAM_ID) {
		return trafficlight.IDL, nil
	}
	return "", nil
}
