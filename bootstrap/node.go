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
	"github.com/vara-dapps/sailscalls-go/config"
	"github.com/vara-dapps/sailscalls-go/instrumentation/metric"
	"github.com/vara-dapps/sailscalls-go/services/gateway"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter/memory"
	"net"
)

// GatewayNode runs a simulated chain and serves it over json-rpc, so remote clients can use it like a real node
type GatewayNode struct {
	govnr.TreeSupervisor

	simulator *memory.Network
	address   net.Addr
	logger    log.Logger
	ctxCancel context.CancelFunc
}

func NewGatewayNode(cfg config.NodeConfig, logger log.Logger) (*GatewayNode, error) {
	config.Validate(cfg, logger)
	ctx, cancel := context.WithCancel(context.Background())
	logger = logger.WithTags(log.String("node", "gateway"))

	simulator := NewSimulator(ctx, cfg, logger)

	server, err := gateway.NewServer(simulator, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	address, err := server.Start(ctx, cfg.GatewayListenAddress())
	if err != nil {
		cancel()
		return nil, err
	}

	registry := metric.NewRegistry()

	n := &GatewayNode{
		simulator: simulator,
		address:   address,
		logger:    logger,
		ctxCancel: cancel,
	}
	n.Supervise(simulator)
	n.Supervise(server)
	n.Supervise(metric.NewSystemReporter(ctx, registry, cfg.MetricsReportInterval(), logger))
	n.Supervise(registry.ReportEvery(ctx, cfg.MetricsReportInterval(), logger))

	return n, nil
}

func (n *GatewayNode) Address() net.Addr {
	return n.address
}

// Endpoint is the websocket url clients dial
func (n *GatewayNode) Endpoint() string {
	return "ws://" + n.address.String()
}

func (n *GatewayNode) Simulator() *memory.Network {
	return n.simulator
}

func (n *GatewayNode) GracefulShutdown(shutdownContext context.Context) {
	n.logger.Info("shutting down gateway node")
	n.ctxCancel()
}
