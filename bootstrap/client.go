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
	"github.com/vara-dapps/sailscalls-go/contracts/trafficlight"
	"github.com/vara-dapps/sailscalls-go/crypto/keys"
	"github.com/vara-dapps/sailscalls-go/crypto/kms"
	"github.com/vara-dapps/sailscalls-go/instrumentation/metric"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter/memory"
	"github.com/vara-dapps/sailscalls-go/services/voucher"
	"strconv"
)

// Client is everything an application needs to talk to the program: the call session, vouchers and their keeper
type Client struct {
	govnr.TreeSupervisor

	Network      adapter.Network
	Simulator    *memory.Network
	Calls        *sailscalls.SailsCalls
	Vouchers     *voucher.Manager
	Keeper       *voucher.Keeper
	TrafficLight *trafficlight.Client
	Metrics      metric.Registry

	logger       log.Logger
	ctxCancel    context.CancelFunc
	closeNetwork func()
}

func NewClient(parentCtx context.Context, cfg config.NodeConfig, logger log.Logger) (*Client, error) {
	config.Validate(cfg, logger)

	ctx, cancel := context.WithCancel(parentCtx)

	network, simulator, closeNetwork, err := newNetwork(ctx, cfg, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	sponsor, err := sponsorFor(cfg)
	if err != nil {
		cancel()
		closeNetwork()
		return nil, err
	}

	registry := metric.NewRegistry()
	calls := sailscalls.NewSailsCalls(cfg, network, logger, registry)

	source, err := idlSource(cfg)
	if err != nil {
		logger.Info("no idl loaded", log.Error(err))
	} else if source != "" {
		// a bad idl leaves the session without one, calls then fail with ErrIdlNotConfigured
		_ = calls.WithIdl(source)
	}

	vouchers := voucher.NewManager(cfg, network, sponsor, logger, registry)

	c := &Client{
		Network:      network,
		Simulator:    simulator,
		Calls:        calls,
		Vouchers:     vouchers,
		Keeper:       voucher.NewKeeper(ctx, cfg, vouchers, logger),
		TrafficLight: trafficlight.NewClient(calls),
		Metrics:      registry,
		logger:       logger.WithTags(log.Service("client")),
		ctxCancel:    cancel,
		closeNetwork: closeNetwork,
	}

	c.Supervise(c.Keeper)
	c.Supervise(registry.ReportEvery(ctx, cfg.MetricsReportInterval(), logger))
	if simulator != nil {
		c.Supervise(simulator)
	}

	c.logger.Info("client started", log.String("endpoint", network.Endpoint()), log.String("idl-loaded", strconv.FormatBool(calls.IdlLoaded())))
	return c, nil
}

func sponsorFor(cfg config.NodeConfig) (kms.Signer, error) {
	if cfg.SponsorMnemonic() == "" {
		return nil, nil
	}
	pair, err := keys.NewSr25519KeyPairFromMnemonic(cfg.SponsorMnemonic())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid sponsor mnemonic for %s", cfg.SponsorName())
	}
	return kms.NewLocalSigner(pair), nil
}

func (c *Client) GracefulShutdown(shutdownContext context.Context) {
	c.logger.Info("shutting down client")
	c.ctxCancel()
	c.WaitUntilShutdown(shutdownContext)
	c.closeNetwork()
}

