// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

// Package rpc reaches a sails gateway over json-rpc; websocket or in-process transports are needed for SubmitAndWatch
package rpc

import (
	"context"
	"encoding/json"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/instrumentation/logfields"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter"
	"golang.org/x/time/rate"
	"math/big"
	"time"
)

const namespace = "sails"

type Network struct {
	endpoint string
	client   *gethrpc.Client
	limiter  *rate.Limiter
	logger   log.Logger
}

type Config interface {
	NetworkEndpoint() string
	GatewayRequestsPerSecond() uint32
	GatewayDialTimeout() time.Duration
}

func Dial(ctx context.Context, config Config, logger log.Logger) (*Network, error) {
	dialCtx, cancel := context.WithTimeout(ctx, config.GatewayDialTimeout())
	defer cancel()

	client, err := gethrpc.DialContext(dialCtx, config.NetworkEndpoint())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", config.NetworkEndpoint())
	}

	return NewNetwork(client, config.NetworkEndpoint(), config.GatewayRequestsPerSecond(), logger), nil
}

// NewNetwork wraps a connected client; a zero requestsPerSecond disables rate limiting
func NewNetwork(client *gethrpc.Client, endpoint string, requestsPerSecond uint32, logger log.Logger) *Network {
	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = int(requestsPerSecond)
	}

	return &Network{
		endpoint: endpoint,
		client:   client,
		limiter:  rate.NewLimiter(limit, burst),
		logger:   logger.WithTags(log.Service("gateway-client"), log.String("endpoint", endpoint)),
	}
}

func (n *Network) Close() {
	n.client.Close()
}

func (n *Network) Endpoint() string {
	return n.endpoint
}

func (n *Network) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := n.client.CallContext(ctx, result, namespace+"_"+method, args...); err != nil {
		return errors.Wrapf(err, "%s_%s failed", namespace, method)
	}
	return nil
}

func (n *Network) CalculateGas(ctx context.Context, tx *adapter.Transaction) (uint64, error) {
	var gas hexutil.Uint64
	err := n.call(ctx, &gas, "calculateGas", tx)
	return uint64(gas), err
}

func (n *Network) SubmitAndWatch(ctx context.Context, signed *adapter.SignedTransaction) (<-chan *adapter.TransactionStatus, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	upstream := make(chan *adapter.TransactionStatus, 4)
	subscription, err := n.client.Subscribe(ctx, namespace, upstream, "submitAndWatch", signed)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to submit transaction")
	}

	statuses := make(chan *adapter.TransactionStatus, 4)
	govnr.Once(logfields.GovnrErrorer(n.logger), func() {
		defer close(statuses)
		defer subscription.Unsubscribe()

		for {
			select {
			case status := <-upstream:
				select {
				case statuses <- status:
				case <-ctx.Done():
					return
				}
				if status.Stage == adapter.FINALIZED || status.Stage == adapter.FAILED {
					return
				}
			case err := <-subscription.Err():
				if err != nil {
					n.logger.Info("status subscription dropped", logfields.TransactionId(signed.Transaction.Id), log.Error(err))
				}
				return
			case <-ctx.Done():
				return
			}
		}
	})

	return statuses, nil
}

func (n *Network) ReadState(ctx context.Context, query *adapter.QueryCall) (json.RawMessage, error) {
	var result json.RawMessage
	err := n.call(ctx, &result, "readState", query)
	return result, err
}

func (n *Network) VouchersForAccount(ctx context.Context, account string, contractId string) ([]string, error) {
	var ids []string
	err := n.call(ctx, &ids, "vouchersForAccount", account, contractId)
	return ids, err
}

func (n *Network) VoucherDetails(ctx context.Context, account string, voucherId string) (*adapter.VoucherDetails, error) {
	var details adapter.VoucherDetails
	if err := n.call(ctx, &details, "voucherDetails", account, voucherId); err != nil {
		return nil, err
	}
	return &details, nil
}

func (n *Network) Balance(ctx context.Context, account string) (*big.Int, error) {
	var balance hexutil.Big
	if err := n.call(ctx, &balance, "balance", account); err != nil {
		return nil, err
	}
	return balance.ToInt(), nil
}

func (n *Network) FinalizedHeight(ctx context.Context) (uint64, error) {
	var height hexutil.Uint64
	err := n.call(ctx, &height, "finalizedHeight")
	return uint64(height), err
}
