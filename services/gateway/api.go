// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package gateway

import (
	"context"
	"encoding/json"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/vara-dapps/sailscalls-go/instrumentation/logfields"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter"
	"math/big"
)

const NAMESPACE = "sails"

// API is served under the sails namespace, so CalculateGas is called as sails_calculateGas
type API struct {
	network adapter.Network
	logger  log.Logger
}

func (a *API) CalculateGas(ctx context.Context, tx *adapter.Transaction) (hexutil.Uint64, error) {
	gas, err := a.network.CalculateGas(ctx, tx)
	return hexutil.Uint64(gas), err
}

// SubmitAndWatch is subscribed to with sails_subscribe("submitAndWatch", signed)
func (a *API) SubmitAndWatch(ctx context.Context, signed *adapter.SignedTransaction) (*rpc.Subscription, error) {
	notifier, supported := rpc.NotifierFromContext(ctx)
	if !supported {
		return &rpc.Subscription{}, rpc.ErrNotificationsUnsupported
	}

	// the request context ends when this method returns, the watch must outlive it
	watchCtx, cancel := context.WithCancel(context.Background())
	statuses, err := a.network.SubmitAndWatch(watchCtx, signed)
	if err != nil {
		cancel()
		return nil, err
	}

	subscription := notifier.CreateSubscription()
	txId := ""
	if signed.Transaction != nil {
		txId = signed.Transaction.Id
	}

	govnr.Once(logfields.GovnrErrorer(a.logger), func() {
		defer cancel()
		for {
			select {
			case status, ok := <-statuses:
				if !ok {
					return
				}
				if err := notifier.Notify(subscription.ID, status); err != nil {
					a.logger.Info("failed to notify transaction status", logfields.TransactionId(txId), log.Error(err))
					return
				}
			case <-subscription.Err():
				return
			case <-notifier.Closed():
				return
			}
		}
	})

	return subscription, nil
}

func (a *API) ReadState(ctx context.Context, query *adapter.QueryCall) (json.RawMessage, error) {
	return a.network.ReadState(ctx, query)
}

func (a *API) VouchersForAccount(ctx context.Context, account string, contractId string) ([]string, error) {
	ids, err := a.network.VouchersForAccount(ctx, account, contractId)
	if ids == nil {
		ids = []string{}
	}
	return ids, err
}

func (a *API) VoucherDetails(ctx context.Context, account string, voucherId string) (*adapter.VoucherDetails, error) {
	return a.network.VoucherDetails(ctx, account, voucherId)
}

func (a *API) Balance(ctx context.Context, account string) (*hexutil.Big, error) {
	balance, err := a.network.Balance(ctx, account)
	if err != nil {
		return nil, err
	}
	return (*hexutil.Big)(new(big.Int).Set(balance)), nil
}

func (a *API) FinalizedHeight(ctx context.Context) (hexutil.Uint64, error) {
	height, err := a.network.FinalizedHeight(ctx)
	return hexutil.Uint64(height), err
}
