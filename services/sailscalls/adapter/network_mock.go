// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"context"
	"encoding/json"
	"github.com/orbs-network/go-mock"
	"math/big"
)

type NetworkMock struct {
	mock.Mock
}

func (m *NetworkMock) Endpoint() string {
	ret := m.Called()
	return ret.Get(0).(string)
}

func (m *NetworkMock) CalculateGas(ctx context.Context, tx *Transaction) (uint64, error) {
	ret := m.Called(ctx, tx)
	return ret.Get(0).(uint64), ret.Error(1)
}

func (m *NetworkMock) SubmitAndWatch(ctx context.Context, signed *SignedTransaction) (<-chan *TransactionStatus, error) {
	ret := m.Called(ctx, signed)
	if out := ret.Get(0); out != nil {
		return out.(<-chan *TransactionStatus), ret.Error(1)
	} else {
		return nil, ret.Error(1)
	}
}

func (m *NetworkMock) ReadState(ctx context.Context, query *QueryCall) (json.RawMessage, error) {
	ret := m.Called(ctx, query)
	if out := ret.Get(0); out != nil {
		return out.(json.RawMessage), ret.Error(1)
	} else {
		return nil, ret.Error(1)
	}
}

func (m *NetworkMock) VouchersForAccount(ctx context.Context, account string, contractId string) ([]string, error) {
	ret := m.Called(ctx, account, contractId)
	if out := ret.Get(0); out != nil {
		return out.([]string), ret.Error(1)
	} else {
		return nil, ret.Error(1)
	}
}

func (m *NetworkMock) VoucherDetails(ctx context.Context, account string, voucherId string) (*VoucherDetails, error) {
	ret := m.Called(ctx, account, voucherId)
	if out := ret.Get(0); out != nil {
		return out.(*VoucherDetails), ret.Error(1)
	} else {
		return nil, ret.Error(1)
	}
}

func (m *NetworkMock) Balance(ctx context.Context, account string) (*big.Int, error) {
	ret := m.Called(ctx, account)
	if out := ret.Get(0); out != nil {
		return out.(*big.Int), ret.Error(1)
	} else {
		return nil, ret.Error(1)
	}
}

func (m *NetworkMock) FinalizedHeight(ctx context.Context) (uint64, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(uint64), ret.Error(1)
}

// Statuses returns a closed, pre-filled status stream to hand to SubmitAndWatch expectations
func Statuses(statuses ...*TransactionStatus) <-chan *TransactionStatus {
	ch := make(chan *TransactionStatus, len(statuses))
	for _, s := range statuses {
		ch <- s
	}
	close(ch)
	return ch
}
