// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"context"
	"encoding/json"
	"math/big"
)

// Network is the chain as seen by a client: gas estimation, submission, state reads and voucher lookups
type Network interface {
	Endpoint() string
	CalculateGas(ctx context.Context, tx *Transaction) (uint64, error)
	// SubmitAndWatch streams the statuses of a submitted transaction; the channel closes after FINALIZED or FAILED
	SubmitAndWatch(ctx context.Context, signed *SignedTransaction) (<-chan *TransactionStatus, error)
	ReadState(ctx context.Context, query *QueryCall) (json.RawMessage, error)
	VouchersForAccount(ctx context.Context, account string, contractId string) ([]string, error)
	VoucherDetails(ctx context.Context, account string, voucherId string) (*VoucherDetails, error)
	Balance(ctx context.Context, account string) (*big.Int, error)
	FinalizedHeight(ctx context.Context) (uint64, error)
}
