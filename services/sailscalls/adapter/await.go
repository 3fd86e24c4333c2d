// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"context"
	"github.com/pkg/errors"
)

var ErrStreamClosed = errors.New("status stream closed before the transaction settled")

type TransactionFailedError struct {
	Reason string
	Status *TransactionStatus
}

func (e *TransactionFailedError) Error() string {
	return "transaction failed: " + e.Reason
}

// AwaitStage reads statuses until the wanted stage arrives and returns it. Every earlier status
// is passed to onStatus first, on the calling goroutine. A FAILED status ends the wait with a TransactionFailedError.
func AwaitStage(ctx context.Context, statuses <-chan *TransactionStatus, stage Stage, onStatus func(status *TransactionStatus)) (*TransactionStatus, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case status, ok := <-statuses:
			if !ok {
				return nil, ErrStreamClosed
			}
			if status.Stage == FAILED {
				return nil, &TransactionFailedError{Reason: status.Reason, Status: status}
			}
			if status.Stage == stage {
				return status, nil
			}
			if onStatus != nil {
				onStatus(status)
			}
		}
	}
}
