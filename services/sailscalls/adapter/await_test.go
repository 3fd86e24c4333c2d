// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"context"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestAwaitStage_ReportsEarlierStatuses(t *testing.T) {
	statuses := Statuses(
		&TransactionStatus{Stage: READY},
		&TransactionStatus{Stage: IN_BLOCK, BlockHash: "0xaa"},
		&TransactionStatus{Stage: FINALIZED, BlockHash: "0xaa"},
	)

	var seen []Stage
	final, err := AwaitStage(context.Background(), statuses, FINALIZED, func(status *TransactionStatus) {
		seen = append(seen, status.Stage)
	})
	require.NoError(t, err)
	require.Equal(t, "0xaa", final.BlockHash)
	require.Equal(t, []Stage{READY, IN_BLOCK}, seen)
}

func TestAwaitStage_Failed(t *testing.T) {
	statuses := Statuses(&TransactionStatus{Stage: READY}, &TransactionStatus{Stage: FAILED, Reason: "insufficient balance"})

	_, err := AwaitStage(context.Background(), statuses, FINALIZED, nil)
	var failed *TransactionFailedError
	require.True(t, errors.As(err, &failed))
	require.Equal(t, "insufficient balance", failed.Reason)
}

func TestAwaitStage_StreamClosed(t *testing.T) {
	_, err := AwaitStage(context.Background(), Statuses(&TransactionStatus{Stage: READY}), FINALIZED, nil)
	require.Equal(t, ErrStreamClosed, err)
}

func TestAwaitStage_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AwaitStage(ctx, make(chan *TransactionStatus), FINALIZED, nil)
	require.Equal(t, context.Canceled, err)
}
