// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package sailscalls

import (
	"context"
	"encoding/json"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/crypto/kms"
	"github.com/vara-dapps/sailscalls-go/instrumentation/logfields"
	"github.com/vara-dapps/sailscalls-go/instrumentation/trace"
	"github.com/vara-dapps/sailscalls-go/services/lifecycle"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter"
	"time"
)

// Command sends a state changing message and waits until its block is finalized.
// Hooks run in order Load, Block, then Success or Error, each completing before the call moves on.
func (s *SailsCalls) Command(ctx context.Context, url string, signer kms.Signer, options *CommandOptions) (*Response, error) {
	if options == nil {
		options = &CommandOptions{}
	}

	current := s.snapshot()
	coordinate, _, args, err := current.resolve(url, FUNCTION, options.Args)
	if err != nil {
		return nil, err
	}
	if signer == nil {
		return nil, errors.New("command needs a signer")
	}

	ctx = trace.NewContext(ctx, "command")
	logger := s.logger.WithTags(trace.LogFieldFrom(ctx), logfields.Url(coordinate.String()))
	hooks := hooksOf(options.Hooks, options.Callbacks)

	start := time.Now()
	s.metrics.commandInFlight.Inc()
	defer s.metrics.commandInFlight.Dec()
	defer s.metrics.commandTime.RecordSince(start)
	s.metrics.commandRate.Measure(1)

	hooks.Fire(ctx, &lifecycle.Event{Phase: lifecycle.Load, Url: url})

	response, err := s.submit(ctx, current.network, coordinate, signer, args, options, func(blockHash string) {
		hooks.Fire(ctx, &lifecycle.Event{Phase: lifecycle.Block, Url: url, BlockHash: blockHash})
	})
	if err != nil {
		logger.Info("command failed", logfields.SubmissionFlow, log.Error(err))
		submissionErr := &SubmissionError{Url: url, Cause: err}
		hooks.Fire(ctx, &lifecycle.Event{Phase: lifecycle.Error, Url: url, Err: submissionErr})
		return nil, submissionErr
	}
	response.Url = url

	logger.Info("command finalized", logfields.SubmissionFlow, logfields.BlockHash(response.BlockHash), logfields.TransactionId(response.TransactionId))
	hooks.Fire(ctx, &lifecycle.Event{Phase: lifecycle.Success, Url: url, BlockHash: response.BlockHash, Response: response.Payload})
	return response, nil
}

func (s *SailsCalls) submit(ctx context.Context, network adapter.Network, coordinate *Coordinate, signer kms.Signer, args []byte, options *CommandOptions, onBlock func(blockHash string)) (*Response, error) {
	tx, err := adapter.NewContractCall(signer.Address(), coordinate.ContractId, coordinate.Service, coordinate.Method, args)
	if err != nil {
		return nil, err
	}
	if options.Value != nil && options.Value.Sign() > 0 {
		tx.Value = (*hexutil.Big)(options.Value)
	}
	tx.VoucherId = options.VoucherId

	gas, err := network.CalculateGas(ctx, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "gas estimation failed")
	}
	tx.GasLimit = hexutil.Uint64(withSafetyMargin(gas, s.gasMarginPercent))

	signed, err := adapter.Sign(ctx, tx, signer)
	if err != nil {
		return nil, err
	}

	statuses, err := network.SubmitAndWatch(ctx, signed)
	if err != nil {
		return nil, errors.Wrapf(err, "submission failed")
	}

	blockFired := false
	final, err := adapter.AwaitStage(ctx, statuses, adapter.FINALIZED, func(status *adapter.TransactionStatus) {
		if status.Stage == adapter.IN_BLOCK && !blockFired {
			blockFired = true
			onBlock(status.BlockHash)
		}
	})
	if err != nil {
		return nil, err
	}
	// streams may skip straight to finalized
	if !blockFired {
		onBlock(final.BlockHash)
	}

	if len(final.Response) > 0 && !json.Valid(final.Response) {
		return nil, errors.Errorf("cannot decode response of transaction %s", final.TransactionId)
	}

	return &Response{
		TransactionId: final.TransactionId,
		BlockHash:     final.BlockHash,
		BlockHeight:   final.BlockHeight,
		Payload:       final.Response,
	}, nil
}

func withSafetyMargin(gas uint64, percent uint32) uint64 {
	p := uint64(percent)
	return gas + gas/100*p + gas%100*p/100
}
