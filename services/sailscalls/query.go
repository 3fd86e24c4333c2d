// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package sailscalls

import (
	"context"
	"encoding/json"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/crypto/address"
	"github.com/vara-dapps/sailscalls-go/instrumentation/logfields"
	"github.com/vara-dapps/sailscalls-go/instrumentation/trace"
	"github.com/vara-dapps/sailscalls-go/services/lifecycle"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter"
	"time"
)

// Query reads program state without submitting anything. Hooks run Load, then Success or Error.
func (s *SailsCalls) Query(ctx context.Context, url string, options *QueryOptions) (*Response, error) {
	if options == nil {
		options = &QueryOptions{}
	}

	current := s.snapshot()
	coordinate, _, args, err := current.resolve(url, QUERY, options.Args)
	if err != nil {
		return nil, err
	}

	origin := adapter.ZERO_ADDRESS
	if options.Address != "" {
		if origin, err = address.ToAccountIdHex(options.Address); err != nil {
			return nil, errors.Wrapf(ErrInvalidArguments, "query origin: %s", err)
		}
	}

	ctx = trace.NewContext(ctx, "query")
	hooks := hooksOf(options.Hooks, options.Callbacks)
	defer s.metrics.queryTime.RecordSince(time.Now())

	hooks.Fire(ctx, &lifecycle.Event{Phase: lifecycle.Load, Url: url})

	payload, err := current.network.ReadState(ctx, &adapter.QueryCall{
		ContractId: coordinate.ContractId,
		Service:    coordinate.Service,
		Method:     coordinate.Method,
		Args:       args,
		Origin:     origin,
	})
	if err == nil && len(payload) > 0 && !json.Valid(payload) {
		err = errors.New("cannot decode query response")
	}
	if err != nil {
		s.logger.Info("query failed", trace.LogFieldFrom(ctx), logfields.Url(coordinate.String()), log.Error(err))
		queryErr := &SubmissionError{Url: url, Cause: err}
		hooks.Fire(ctx, &lifecycle.Event{Phase: lifecycle.Error, Url: url, Err: queryErr})
		return nil, queryErr
	}

	hooks.Fire(ctx, &lifecycle.Event{Phase: lifecycle.Success, Url: url, Response: payload})
	return &Response{Url: url, Payload: payload}, nil
}
