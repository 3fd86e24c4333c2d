// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package sailscalls

import (
	"encoding/json"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/services/lifecycle"
	"math/big"
)

type Response struct {
	Url           string
	TransactionId string
	BlockHash     string
	BlockHeight   uint64
	Payload       json.RawMessage
}

func (r *Response) DecodeInto(out interface{}) error {
	if err := json.Unmarshal(r.Payload, out); err != nil {
		return errors.Wrapf(err, "cannot decode response of %s", r.Url)
	}
	return nil
}

type CommandOptions struct {
	Args      []interface{}
	Value     *big.Int
	VoucherId string
	Hooks     *lifecycle.Hooks
	Callbacks *lifecycle.Callbacks
}

type QueryOptions struct {
	// Address is the origin of the read; empty means the zero address
	Address   string
	Args      []interface{}
	Hooks     *lifecycle.Hooks
	Callbacks *lifecycle.Callbacks
}

// hooksOf orders legacy callbacks ahead of hooks
func hooksOf(hooks *lifecycle.Hooks, callbacks *lifecycle.Callbacks) *lifecycle.Hooks {
	if callbacks == nil {
		return hooks
	}
	return lifecycle.FromCallbacks(callbacks).Then(hooks)
}
