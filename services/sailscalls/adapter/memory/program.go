// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package memory

import (
	"encoding/json"
	"math/big"
)

// Call is what a program sees of a message or query
type Call struct {
	Caller      string
	Service     string
	Method      string
	Args        json.RawMessage
	Value       *big.Int
	BlockHeight uint64
}

// Program is a contract the simulator can host. Handle may change program state, Query and EstimateGas must not.
type Program interface {
	Handle(call *Call) (json.RawMessage, error)
	Query(call *Call) (json.RawMessage, error)
	EstimateGas(call *Call) (uint64, error)
}
