// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package voucher

import (
	"github.com/shopspring/decimal"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter"
	"math/big"
)

const (
	MIN_ISSUE_TOKENS = 2
	MIN_BLOCKS       = 20
)

// ToBaseUnits converts tokens to chain units, dropping anything below one unit
func ToBaseUnits(tokens decimal.Decimal) *big.Int {
	return tokens.Shift(adapter.TOKEN_DECIMALS).Truncate(0).BigInt()
}

func FromBaseUnits(units *big.Int) decimal.Decimal {
	if units == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(units, -adapter.TOKEN_DECIMALS)
}
