// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package voucher

import (
	"fmt"
	"github.com/pkg/errors"
)

var (
	ErrSponsorNotConfigured   = errors.New("sponsor is not set")
	ErrBelowMinimum           = errors.New("amount is below the minimum")
	ErrNegativeAmount         = errors.New("amount is negative")
	ErrVoucherActionFailed    = errors.New("voucher action failed")
	ErrNoContractIdConfigured = errors.New("contract id is not set")
)

// VoucherActionError is returned by Issue, Renew and TopUp when the chain did not finalize them
type VoucherActionError struct {
	Action    string
	VoucherId string
	Cause     error
}

func (e *VoucherActionError) Error() string {
	if e.VoucherId == "" {
		return fmt.Sprintf("%s: %s: %s", ErrVoucherActionFailed.Error(), e.Action, e.Cause)
	}
	return fmt.Sprintf("%s: %s %s: %s", ErrVoucherActionFailed.Error(), e.Action, e.VoucherId, e.Cause)
}

func (e *VoucherActionError) Is(target error) bool {
	return target == ErrVoucherActionFailed
}

func (e *VoucherActionError) Unwrap() error {
	return e.Cause
}
