// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package logfields

import (
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"runtime/debug"
)

// SubmissionFlow tags submission and voucher action logs so they pass the production filter
var SubmissionFlow = log.String("flow", "submission")

type Errorer interface {
	Error(message string, fields ...*log.Field)
}

type govnrErrorer struct {
	logger Errorer
}

func (h *govnrErrorer) Error(err error) {
	h.logger.Error("recovered panic", log.Error(err), log.String("panic", "true"), log.String("stack-trace", string(debug.Stack())))
}

func GovnrErrorer(logger Errorer) govnr.Errorer {
	return &govnrErrorer{logger}
}

func ContractId(id string) *log.Field {
	return log.String("contract-id", id)
}

func Url(url string) *log.Field {
	return log.String("url", url)
}

func BlockHash(hash string) *log.Field {
	return log.String("block-hash", hash)
}

func BlockHeight(height uint64) *log.Field {
	return log.Uint64("block-height", height)
}

func VoucherId(id string) *log.Field {
	return log.String("voucher-id", id)
}

func Account(address string) *log.Field {
	return log.String("account", address)
}

func TransactionId(id string) *log.Field {
	return log.String("tx-id", id)
}
