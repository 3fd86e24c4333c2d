// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/orbs-network/scribe/log"
	"reflect"
	"runtime"
	"strings"
	"time"
)

type validator struct {
	logger log.Logger
}

func NewValidator(logger log.Logger) *validator {
	return &validator{logger: logger}
}

func Validate(cfg NodeConfig, logger log.Logger) {
	NewValidator(logger).Validate(cfg)
}

func (v *validator) Validate(cfg NodeConfig) {
	v.requireNonEmpty(cfg.NetworkEndpoint, "network endpoint must be set")
	v.requireGTZero(cfg.VoucherKeeperInterval, "voucher keeper interval must be positive")
	v.requireGTZero(cfg.MetricsReportInterval, "metrics report interval must be positive")
	v.requireGTZero(cfg.SimulatorBlockInterval, "simulator block interval must be positive")

	if cfg.VoucherKeeperRenewBlocks() < 20 {
		v.fail("voucher keeper must renew by at least 20 blocks", log.Uint32("renew-blocks", cfg.VoucherKeeperRenewBlocks()))
	}

	if cfg.GasSafetyMarginPercent() > 100 {
		v.fail("gas safety margin above 100 percent", log.Uint32("gas-safety-margin-percent", cfg.GasSafetyMarginPercent()))
	}

	if cfg.VoucherKeeperTopUpTokens().IsNegative() || cfg.VoucherKeeperMinBalanceTokens().IsNegative() {
		v.fail("voucher keeper token amounts must not be negative",
			log.String("min-balance", cfg.VoucherKeeperMinBalanceTokens().String()),
			log.String("top-up", cfg.VoucherKeeperTopUpTokens().String()))
	}
}

func (v *validator) requireNonEmpty(s func() string, msg string) {
	if s() == "" {
		v.fail(msg, log.String("key", funcName(s)))
	}
}

func (v *validator) requireGTZero(d func() time.Duration, msg string) {
	if d() <= 0 {
		v.fail(msg, log.Stringable(funcName(d), d()))
	}
}

func (v *validator) fail(msg string, fields ...*log.Field) {
	v.logger.Error(msg, fields...)
	panic(msg)
}

func funcName(i interface{}) string {
	fullName := runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
	lastDot := strings.LastIndex(fullName, ".")
	return strings.TrimSuffix(fullName[lastDot+1:], "-fm")
}
