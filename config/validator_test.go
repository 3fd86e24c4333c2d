// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestValidateConfig(t *testing.T) {
	logger := log.DefaultTestingLogger(t)
	require.NotPanics(t, func() {
		Validate(defaultProductionConfig(), logger)
		Validate(ForDevelopment(), logger)
		Validate(ForTests(""), logger)
	})
}

func TestValidateConfig_PanicsOnInvalidValue(t *testing.T) {
	logger := log.DefaultTestingLogger(t).WithFilters(log.DiscardAll())

	cfg := defaultProductionConfig()
	cfg.SetDuration(VOUCHER_KEEPER_INTERVAL, 0)
	require.Panics(t, func() {
		Validate(cfg, logger)
	})

	cfg = defaultProductionConfig()
	cfg.SetUint32(VOUCHER_KEEPER_RENEW_BLOCKS, 19)
	require.Panics(t, func() {
		Validate(cfg, logger)
	})

	cfg = defaultProductionConfig()
	cfg.SetString(NETWORK_ENDPOINT, "")
	require.Panics(t, func() {
		Validate(cfg, logger)
	})

	cfg = defaultProductionConfig()
	cfg.SetString(VOUCHER_KEEPER_TOP_UP_TOKENS, "-1")
	require.Panics(t, func() {
		Validate(cfg, logger)
	})

	cfg = defaultProductionConfig()
	cfg.SetDuration(METRICS_REPORT_INTERVAL, -1*time.Second)
	require.Panics(t, func() {
		Validate(cfg, logger)
	})
}
