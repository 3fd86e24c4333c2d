// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"time"
)

const TRAFFIC_LIGHT_PROGRAM_ID = "0x40ee053ed5af803a3c68fa432e11a38c99422bbdec815bbf745d536077d7587a"

const MEMORY_NETWORK_ENDPOINT = "memory://"

// all other configs are variations from the production one
func defaultProductionConfig() mutableNodeConfig {
	cfg := emptyConfig()

	cfg.SetString(NETWORK_ENDPOINT, "ws://localhost:9944")
	cfg.SetString(DEFAULT_CONTRACT_ID, TRAFFIC_LIGHT_PROGRAM_ID)

	// gas estimates drift between estimation and inclusion
	cfg.SetUint32(GAS_SAFETY_MARGIN_PERCENT, 10)

	cfg.SetString(SPONSOR_NAME, "sponsor")

	// 1200 blocks of 3 seconds is about an hour
	cfg.SetDuration(VOUCHER_KEEPER_INTERVAL, 1*time.Minute)
	cfg.SetUint32(VOUCHER_KEEPER_MIN_BALANCE_TOKENS, 2)
	cfg.SetUint32(VOUCHER_KEEPER_TOP_UP_TOKENS, 4)
	cfg.SetUint32(VOUCHER_KEEPER_RENEW_BLOCKS, 1200)

	cfg.SetString(GATEWAY_LISTEN_ADDRESS, "localhost:9944")
	cfg.SetUint32(GATEWAY_REQUESTS_PER_SECOND, 50)
	cfg.SetDuration(GATEWAY_DIAL_TIMEOUT, 10*time.Second)

	cfg.SetString(SIGNER_LISTEN_ADDRESS, "localhost:7777")

	cfg.SetDuration(SIMULATOR_BLOCK_INTERVAL, 3*time.Second)
	cfg.SetUint32(SIMULATOR_INITIAL_BALANCE_TOKENS, 1000)

	cfg.SetDuration(METRICS_REPORT_INTERVAL, 30*time.Second)

	cfg.SetDuration(LOGGER_FILE_TRUNCATION_INTERVAL, 24*time.Hour)
	cfg.SetBool(LOGGER_FULL_LOG, false)

	return cfg
}

// config for a client talking to a remote gateway
func ForProduction(networkEndpoint string) mutableNodeConfig {
	cfg := defaultProductionConfig()

	if networkEndpoint != "" {
		cfg.SetString(NETWORK_ENDPOINT, networkEndpoint)
	}
	return cfg
}

// config for a local, in-process chain with a well known sponsor
func ForDevelopment() mutableNodeConfig {
	cfg := defaultProductionConfig()

	cfg.SetString(NETWORK_ENDPOINT, MEMORY_NETWORK_ENDPOINT)
	cfg.SetString(SPONSOR_MNEMONIC, "bottom drive obey lake curtain smoke basket hold race lonely fit walk")
	cfg.SetBool(LOGGER_FULL_LOG, true)

	return cfg
}

// config for tests (in-process chain, short intervals)
func ForTests(sponsorMnemonic string) mutableNodeConfig {
	cfg := ForDevelopment()

	cfg.SetString(SPONSOR_MNEMONIC, sponsorMnemonic)
	cfg.SetDuration(VOUCHER_KEEPER_INTERVAL, 10*time.Millisecond)
	cfg.SetDuration(SIMULATOR_BLOCK_INTERVAL, 5*time.Millisecond)
	cfg.SetDuration(METRICS_REPORT_INTERVAL, 50*time.Millisecond)
	cfg.SetDuration(GATEWAY_DIAL_TIMEOUT, 1*time.Second)
	cfg.SetUint32(GATEWAY_REQUESTS_PER_SECOND, 1000)
	cfg.SetString(GATEWAY_LISTEN_ADDRESS, "127.0.0.1:0")
	cfg.SetString(SIGNER_LISTEN_ADDRESS, "127.0.0.1:0")

	return cfg
}
