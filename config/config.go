// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/shopspring/decimal"
	"time"
)

type NodeConfig interface {
	// shared
	NetworkEndpoint() string
	DefaultContractId() string
	ContractIdl() string
	ContractIdlPath() string

	// sails calls
	GasSafetyMarginPercent() uint32

	// vouchers
	SponsorName() string
	SponsorMnemonic() string
	VoucherKeeperInterval() time.Duration
	VoucherKeeperMinBalanceTokens() decimal.Decimal
	VoucherKeeperTopUpTokens() decimal.Decimal
	VoucherKeeperRenewBlocks() uint32

	// gateway
	GatewayListenAddress() string
	GatewayRequestsPerSecond() uint32
	GatewayDialTimeout() time.Duration

	// signer
	SignerEndpoint() string
	SignerListenAddress() string
	SignerMnemonic() string

	// simulator
	SimulatorBlockInterval() time.Duration
	SimulatorInitialBalanceTokens() decimal.Decimal

	// metrics and logging
	MetricsReportInterval() time.Duration
	LoggerFullLog() bool
	LoggerFileTruncationInterval() time.Duration
}

type mutableNodeConfig interface {
	NodeConfig
	Set(key string, value NodeConfigValue) mutableNodeConfig
	SetDuration(key string, value time.Duration) mutableNodeConfig
	SetUint32(key string, value uint32) mutableNodeConfig
	SetString(key string, value string) mutableNodeConfig
	SetBool(key string, value bool) mutableNodeConfig
	Clone() mutableNodeConfig
	Modify(newValues ...NodeConfigKeyValue) mutableNodeConfig
	MergeWithFileConfig(source string) (mutableNodeConfig, error)
}

type NodeConfigKeyValue struct {
	Key   string
	Value NodeConfigValue
}

type NodeConfigValue struct {
	Uint32Value   uint32
	DurationValue time.Duration
	StringValue   string
	BoolValue     bool
}

type config struct {
	kv map[string]NodeConfigValue
}

const (
	NETWORK_ENDPOINT    = "NETWORK_ENDPOINT"
	DEFAULT_CONTRACT_ID = "DEFAULT_CONTRACT_ID"
	CONTRACT_IDL        = "CONTRACT_IDL"
	CONTRACT_IDL_PATH   = "CONTRACT_IDL_PATH"

	GAS_SAFETY_MARGIN_PERCENT = "GAS_SAFETY_MARGIN_PERCENT"

	SPONSOR_NAME                      = "SPONSOR_NAME"
	SPONSOR_MNEMONIC                  = "SPONSOR_MNEMONIC"
	VOUCHER_KEEPER_INTERVAL           = "VOUCHER_KEEPER_INTERVAL"
	VOUCHER_KEEPER_MIN_BALANCE_TOKENS = "VOUCHER_KEEPER_MIN_BALANCE_TOKENS"
	VOUCHER_KEEPER_TOP_UP_TOKENS      = "VOUCHER_KEEPER_TOP_UP_TOKENS"
	VOUCHER_KEEPER_RENEW_BLOCKS       = "VOUCHER_KEEPER_RENEW_BLOCKS"

	GATEWAY_LISTEN_ADDRESS      = "GATEWAY_LISTEN_ADDRESS"
	GATEWAY_REQUESTS_PER_SECOND = "GATEWAY_REQUESTS_PER_SECOND"
	GATEWAY_DIAL_TIMEOUT        = "GATEWAY_DIAL_TIMEOUT"

	SIGNER_ENDPOINT       = "SIGNER_ENDPOINT"
	SIGNER_LISTEN_ADDRESS = "SIGNER_LISTEN_ADDRESS"
	SIGNER_MNEMONIC       = "SIGNER_MNEMONIC"

	SIMULATOR_BLOCK_INTERVAL         = "SIMULATOR_BLOCK_INTERVAL"
	SIMULATOR_INITIAL_BALANCE_TOKENS = "SIMULATOR_INITIAL_BALANCE_TOKENS"

	METRICS_REPORT_INTERVAL = "METRICS_REPORT_INTERVAL"

	LOGGER_FULL_LOG                 = "LOGGER_FULL_LOG"
	LOGGER_FILE_TRUNCATION_INTERVAL = "LOGGER_FILE_TRUNCATION_INTERVAL"
)

func NewEmptyConfig() mutableNodeConfig {
	return emptyConfig()
}

func emptyConfig() mutableNodeConfig {
	return &config{
		kv: make(map[string]NodeConfigValue),
	}
}

func (c *config) Set(key string, value NodeConfigValue) mutableNodeConfig {
	c.kv[key] = value
	return c
}

func (c *config) SetDuration(key string, value time.Duration) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{DurationValue: value}
	return c
}

func (c *config) SetUint32(key string, value uint32) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{Uint32Value: value}
	return c
}

func (c *config) SetString(key string, value string) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{StringValue: value}
	return c
}

func (c *config) SetBool(key string, value bool) mutableNodeConfig {
	c.kv[key] = NodeConfigValue{BoolValue: value}
	return c
}

func (c *config) Clone() mutableNodeConfig {
	cloned := &config{
		kv: make(map[string]NodeConfigValue),
	}

	for key, value := range c.kv {
		cloned.kv[key] = value
	}

	return cloned
}

// token amounts come from files either as json numbers or as decimal strings
func (c *config) tokens(key string) decimal.Decimal {
	value := c.kv[key]
	if value.StringValue != "" {
		if d, err := decimal.NewFromString(value.StringValue); err == nil {
			return d
		}
	}
	return decimal.New(int64(value.Uint32Value), 0)
}

func (c *config) NetworkEndpoint() string {
	return c.kv[NETWORK_ENDPOINT].StringValue
}

func (c *config) DefaultContractId() string {
	return c.kv[DEFAULT_CONTRACT_ID].StringValue
}

func (c *config) ContractIdl() string {
	return c.kv[CONTRACT_IDL].StringValue
}

func (c *config) ContractIdlPath() string {
	return c.kv[CONTRACT_IDL_PATH].StringValue
}

func (c *config) GasSafetyMarginPercent() uint32 {
	return c.kv[GAS_SAFETY_MARGIN_PERCENT].Uint32Value
}

func (c *config) SponsorName() string {
	return c.kv[SPONSOR_NAME].StringValue
}

func (c *config) SponsorMnemonic() string {
	return c.kv[SPONSOR_MNEMONIC].StringValue
}

func (c *config) VoucherKeeperInterval() time.Duration {
	return c.kv[VOUCHER_KEEPER_INTERVAL].DurationValue
}

func (c *config) VoucherKeeperMinBalanceTokens() decimal.Decimal {
	return c.tokens(VOUCHER_KEEPER_MIN_BALANCE_TOKENS)
}

func (c *config) VoucherKeeperTopUpTokens() decimal.Decimal {
	return c.tokens(VOUCHER_KEEPER_TOP_UP_TOKENS)
}

func (c *config) VoucherKeeperRenewBlocks() uint32 {
	return c.kv[VOUCHER_KEEPER_RENEW_BLOCKS].Uint32Value
}

func (c *config) GatewayListenAddress() string {
	return c.kv[GATEWAY_LISTEN_ADDRESS].StringValue
}

func (c *config) GatewayRequestsPerSecond() uint32 {
	return c.kv[GATEWAY_REQUESTS_PER_SECOND].Uint32Value
}

func (c *config) GatewayDialTimeout() time.Duration {
	return c.kv[GATEWAY_DIAL_TIMEOUT].DurationValue
}

func (c *config) SignerEndpoint() string {
	return c.kv[SIGNER_ENDPOINT].StringValue
}

func (c *config) SignerListenAddress() string {
	return c.kv[SIGNER_LISTEN_ADDRESS].StringValue
}

func (c *config) SignerMnemonic() string {
	return c.kv[SIGNER_MNEMONIC].StringValue
}

func (c *config) SimulatorBlockInterval() time.Duration {
	return c.kv[SIMULATOR_BLOCK_INTERVAL].DurationValue
}

func (c *config) SimulatorInitialBalanceTokens() decimal.Decimal {
	return c.tokens(SIMULATOR_INITIAL_BALANCE_TOKENS)
}

func (c *config) MetricsReportInterval() time.Duration {
	return c.kv[METRICS_REPORT_INTERVAL].DurationValue
}

func (c *config) LoggerFullLog() bool {
	return c.kv[LOGGER_FULL_LOG].BoolValue
}

func (c *config) LoggerFileTruncationInterval() time.Duration {
	return c.kv[LOGGER_FILE_TRUNCATION_INTERVAL].DurationValue
}
