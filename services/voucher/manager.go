// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package voucher

import (
	"context"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vara-dapps/sailscalls-go/crypto/address"
	"github.com/vara-dapps/sailscalls-go/crypto/kms"
	"github.com/vara-dapps/sailscalls-go/instrumentation/logfields"
	"github.com/vara-dapps/sailscalls-go/instrumentation/metric"
	"github.com/vara-dapps/sailscalls-go/instrumentation/trace"
	"github.com/vara-dapps/sailscalls-go/services/lifecycle"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter"
	"sync"
	"time"
)

const (
	ISSUE  = "issue"
	RENEW  = "renew"
	TOP_UP = "top-up"
)

type Config interface {
	DefaultContractId() string
}

type metrics struct {
	actionTime *metric.Histogram
	failed     *metric.Rate
}

// Manager issues and maintains vouchers paid for by a sponsor account.
// Voucher state is never cached; every read goes to the network.
type Manager struct {
	config  Config
	network adapter.Network
	logger  log.Logger
	metrics *metrics

	mutex   sync.RWMutex
	sponsor kms.Signer
}

func NewManager(config Config, network adapter.Network, sponsor kms.Signer, logger log.Logger, metricFactory metric.Factory) *Manager {
	return &Manager{
		config:  config,
		network: network,
		sponsor: sponsor,
		logger:  logger.WithTags(log.Service("voucher")),
		metrics: &metrics{
			actionTime: metricFactory.NewLatency("Voucher.Action.ProcessingTime", 5*time.Minute),
			failed:     metricFactory.NewRate("Voucher.Action.Failed"),
		},
	}
}

// WithSponsor replaces the sponsor for actions started afterwards
func (m *Manager) WithSponsor(sponsor kms.Signer) *Manager {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sponsor = sponsor
	return m
}

func (m *Manager) Sponsor() kms.Signer {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.sponsor
}

// Issue creates a voucher letting address pay fees of calls to contractIds from the sponsor's funds
func (m *Manager) Issue(ctx context.Context, address string, contractIds []string, tokens decimal.Decimal, durationBlocks uint32, hooks *lifecycle.Hooks) (string, error) {
	sponsor := m.Sponsor()
	if sponsor == nil {
		return "", ErrSponsorNotConfigured
	}
	if tokens.LessThan(decimal.NewFromInt(MIN_ISSUE_TOKENS)) {
		return "", errors.Wrapf(ErrBelowMinimum, "voucher needs at least %d tokens, got %s", MIN_ISSUE_TOKENS, tokens)
	}
	if durationBlocks < MIN_BLOCKS {
		return "", errors.Wrapf(ErrBelowMinimum, "voucher needs at least %d blocks, got %d", MIN_BLOCKS, durationBlocks)
	}

	programs := contractIds
	if len(programs) == 0 {
		id := m.config.DefaultContractId()
		if id == "" {
			return "", ErrNoContractIdConfigured
		}
		programs = []string{id}
	}

	tx, err := adapter.NewVoucherIssue(sponsor.Address(), address, ToBaseUnits(tokens), durationBlocks, programs)
	if err != nil {
		return "", err
	}

	final, err := m.execute(ctx, ISSUE, "", sponsor, tx, hooks)
	if err != nil {
		return "", err
	}
	return final.VoucherId, nil
}

// Renew prolongs a voucher by extraBlocks; an expired voucher is prolonged from the current block
func (m *Manager) Renew(ctx context.Context, voucherId string, address string, extraBlocks uint32, hooks *lifecycle.Hooks) error {
	sponsor := m.Sponsor()
	if sponsor == nil {
		return ErrSponsorNotConfigured
	}
	if extraBlocks < MIN_BLOCKS {
		return errors.Wrapf(ErrBelowMinimum, "renewal needs at least %d blocks, got %d", MIN_BLOCKS, extraBlocks)
	}

	tx, err := adapter.NewVoucherUpdate(sponsor.Address(), address, voucherId, nil, extraBlocks)
	if err != nil {
		return err
	}

	_, err = m.execute(ctx, RENEW, voucherId, sponsor, tx, hooks)
	return err
}

func (m *Manager) TopUp(ctx context.Context, voucherId string, address string, tokens decimal.Decimal, hooks *lifecycle.Hooks) error {
	sponsor := m.Sponsor()
	if sponsor == nil {
		return ErrSponsorNotConfigured
	}
	if tokens.IsNegative() {
		return errors.Wrapf(ErrNegativeAmount, "cannot add %s tokens", tokens)
	}

	tx, err := adapter.NewVoucherUpdate(sponsor.Address(), address, voucherId, ToBaseUnits(tokens), 0)
	if err != nil {
		return err
	}

	_, err = m.execute(ctx, TOP_UP, voucherId, sponsor, tx, hooks)
	return err
}

// execute signs tx with the sponsor and waits until it is finalized
func (m *Manager) execute(ctx context.Context, action string, voucherId string, sponsor kms.Signer, tx *adapter.Transaction, hooks *lifecycle.Hooks) (*adapter.TransactionStatus, error) {
	ctx = trace.NewContext(ctx, "voucher-"+action)
	logger := m.logger.WithTags(trace.LogFieldFrom(ctx), log.String("action", action), logfields.Account(tx.Spender))
	defer m.metrics.actionTime.RecordSince(time.Now())

	hooks.Fire(ctx, &lifecycle.Event{Phase: lifecycle.Load, Url: action})

	final, err := m.signAndAwait(ctx, sponsor, tx, func(blockHash string) {
		hooks.Fire(ctx, &lifecycle.Event{Phase: lifecycle.Block, Url: action, BlockHash: blockHash})
	})
	if err != nil {
		m.metrics.failed.Measure(1)
		logger.Info("voucher action failed", logfields.SubmissionFlow, logfields.VoucherId(voucherId), log.Error(err))
		actionErr := &VoucherActionError{Action: action, VoucherId: voucherId, Cause: err}
		hooks.Fire(ctx, &lifecycle.Event{Phase: lifecycle.Error, Url: action, Err: actionErr})
		return nil, actionErr
	}

	logger.Info("voucher action finalized", logfields.SubmissionFlow, logfields.VoucherId(final.VoucherId), logfields.BlockHash(final.BlockHash))
	hooks.Fire(ctx, &lifecycle.Event{Phase: lifecycle.Success, Url: action, BlockHash: final.BlockHash})
	return final, nil
}

func (m *Manager) signAndAwait(ctx context.Context, sponsor kms.Signer, tx *adapter.Transaction, onBlock func(blockHash string)) (*adapter.TransactionStatus, error) {
	signed, err := adapter.Sign(ctx, tx, sponsor)
	if err != nil {
		return nil, err
	}

	statuses, err := m.network.SubmitAndWatch(ctx, signed)
	if err != nil {
		return nil, errors.Wrapf(err, "submission failed")
	}

	return adapter.AwaitStage(ctx, statuses, adapter.FINALIZED, func(status *adapter.TransactionStatus) {
		if status.Stage == adapter.IN_BLOCK {
			onBlock(status.BlockHash)
		}
	})
}

// ListForAccount returns the ids of vouchers address may spend on contractId; empty contractId means the configured one
func (m *Manager) ListForAccount(ctx context.Context, account string, contractId string) ([]string, error) {
	if contractId == "" {
		contractId = m.config.DefaultContractId()
		if contractId == "" {
			return nil, ErrNoContractIdConfigured
		}
	}
	accountId, err := address.ToAccountIdHex(account)
	if err != nil {
		return nil, err
	}
	return m.network.VouchersForAccount(ctx, accountId, contractId)
}

func (m *Manager) HasVouchers(ctx context.Context, account string, contractId string) (bool, error) {
	ids, err := m.ListForAccount(ctx, account, contractId)
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (m *Manager) Details(ctx context.Context, account string, voucherId string) (*adapter.VoucherDetails, error) {
	accountId, err := address.ToAccountIdHex(account)
	if err != nil {
		return nil, err
	}
	return m.network.VoucherDetails(ctx, accountId, voucherId)
}

// IsExpired is true once the finalized height passed the voucher expiry
func (m *Manager) IsExpired(ctx context.Context, account string, voucherId string) (bool, error) {
	details, err := m.Details(ctx, account, voucherId)
	if err != nil {
		return false, err
	}
	height, err := m.network.FinalizedHeight(ctx)
	if err != nil {
		return false, err
	}
	return height > details.Expiry, nil
}

// Balance returns the voucher's balance in tokens
func (m *Manager) Balance(ctx context.Context, voucherId string) (decimal.Decimal, error) {
	units, err := m.network.Balance(ctx, voucherId)
	if err != nil {
		return decimal.Zero, err
	}
	return FromBaseUnits(units), nil
}

type UpdatePolicy struct {
	MinBalanceTokens decimal.Decimal
	TopUpTokens      decimal.Decimal
	RenewBlocks      uint32
}

func DefaultUpdatePolicy() *UpdatePolicy {
	return &UpdatePolicy{
		MinBalanceTokens: decimal.NewFromInt(2),
		TopUpTokens:      decimal.NewFromInt(4),
		RenewBlocks:      1200,
	}
}

type UpdateResult struct {
	Renewed  bool
	ToppedUp bool
}

// CheckForUpdates renews an expired voucher and tops up one whose balance fell below the policy minimum
func (m *Manager) CheckForUpdates(ctx context.Context, account string, voucherId string, policy *UpdatePolicy, hooks *lifecycle.Hooks) (*UpdateResult, error) {
	if policy == nil {
		policy = DefaultUpdatePolicy()
	}
	result := &UpdateResult{}

	expired, err := m.IsExpired(ctx, account, voucherId)
	if err != nil {
		return result, err
	}
	if expired {
		if err := m.Renew(ctx, voucherId, account, policy.RenewBlocks, hooks); err != nil {
			return result, err
		}
		result.Renewed = true
	}

	balance, err := m.Balance(ctx, voucherId)
	if err != nil {
		return result, err
	}
	if balance.LessThan(policy.MinBalanceTokens) {
		if err := m.TopUp(ctx, voucherId, account, policy.TopUpTokens, hooks); err != nil {
			return result, err
		}
		result.ToppedUp = true
	}

	return result, nil
}
