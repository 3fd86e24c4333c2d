// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package voucher

import (
	"context"
	"github.com/orbs-network/scribe/log"
	"github.com/shopspring/decimal"
	"github.com/vara-dapps/sailscalls-go/instrumentation/logfields"
	"github.com/vara-dapps/sailscalls-go/synchronization"
	"sort"
	"strconv"
	"sync"
	"time"
)

type KeeperConfig interface {
	VoucherKeeperInterval() time.Duration
	VoucherKeeperMinBalanceTokens() decimal.Decimal
	VoucherKeeperTopUpTokens() decimal.Decimal
	VoucherKeeperRenewBlocks() uint32
}

// Keeper periodically runs CheckForUpdates on every watched voucher
type Keeper struct {
	manager *Manager
	policy  *UpdatePolicy
	logger  log.Logger
	trigger *synchronization.PeriodicalTrigger

	mutex   sync.Mutex
	watched map[string]string
}

func NewKeeper(ctx context.Context, config KeeperConfig, manager *Manager, logger log.Logger) *Keeper {
	k := &Keeper{
		manager: manager,
		policy: &UpdatePolicy{
			MinBalanceTokens: config.VoucherKeeperMinBalanceTokens(),
			TopUpTokens:      config.VoucherKeeperTopUpTokens(),
			RenewBlocks:      config.VoucherKeeperRenewBlocks(),
		},
		logger:  logger.WithTags(log.Service("voucher-keeper")),
		watched: make(map[string]string),
	}

	k.trigger = synchronization.NewPeriodicalTrigger(ctx, "voucher keeper", config.VoucherKeeperInterval(), k.logger, func() {
		k.checkAll(ctx)
	}, nil)

	return k
}

// Watch adds a voucher spent by account to the checked set
func (k *Keeper) Watch(account string, voucherId string) {
	k.mutex.Lock()
	defer k.mutex.Unlock()
	k.watched[voucherId] = account
}

func (k *Keeper) Unwatch(voucherId string) {
	k.mutex.Lock()
	defer k.mutex.Unlock()
	delete(k.watched, voucherId)
}

func (k *Keeper) Watched() []string {
	k.mutex.Lock()
	defer k.mutex.Unlock()
	ids := make([]string, 0, len(k.watched))
	for id := range k.watched {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CheckNow schedules a check without waiting for the next tick
func (k *Keeper) CheckNow() {
	k.trigger.FireNow()
}

func (k *Keeper) Rounds() uint64 {
	return k.trigger.TimesTriggered()
}

func (k *Keeper) WaitUntilShutdown(shutdownContext context.Context) {
	k.trigger.WaitUntilShutdown(shutdownContext)
}

func (k *Keeper) Stop() {
	k.trigger.Stop()
}

func (k *Keeper) checkAll(ctx context.Context) {
	k.mutex.Lock()
	pairs := make(map[string]string, len(k.watched))
	for id, account := range k.watched {
		pairs[id] = account
	}
	k.mutex.Unlock()

	for voucherId, account := range pairs {
		if ctx.Err() != nil {
			return
		}
		result, err := k.manager.CheckForUpdates(ctx, account, voucherId, k.policy, nil)
		if err != nil {
			k.logger.Info("failed to update voucher", logfields.SubmissionFlow, logfields.VoucherId(voucherId), logfields.Account(account), log.Error(err))
			continue
		}
		if result.Renewed || result.ToppedUp {
			k.logger.Info("voucher updated", logfields.VoucherId(voucherId), log.String("renewed", strconv.FormatBool(result.Renewed)), log.String("topped-up", strconv.FormatBool(result.ToppedUp)))
		}
	}
}

