// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package synchronization_test

import (
	"context"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"github.com/vara-dapps/sailscalls-go/synchronization"
	"github.com/vara-dapps/sailscalls-go/test"
	"sync/atomic"
	"testing"
	"time"
)

func TestPeriodicalTrigger_FiresRepeatedly(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		var x int32
		p := synchronization.NewPeriodicalTrigger(ctx, "test-trigger", time.Millisecond, log.DefaultTestingLogger(t), func() { atomic.AddInt32(&x, 1) }, nil)
		defer p.Stop()

		require.True(t, test.Eventually(test.EVENTUALLY_LOCAL_E2E_TIMEOUT, func() bool {
			return atomic.LoadInt32(&x) >= 3
		}), "expected at least three ticks")
		require.True(t, p.TimesTriggered() >= 3)
	})
}

func TestPeriodicalTrigger_FireNow(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		var x int32
		p := synchronization.NewPeriodicalTrigger(ctx, "test-trigger", time.Hour, log.DefaultTestingLogger(t), func() { atomic.AddInt32(&x, 1) }, nil)
		defer p.Stop()

		p.FireNow()

		require.True(t, test.Eventually(test.EVENTUALLY_LOCAL_E2E_TIMEOUT, func() bool {
			return atomic.LoadInt32(&x) == 1
		}), "expected a single manual tick")
	})
}

func TestPeriodicalTrigger_StopRunsOnStop(t *testing.T) {
	stopped := make(chan struct{})
	p := synchronization.NewPeriodicalTrigger(context.Background(), "test-trigger", time.Hour, log.DefaultTestingLogger(t), func() {}, func() { close(stopped) })
	p.Stop()

	select {
	case <-stopped:
	case <-time.After(test.DEFAULT_SHUTDOWN_TIMEOUT):
		t.Fatal("onStop was not called")
	}
	require.EqualValues(t, 0, p.TimesTriggered(), "expected no ticks")
}

func TestPeriodicalTrigger_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := synchronization.NewPeriodicalTrigger(ctx, "test-trigger", time.Hour, log.DefaultTestingLogger(t), func() {}, nil)
	cancel()

	select {
	case <-p.Closed:
	case <-time.After(test.DEFAULT_SHUTDOWN_TIMEOUT):
		t.Fatal("trigger did not stop after its context ended")
	}
}
