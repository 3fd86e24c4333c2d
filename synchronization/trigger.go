// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package synchronization

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/vara-dapps/sailscalls-go/instrumentation/logfields"
	"sync/atomic"
	"time"
)

// PeriodicalTrigger runs handler every interval until its context ends or Stop is called
type PeriodicalTrigger struct {
	govnr.TreeSupervisor
	interval  time.Duration
	handler   func()
	onStop    func()
	logger    logfields.Errorer
	cancel    context.CancelFunc
	fireNow   chan struct{}
	triggered uint64
	Closed    govnr.ContextEndedChan
	name      string
}

func NewPeriodicalTrigger(ctx context.Context, name string, interval time.Duration, logger logfields.Errorer, trigger func(), onStop func()) *PeriodicalTrigger {
	subCtx, cancel := context.WithCancel(ctx)
	t := &PeriodicalTrigger{
		interval: interval,
		handler:  trigger,
		onStop:   onStop,
		cancel:   cancel,
		logger:   logger,
		fireNow:  make(chan struct{}, 1),
		name:     name,
	}

	t.run(subCtx)
	return t
}

func (t *PeriodicalTrigger) run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	h := govnr.Forever(ctx, t.name, logfields.GovnrErrorer(t.logger), func() {
		for {
			select {
			case <-ticker.C:
				t.fire()
			case <-t.fireNow:
				t.fire()
			case <-ctx.Done():
				ticker.Stop()
				if t.onStop != nil {
					t.onStop()
				}
				return
			}
		}
	})
	t.Closed = h.Done()
	t.Supervise(h)
}

func (t *PeriodicalTrigger) fire() {
	t.handler()
	atomic.AddUint64(&t.triggered, 1)
}

// FireNow schedules an out of band run; requests coalesce while one is pending
func (t *PeriodicalTrigger) FireNow() {
	select {
	case t.fireNow <- struct{}{}:
	default:
	}
}

func (t *PeriodicalTrigger) TimesTriggered() uint64 {
	return atomic.LoadUint64(&t.triggered)
}

func (t *PeriodicalTrigger) Stop() {
	t.cancel()
	// the ticker must be stopped before we return
	<-t.Closed
}
