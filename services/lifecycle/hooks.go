// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

// Package lifecycle sequences the per call hooks fired while a command, query or voucher action progresses.
//
// A call moves through Load, then Block (commands only), then Success or Error.
// Hooks of a phase run one after the other on the calling goroutine, so a slow hook delays the next phase.
package lifecycle

import (
	"context"
	"encoding/json"
)

type Phase int

const (
	Load Phase = iota
	Block
	Success
	Error
)

func (p Phase) String() string {
	switch p {
	case Load:
		return "load"
	case Block:
		return "block"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "unknown"
}

type Event struct {
	Phase     Phase
	Url       string
	BlockHash string
	Response  json.RawMessage
	Err       error
}

type Hook func(ctx context.Context, event *Event)

// Hooks is an ordered hook list per phase; the zero value and a nil pointer are both empty
type Hooks struct {
	byPhase map[Phase][]Hook
}

func NewHooks() *Hooks {
	return &Hooks{}
}

func (h *Hooks) On(phase Phase, hook Hook) *Hooks {
	if hook == nil {
		return h
	}
	if h.byPhase == nil {
		h.byPhase = make(map[Phase][]Hook)
	}
	h.byPhase[phase] = append(h.byPhase[phase], hook)
	return h
}

func (h *Hooks) OnLoad(hook Hook) *Hooks {
	return h.On(Load, hook)
}

func (h *Hooks) OnBlock(hook Hook) *Hooks {
	return h.On(Block, hook)
}

func (h *Hooks) OnSuccess(hook Hook) *Hooks {
	return h.On(Success, hook)
}

func (h *Hooks) OnError(hook Hook) *Hooks {
	return h.On(Error, hook)
}

func (h *Hooks) Len(phase Phase) int {
	if h == nil {
		return 0
	}
	return len(h.byPhase[phase])
}

// Fire runs the hooks registered for event.Phase in registration order and returns after the last one
func (h *Hooks) Fire(ctx context.Context, event *Event) {
	if h == nil {
		return
	}
	for _, hook := range h.byPhase[event.Phase] {
		hook(ctx, event)
	}
}

// Then appends other's hooks after h's, phase by phase, into a new list
func (h *Hooks) Then(other *Hooks) *Hooks {
	merged := NewHooks()
	for _, source := range []*Hooks{h, other} {
		if source == nil {
			continue
		}
		for _, phase := range []Phase{Load, Block, Success, Error} {
			for _, hook := range source.byPhase[phase] {
				merged.On(phase, hook)
			}
		}
	}
	return merged
}
