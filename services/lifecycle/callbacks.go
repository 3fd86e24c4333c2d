// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package lifecycle

import "context"

// Callbacks is the eight slot callback set; any slot may be nil and both halves of a pair run when set
type Callbacks struct {
	OnLoad         func()
	OnLoadAsync    func(ctx context.Context)
	OnBlock        func(blockHash string)
	OnBlockAsync   func(ctx context.Context, blockHash string)
	OnSuccess      func()
	OnSuccessAsync func(ctx context.Context)
	OnError        func()
	OnErrorAsync   func(ctx context.Context)
}

// FromCallbacks converts a callback set into hooks, the sync callback of a phase ahead of its async one
func FromCallbacks(c *Callbacks) *Hooks {
	hooks := NewHooks()
	if c == nil {
		return hooks
	}

	if c.OnLoad != nil {
		hooks.OnLoad(func(context.Context, *Event) { c.OnLoad() })
	}
	if c.OnLoadAsync != nil {
		hooks.OnLoad(func(ctx context.Context, _ *Event) { c.OnLoadAsync(ctx) })
	}

	if c.OnBlock != nil {
		hooks.OnBlock(func(_ context.Context, e *Event) { c.OnBlock(e.BlockHash) })
	}
	if c.OnBlockAsync != nil {
		hooks.OnBlock(func(ctx context.Context, e *Event) { c.OnBlockAsync(ctx, e.BlockHash) })
	}

	if c.OnSuccess != nil {
		hooks.OnSuccess(func(context.Context, *Event) { c.OnSuccess() })
	}
	if c.OnSuccessAsync != nil {
		hooks.OnSuccess(func(ctx context.Context, _ *Event) { c.OnSuccessAsync(ctx) })
	}

	if c.OnError != nil {
		hooks.OnError(func(context.Context, *Event) { c.OnError() })
	}
	if c.OnErrorAsync != nil {
		hooks.OnError(func(ctx context.Context, _ *Event) { c.OnErrorAsync(ctx) })
	}

	return hooks
}
