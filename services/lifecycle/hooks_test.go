// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package lifecycle

import (
	"context"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/vara-dapps/sailscalls-go/test"
	"testing"
	"time"
)

func TestHooks_FireRunsPhaseHooksInOrder(t *testing.T) {
	var fired []string
	hooks := NewHooks().
		OnLoad(func(context.Context, *Event) { fired = append(fired, "load-1") }).
		OnSuccess(func(context.Context, *Event) { fired = append(fired, "success") }).
		OnLoad(func(context.Context, *Event) { fired = append(fired, "load-2") })

	test.WithContext(func(ctx context.Context) {
		hooks.Fire(ctx, &Event{Phase: Load})
		hooks.Fire(ctx, &Event{Phase: Block})
		hooks.Fire(ctx, &Event{Phase: Success})
	})

	require.Equal(t, []string{"load-1", "load-2", "success"}, fired)
}

func TestHooks_NilIsEmpty(t *testing.T) {
	var hooks *Hooks
	require.NotPanics(t, func() {
		hooks.Fire(context.Background(), &Event{Phase: Error})
	})
	require.Zero(t, hooks.Len(Error))
}

func TestHooks_FireWaitsForSlowHook(t *testing.T) {
	var fired []string
	hooks := NewHooks().
		OnBlock(func(context.Context, *Event) {
			time.Sleep(10 * time.Millisecond)
			fired = append(fired, "slow")
		}).
		OnBlock(func(_ context.Context, e *Event) { fired = append(fired, "fast:"+e.BlockHash) })

	hooks.Fire(context.Background(), &Event{Phase: Block, BlockHash: "0xabc"})

	require.Equal(t, []string{"slow", "fast:0xabc"}, fired, "hooks must not overlap")
}

func TestHooks_Then(t *testing.T) {
	var fired []string
	first := NewHooks().OnError(func(_ context.Context, e *Event) { fired = append(fired, "first:"+e.Err.Error()) })
	second := NewHooks().OnError(func(context.Context, *Event) { fired = append(fired, "second") })

	first.Then(second).Fire(context.Background(), &Event{Phase: Error, Err: errors.New("boom")})
	require.Equal(t, []string{"first:boom", "second"}, fired)
	require.Equal(t, 1, first.Len(Error), "Then must not mutate its receiver")
}

func TestFromCallbacks_SyncBeforeAsync(t *testing.T) {
	var fired []string
	hooks := FromCallbacks(&Callbacks{
		OnLoadAsync:    func(context.Context) { fired = append(fired, "load-async") },
		OnLoad:         func() { fired = append(fired, "load") },
		OnBlockAsync:   func(_ context.Context, hash string) { fired = append(fired, "block-async:"+hash) },
		OnBlock:        func(hash string) { fired = append(fired, "block:"+hash) },
		OnSuccessAsync: func(context.Context) { fired = append(fired, "success-async") },
		OnSuccess:      func() { fired = append(fired, "success") },
		OnErrorAsync:   func(context.Context) { fired = append(fired, "error-async") },
		OnError:        func() { fired = append(fired, "error") },
	})

	ctx := context.Background()
	hooks.Fire(ctx, &Event{Phase: Load})
	hooks.Fire(ctx, &Event{Phase: Block, BlockHash: "0x01"})
	hooks.Fire(ctx, &Event{Phase: Success})
	hooks.Fire(ctx, &Event{Phase: Error})

	require.Equal(t, []string{
		"load", "load-async",
		"block:0x01", "block-async:0x01",
		"success", "success-async",
		"error", "error-async",
	}, fired)
}

func TestFromCallbacks_PartialSet(t *testing.T) {
	hooks := FromCallbacks(&Callbacks{OnSuccess: func() {}})
	require.Equal(t, 1, hooks.Len(Success))
	require.Zero(t, hooks.Len(Load))

	require.Zero(t, FromCallbacks(nil).Len(Success))
}

func TestPhase_String(t *testing.T) {
	require.Equal(t, "load", Load.String())
	require.Equal(t, "block", Block.String())
	require.Equal(t, "success", Success.String())
	require.Equal(t, "error", Error.String())
}
