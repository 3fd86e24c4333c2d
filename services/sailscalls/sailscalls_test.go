// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package sailscalls

import (
	"context"
	"encoding/json"
	"github.com/orbs-network/go-mock"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/vara-dapps/sailscalls-go/crypto/keys"
	"github.com/vara-dapps/sailscalls-go/crypto/kms"
	"github.com/vara-dapps/sailscalls-go/instrumentation/metric"
	"github.com/vara-dapps/sailscalls-go/services/lifecycle"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter"
	"github.com/vara-dapps/sailscalls-go/test"
	"testing"
)

const otherContractId = "0x1111111111111111111111111111111111111111111111111111111111111111"

type testConfig struct {
	contractId string
}

func (c *testConfig) DefaultContractId() string {
	return c.contractId
}

func (c *testConfig) GasSafetyMarginPercent() uint32 {
	return 10
}

type harness struct {
	network  *adapter.NetworkMock
	signer   kms.Signer
	registry metric.Registry
	calls    *SailsCalls
	events   []string
}

func newHarness(t *testing.T) *harness {
	pair, err := keys.GenerateSr25519Key()
	require.NoError(t, err)

	h := &harness{
		network:  &adapter.NetworkMock{},
		signer:   kms.NewLocalSigner(pair),
		registry: metric.NewRegistry(),
	}
	h.calls = NewSailsCalls(&testConfig{contractId: someContractId}, h.network, log.DefaultTestingLogger(t), h.registry)
	require.NoError(t, h.calls.WithIdl(trafficLightIdl))
	return h
}

func (h *harness) recordingHooks() *lifecycle.Hooks {
	return lifecycle.NewHooks().
		OnLoad(func(context.Context, *lifecycle.Event) { h.events = append(h.events, "load") }).
		OnBlock(func(_ context.Context, e *lifecycle.Event) { h.events = append(h.events, "block:"+e.BlockHash) }).
		OnSuccess(func(_ context.Context, e *lifecycle.Event) { h.events = append(h.events, "success:"+string(e.Response)) }).
		OnError(func(_ context.Context, e *lifecycle.Event) { h.events = append(h.events, "error") })
}

func (h *harness) expectGas(gas uint64) {
	h.network.When("CalculateGas", mock.Any, mock.Any).Return(gas, nil)
}

func (h *harness) expectSubmission(t *testing.T, expectedGas uint64, statuses ...*adapter.TransactionStatus) {
	h.network.When("SubmitAndWatch", mock.Any, mock.Any).Call(func(ctx context.Context, signed *adapter.SignedTransaction) (<-chan *adapter.TransactionStatus, error) {
		require.NoError(t, signed.Verify(), "submitted transaction must carry a valid signature")
		require.EqualValues(t, expectedGas, signed.Transaction.GasLimit)
		return adapter.Statuses(statuses...), nil
	}).Times(1)
}

func TestCommand_RunsPhasesInOrderAndAddsGasMargin(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		h := newHarness(t)
		h.expectGas(1000)
		h.expectSubmission(t, 1100,
			&adapter.TransactionStatus{TransactionId: "tx", Stage: adapter.READY},
			&adapter.TransactionStatus{TransactionId: "tx", Stage: adapter.IN_BLOCK, BlockHash: "0xb1", BlockHeight: 5},
			&adapter.TransactionStatus{TransactionId: "tx", Stage: adapter.FINALIZED, BlockHash: "0xb1", BlockHeight: 5, Response: json.RawMessage(`"Green"`)},
		)

		callbacks := &lifecycle.Callbacks{
			OnLoad:      func() { h.events = append(h.events, "callback-load") },
			OnLoadAsync: func(context.Context) { h.events = append(h.events, "callback-load-async") },
		}

		response, err := h.calls.Command(ctx, "TrafficLight/Green", h.signer, &CommandOptions{Hooks: h.recordingHooks(), Callbacks: callbacks})
		require.NoError(t, err)
		require.Equal(t, []string{"callback-load", "callback-load-async", "load", "block:0xb1", `success:"Green"`}, h.events)

		var event string
		require.NoError(t, response.DecodeInto(&event))
		require.Equal(t, "Green", event)
		require.Equal(t, "0xb1", response.BlockHash)
		require.EqualValues(t, 5, response.BlockHeight)

		ok, err := h.network.Verify()
		require.True(t, ok, "%v", err)
		require.Zero(t, h.registry.NewGauge("SailsCalls.Command.InFlight").Value())
	})
}

func TestCommand_FiresBlockWhenStreamSkipsInBlock(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		h := newHarness(t)
		h.expectGas(100)
		h.expectSubmission(t, 110, &adapter.TransactionStatus{Stage: adapter.FINALIZED, BlockHash: "0xb2", Response: json.RawMessage(`"Red"`)})

		_, err := h.calls.Command(ctx, "TrafficLight/Red", h.signer, &CommandOptions{Hooks: h.recordingHooks()})
		require.NoError(t, err)
		require.Equal(t, []string{"load", "block:0xb2", `success:"Red"`}, h.events)
	})
}

func TestCommand_FailedTransactionFiresErrorHooksWithCause(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		h := newHarness(t)
		h.expectGas(100)
		h.expectSubmission(t, 110,
			&adapter.TransactionStatus{Stage: adapter.READY},
			&adapter.TransactionStatus{Stage: adapter.FAILED, Reason: "insufficient balance"},
		)

		var hookErr error
		hooks := h.recordingHooks().OnError(func(_ context.Context, e *lifecycle.Event) { hookErr = e.Err })

		_, err := h.calls.Command(ctx, "TrafficLight/Yellow", h.signer, &CommandOptions{Hooks: hooks})
		require.True(t, errors.Is(err, ErrSigningOrSubmissionFailed), "got %v", err)
		require.Equal(t, err, hookErr)

		var failed *adapter.TransactionFailedError
		require.True(t, errors.As(err, &failed), "cause should be attached")
		require.Equal(t, "insufficient balance", failed.Reason)
		require.Equal(t, []string{"load", "error"}, h.events)
	})
}

func TestCommand_GasEstimationFailureIsASubmissionError(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		h := newHarness(t)
		h.network.When("CalculateGas", mock.Any, mock.Any).Return(uint64(0), errors.New("program trapped"))

		_, err := h.calls.Command(ctx, "TrafficLight/Green", h.signer, &CommandOptions{Hooks: h.recordingHooks()})
		require.True(t, errors.Is(err, ErrSigningOrSubmissionFailed))
		require.Contains(t, err.Error(), "program trapped")
		require.Equal(t, []string{"load", "error"}, h.events)
	})
}

func TestCommand_ValidationFailsBeforeAnyHookOrNetworkCall(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		h := newHarness(t)
		hooks := h.recordingHooks()

		_, err := h.calls.Command(ctx, "Nope/Green", h.signer, &CommandOptions{Hooks: hooks})
		var serviceErr *UnknownServiceError
		require.True(t, errors.As(err, &serviceErr))
		require.Equal(t, []string{"Query", "TrafficLight"}, serviceErr.Services)

		_, err = h.calls.Command(ctx, "TrafficLight/Blue", h.signer, &CommandOptions{Hooks: hooks})
		var methodErr *UnknownMethodError
		require.True(t, errors.As(err, &methodErr))
		require.Equal(t, []string{"Green", "Red", "Yellow"}, methodErr.Methods)

		_, err = h.calls.Command(ctx, "Query/TrafficLight", h.signer, &CommandOptions{Hooks: hooks})
		require.True(t, errors.As(err, &methodErr), "queries cannot be sent as commands")

		_, err = h.calls.Command(ctx, "TrafficLight/Green", h.signer, &CommandOptions{Args: []interface{}{1}, Hooks: hooks})
		require.True(t, errors.Is(err, ErrInvalidArguments))

		_, err = h.calls.Command(ctx, "not a url", h.signer, &CommandOptions{Hooks: hooks})
		require.True(t, errors.Is(err, ErrInvalidUrl))

		_, err = h.calls.Command(ctx, "abc/TrafficLight/Green", h.signer, &CommandOptions{Hooks: hooks})
		require.True(t, errors.Is(err, ErrInvalidContractId), "expected invalid contract id, got %v", err)

		require.Empty(t, h.events)
	})
}

func TestCommand_RequiresIdl(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		h := newHarness(t)
		require.Error(t, h.calls.WithIdl("service {"))
		require.False(t, h.calls.IdlLoaded(), "a malformed idl should unload the previous one")

		require.NoError(t, h.calls.WithIdl(trafficLightIdl))
		err := h.calls.WithIdl("type A = B; type B = A; service S { Do : (x: A) -> null; };")
		require.Contains(t, err.Error(), "defined in terms of itself")
		require.False(t, h.calls.IdlLoaded(), "a cyclic idl should unload the previous one")

		_, err = h.calls.Command(ctx, "TrafficLight/Green", h.signer, nil)
		require.Equal(t, ErrIdlNotConfigured, err)
		_, err = h.calls.Services()
		require.Equal(t, ErrIdlNotConfigured, err)
	})
}

func TestCommand_ReconfigurationAppliesToLaterCalls(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		h := newHarness(t)
		h.expectGas(100)

		var contracts []string
		h.network.When("SubmitAndWatch", mock.Any, mock.Any).Call(func(ctx context.Context, signed *adapter.SignedTransaction) (<-chan *adapter.TransactionStatus, error) {
			contracts = append(contracts, signed.Transaction.ContractId)
			return adapter.Statuses(&adapter.TransactionStatus{Stage: adapter.FINALIZED, BlockHash: "0xb3"}), nil
		}).Times(2)

		hooks := lifecycle.NewHooks().OnLoad(func(context.Context, *lifecycle.Event) {
			require.NoError(t, h.calls.WithContractId(otherContractId))
		})

		_, err := h.calls.Command(ctx, "TrafficLight/Green", h.signer, &CommandOptions{Hooks: hooks})
		require.NoError(t, err)
		_, err = h.calls.Command(ctx, "TrafficLight/Green", h.signer, nil)
		require.NoError(t, err)

		require.Equal(t, []string{someContractId, otherContractId}, contracts)
	})
}

func TestQuery_ReadsWithZeroAddressByDefault(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		h := newHarness(t)
		state := json.RawMessage(`{"current_light":"Green","all_users":[]}`)
		h.network.When("ReadState", mock.Any, mock.Any).Call(func(ctx context.Context, query *adapter.QueryCall) (json.RawMessage, error) {
			require.Equal(t, adapter.ZERO_ADDRESS, query.Origin)
			require.Equal(t, someContractId, query.ContractId)
			require.Equal(t, "TrafficLight", query.Method)
			return state, nil
		}).Times(1)

		response, err := h.calls.Query(ctx, "Query/TrafficLight", &QueryOptions{Hooks: h.recordingHooks()})
		require.NoError(t, err)
		require.Equal(t, []string{"load", "success:" + string(state)}, h.events)

		var decoded struct {
			CurrentLight string `json:"current_light"`
		}
		require.NoError(t, response.DecodeInto(&decoded))
		require.Equal(t, "Green", decoded.CurrentLight)
	})
}

func TestQuery_FailureFiresErrorHooks(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		h := newHarness(t)
		h.network.When("ReadState", mock.Any, mock.Any).Return(nil, errors.New("node unavailable"))

		_, err := h.calls.Query(ctx, "Query/TrafficLight", &QueryOptions{Address: otherContractId, Hooks: h.recordingHooks()})
		require.True(t, errors.Is(err, ErrSigningOrSubmissionFailed))
		require.Equal(t, []string{"load", "error"}, h.events)

		_, err = h.calls.Query(ctx, "TrafficLight/Green", nil)
		var methodErr *UnknownMethodError
		require.True(t, errors.As(err, &methodErr), "commands are not queries")
		require.Equal(t, []string{}, methodErr.Methods)

		_, err = h.calls.Query(ctx, "Missing/State", &QueryOptions{Hooks: h.recordingHooks()})
		var serviceErr *UnknownServiceError
		require.True(t, errors.As(err, &serviceErr), "expected unknown service, got %v", err)
		require.Equal(t, []string{"Query", "TrafficLight"}, serviceErr.Services)
		require.Equal(t, []string{"load", "error"}, h.events, "validation failures fire no hooks")
	})
}

func TestSailsCalls_Introspection(t *testing.T) {
	h := newHarness(t)

	services, err := h.calls.Services()
	require.NoError(t, err)
	require.Equal(t, []string{"Query", "TrafficLight"}, services)

	functions, err := h.calls.Functions("TrafficLight")
	require.NoError(t, err)
	require.Equal(t, []string{"Green", "Red", "Yellow"}, functions)

	queries, err := h.calls.Queries("Query")
	require.NoError(t, err)
	require.Equal(t, []string{"TrafficLight"}, queries)
}

func TestSailsCalls_WithContractIdValidates(t *testing.T) {
	h := newHarness(t)
	require.True(t, errors.Is(h.calls.WithContractId("0x1234"), ErrInvalidContractId))
	require.True(t, errors.Is(h.calls.WithContractId("TrafficLight"), ErrInvalidContractId))
	require.Equal(t, someContractId, h.calls.ContractId())
}

func TestWithSafetyMargin(t *testing.T) {
	require.EqualValues(t, 1100, withSafetyMargin(1000, 10))
	require.EqualValues(t, 108, withSafetyMargin(99, 10))
	require.EqualValues(t, 0, withSafetyMargin(0, 10))
	require.EqualValues(t, 500, withSafetyMargin(500, 0))
}
