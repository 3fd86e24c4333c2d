// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package gateway

import (
	"context"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/orbs-network/go-mock"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter"
	"github.com/vara-dapps/sailscalls-go/test"
	"math/big"
	"testing"
	"time"
)

func TestServer_ServesOverWebsocketAndShutsDown(t *testing.T) {
	network := &adapter.NetworkMock{}
	network.When("FinalizedHeight", mock.Any).Return(uint64(17), nil).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	server, err := NewServer(network, log.DefaultTestingLogger(t))
	require.NoError(t, err)

	addr, err := server.Start(ctx, "127.0.0.1:0")
	require.NoError(t, err)

	client, err := rpc.DialContext(ctx, "ws://"+addr.String())
	require.NoError(t, err)

	var height hexutil.Uint64
	require.NoError(t, client.CallContext(ctx, &height, "sails_finalizedHeight"))
	require.EqualValues(t, 17, height)
	client.Close()

	cancel()
	test.WithContextWithTimeout(test.DEFAULT_SHUTDOWN_TIMEOUT, func(shutdownCtx context.Context) {
		server.WaitUntilShutdown(shutdownCtx)
	})

	_, err = network.Verify()
	require.NoError(t, err)
}

func TestAPI_ForwardsToNetwork(t *testing.T) {
	network := &adapter.NetworkMock{}
	network.When("Balance", mock.Any, "0x01").Return(big.NewInt(12), nil).Times(1)
	network.When("VouchersForAccount", mock.Any, "0x01", "0x02").Return(nil, nil).Times(1)
	network.When("CalculateGas", mock.Any, mock.Any).Return(uint64(0), errors.New("no program")).Times(1)

	server, err := NewServer(network, log.DefaultTestingLogger(t))
	require.NoError(t, err)
	client := rpc.DialInProc(server.RpcServer())
	defer client.Close()

	test.WithContextWithTimeout(5*time.Second, func(ctx context.Context) {
		var balance hexutil.Big
		require.NoError(t, client.CallContext(ctx, &balance, "sails_balance", "0x01"))
		require.EqualValues(t, 12, balance.ToInt().Int64())

		var ids []string
		require.NoError(t, client.CallContext(ctx, &ids, "sails_vouchersForAccount", "0x01", "0x02"))
		require.NotNil(t, ids, "an empty list should not be sent as null")
		require.Empty(t, ids)

		var gas hexutil.Uint64
		err := client.CallContext(ctx, &gas, "sails_calculateGas", &adapter.Transaction{Kind: adapter.CONTRACT_CALL})
		require.Error(t, err)
		require.Contains(t, err.Error(), "no program")
	})

	_, err = network.Verify()
	require.NoError(t, err)
}

func TestAPI_SubmitAndWatchNeedsNotifications(t *testing.T) {
	network := &adapter.NetworkMock{}
	server, err := NewServer(network, log.DefaultTestingLogger(t))
	require.NoError(t, err)

	// plain calls have no notifier
	_, err = (&API{network: network, logger: log.DefaultTestingLogger(t)}).SubmitAndWatch(context.Background(), &adapter.SignedTransaction{})
	require.Equal(t, rpc.ErrNotificationsUnsupported, err)
	require.NotNil(t, server.RpcServer())
}
