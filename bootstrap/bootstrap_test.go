// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"github.com/orbs-network/scribe/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vara-dapps/sailscalls-go/config"
	"github.com/vara-dapps/sailscalls-go/contracts/trafficlight"
	"github.com/vara-dapps/sailscalls-go/crypto/keys"
	"github.com/vara-dapps/sailscalls-go/crypto/kms"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls"
	"github.com/vara-dapps/sailscalls-go/synchronization"
	"github.com/vara-dapps/sailscalls-go/test"
	"testing"
)

func newUser(t *testing.T) kms.Signer {
	pair, err := keys.GenerateSr25519Key()
	require.NoError(t, err)
	return kms.NewLocalSigner(pair)
}

func newMnemonic(t *testing.T) string {
	mnemonic, err := keys.GenerateMnemonic()
	require.NoError(t, err)
	return mnemonic
}

func requireTrafficLightWorks(ctx context.Context, t *testing.T, client *Client) {
	user := newUser(t)

	voucherId, err := client.Vouchers.Issue(ctx, user.Address(), nil, decimal.NewFromInt(2), 100, nil)
	require.NoError(t, err)

	event, err := client.TrafficLight.Green(ctx, user, &sailscalls.CommandOptions{VoucherId: voucherId})
	require.NoError(t, err)
	require.Equal(t, trafficlight.GREEN, event)

	state, err := client.TrafficLight.State(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, trafficlight.GREEN, state.CurrentLight)
	light, found := state.LightOf(user.Address())
	require.True(t, found)
	require.Equal(t, trafficlight.GREEN, light)

	has, err := client.Vouchers.HasVouchers(ctx, user.Address(), "")
	require.NoError(t, err)
	require.True(t, has)
}

func TestClient_InMemoryNetwork(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		client, err := NewClient(ctx, config.ForTests(newMnemonic(t)), log.DefaultTestingLogger(t))
		require.NoError(t, err)
		defer synchronization.ShutdownGracefully(client, test.DEFAULT_SHUTDOWN_TIMEOUT)

		require.NotNil(t, client.Simulator)
		require.True(t, client.Calls.IdlLoaded(), "the traffic light idl is built in")
		requireTrafficLightWorks(ctx, t, client)
	})
}

func TestClient_BadIdlDisablesCalls(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		cfg := config.ForTests(newMnemonic(t))
		cfg.SetString(config.CONTRACT_IDL, "service {")

		client, err := NewClient(ctx, cfg, log.DefaultTestingLogger(t))
		require.NoError(t, err)
		defer synchronization.ShutdownGracefully(client, test.DEFAULT_SHUTDOWN_TIMEOUT)

		_, err = client.TrafficLight.Green(ctx, newUser(t), nil)
		require.Equal(t, sailscalls.ErrIdlNotConfigured, err)
	})
}

func TestClient_RejectsUnknownEndpoint(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		cfg := config.ForTests("")
		cfg.SetString(config.NETWORK_ENDPOINT, "tcp://localhost:1")

		_, err := NewClient(ctx, cfg, log.DefaultTestingLogger(t))
		require.Error(t, err)
	})
}

func TestGatewayNode_ServesRemoteClients(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		logger := log.DefaultTestingLogger(t)

		node, err := NewGatewayNode(config.ForTests(""), logger)
		require.NoError(t, err)
		defer synchronization.ShutdownGracefully(node, test.DEFAULT_SHUTDOWN_TIMEOUT)

		cfg := config.ForTests(newMnemonic(t))
		cfg.SetString(config.NETWORK_ENDPOINT, node.Endpoint())

		client, err := NewClient(ctx, cfg, logger)
		require.NoError(t, err)
		defer synchronization.ShutdownGracefully(client, test.DEFAULT_SHUTDOWN_TIMEOUT)

		require.Nil(t, client.Simulator, "a remote client runs no simulator")
		requireTrafficLightWorks(ctx, t, client)
	})
}

func TestSignerNode_SignsForRemoteClients(t *testing.T) {
	test.WithContext(func(ctx context.Context) {
		cfg := config.ForTests("")
		cfg.SetString(config.SIGNER_MNEMONIC, newMnemonic(t))

		node, err := NewSignerNode(cfg, log.DefaultTestingLogger(t))
		require.NoError(t, err)
		defer synchronization.ShutdownGracefully(node, test.DEFAULT_SHUTDOWN_TIMEOUT)

		cfg.SetString(config.SIGNER_ENDPOINT, node.Endpoint())
		signer, err := kms.GetSigner(ctx, cfg)
		require.NoError(t, err)
		require.Equal(t, node.Account(), signer.Address())

		client, err := NewClient(ctx, config.ForTests(newMnemonic(t)), log.DefaultTestingLogger(t))
		require.NoError(t, err)
		defer synchronization.ShutdownGracefully(client, test.DEFAULT_SHUTDOWN_TIMEOUT)

		event, err := client.TrafficLight.Red(ctx, signer, nil)
		require.NoError(t, err)
		require.Equal(t, trafficlight.RED, event)
	})
}
