// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package kms

import (
	"context"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"github.com/vara-dapps/sailscalls-go/crypto/keys"
	"github.com/vara-dapps/sailscalls-go/test"
	"github.com/vara-dapps/sailscalls-go/test/with"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLocalSigner(t *testing.T) {
	pair, err := keys.GenerateSr25519Key()
	require.NoError(t, err)
	c := NewLocalSigner(pair)

	payload := []byte("payload")

	test.WithContext(func(ctx context.Context) {
		signature, err := c.Sign(ctx, payload)
		require.NoError(t, err)
		require.True(t, keys.VerifySr25519(pair.PublicKey(), payload, signature))
		require.Equal(t, pair.PublicKeyHex(), c.Address())
	})
}

func TestSignerClient(t *testing.T) {
	pair, err := keys.GenerateSr25519Key()
	require.NoError(t, err)

	service := NewService("localhost:0", pair, log.DefaultTestingLogger(t))
	server := httptest.NewServer(service.Handler())
	defer server.Close()

	test.WithContext(func(ctx context.Context) {
		c, err := DiscoverSignerClient(ctx, server.URL)
		require.NoError(t, err)
		require.Equal(t, pair.PublicKeyHex(), c.Address())

		payload := []byte("payload")
		signature, err := c.Sign(ctx, payload)
		require.NoError(t, err)
		require.True(t, keys.VerifySr25519(pair.PublicKey(), payload, signature))
	})
}

func TestSignerClient_RefusesForeignAccount(t *testing.T) {
	pair, err := keys.GenerateSr25519Key()
	require.NoError(t, err)
	other, err := keys.GenerateSr25519Key()
	require.NoError(t, err)

	service := NewService("localhost:0", pair, log.DefaultTestingLogger(t))
	server := httptest.NewServer(service.Handler())
	defer server.Close()

	test.WithContext(func(ctx context.Context) {
		c, err := NewSignerClient(server.URL, other.PublicKeyHex())
		require.NoError(t, err)

		_, err = c.Sign(ctx, []byte("payload"))
		require.Error(t, err)
	})
}

func TestSignerService_RejectsMalformedRequest(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		harness.AllowErrorsMatching("failed to read sign request")

		pair, err := keys.GenerateSr25519Key()
		require.NoError(t, err)

		service := NewService("localhost:0", pair, harness.Logger)
		server := httptest.NewServer(service.Handler())
		defer server.Close()

		with.Context(func(ctx context.Context) {
			request, err := http.NewRequestWithContext(ctx, http.MethodPost, server.URL+"/sign", strings.NewReader("{not json"))
			require.NoError(t, err)
			response, err := http.DefaultClient.Do(request)
			require.NoError(t, err)
			defer response.Body.Close()
			require.Equal(t, http.StatusBadRequest, response.StatusCode)
		})
	})
}

func TestSignerService_StartsAndShutsDown(t *testing.T) {
	pair, err := keys.GenerateSr25519Key()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	service := NewService("127.0.0.1:0", pair, log.DefaultTestingLogger(t))
	addr, err := service.Start(ctx)
	require.NoError(t, err)

	c, err := DiscoverSignerClient(ctx, "http://"+addr.String())
	require.NoError(t, err)
	require.Equal(t, pair.PublicKeyHex(), c.Address())

	cancel()
	test.WithContextWithTimeout(test.DEFAULT_SHUTDOWN_TIMEOUT, func(shutdownCtx context.Context) {
		service.WaitUntilShutdown(shutdownCtx)
	})
}

type staticSignerConfig struct {
	endpoint string
	mnemonic string
}

func (c *staticSignerConfig) SignerEndpoint() string { return c.endpoint }
func (c *staticSignerConfig) SignerMnemonic() string { return c.mnemonic }

func TestGetSigner_PrefersMnemonicWhenNoEndpoint(t *testing.T) {
	mnemonic, err := keys.GenerateMnemonic()
	require.NoError(t, err)
	expected, err := keys.NewSr25519KeyPairFromMnemonic(mnemonic)
	require.NoError(t, err)

	test.WithContext(func(ctx context.Context) {
		signer, err := GetSigner(ctx, &staticSignerConfig{mnemonic: mnemonic})
		require.NoError(t, err)
		require.Equal(t, expected.PublicKeyHex(), signer.Address())

		_, err = GetSigner(ctx, &staticSignerConfig{})
		require.Error(t, err)
	})
}
