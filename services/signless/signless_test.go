// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package signless

import (
	"context"
	"encoding/json"
	"github.com/stretchr/testify/require"
	"github.com/vara-dapps/sailscalls-go/crypto/keys"
	"github.com/vara-dapps/sailscalls-go/crypto/keystore"
	"github.com/vara-dapps/sailscalls-go/test"
	"testing"
)

func TestCreate_DefaultsLabel(t *testing.T) {
	pair, err := Create("")
	require.NoError(t, err)
	require.Equal(t, DEFAULT_LABEL, pair.Label)
	require.NotEmpty(t, pair.Mnemonic)

	restored, err := keys.NewSr25519KeyPairFromMnemonic(pair.Mnemonic)
	require.NoError(t, err)
	require.Equal(t, pair.AccountId(), restored.PublicKeyHex(), "the mnemonic should restore the pair")

	named, err := Create("session")
	require.NoError(t, err)
	require.Equal(t, "session", named.Label)
	require.NotEqual(t, pair.AccountId(), named.AccountId())
}

func TestLockUnlock(t *testing.T) {
	pair, err := Create("")
	require.NoError(t, err)

	locked, err := Lock(pair, "correct horse")
	require.NoError(t, err)
	require.Equal(t, []string{"pkcs8", "sr25519"}, locked.Encoding.Content)
	require.Equal(t, []string{"scrypt", "xsalsa20-poly1305"}, locked.Encoding.Type)
	require.Equal(t, "3", locked.Encoding.Version)
	require.Equal(t, DEFAULT_LABEL, locked.Meta.Name)

	unlocked, err := Unlock(locked, "correct horse")
	require.NoError(t, err)
	require.Equal(t, pair.AccountId(), unlocked.AccountId())
	require.Equal(t, DEFAULT_LABEL, unlocked.Label)

	_, err = Unlock(locked, "wrong")
	require.Equal(t, ErrInvalidPassword, err)
}

func TestUnlockedPairSigns(t *testing.T) {
	pair, err := Create("")
	require.NoError(t, err)

	test.WithContext(func(ctx context.Context) {
		message := []byte("Green")
		signature, err := pair.Signer().Sign(ctx, message)
		require.NoError(t, err)
		require.True(t, keys.VerifySr25519(pair.KeyPair().PublicKey(), message, signature))
	})
}

func TestContractShape_RenamesOnlyEncodingType(t *testing.T) {
	locked := &keystore.LockedPair{
		Address: "kGkLEU3e3XXkJp2WK4eNpVmSab5xUNL9QtmLPh8QfCL2EgotW",
		Encoded: "ZW5jb2RlZA==",
		Encoding: keystore.Encoding{
			Content: []string{"pkcs8", "sr25519"},
			Type:    []string{"scrypt", "xsalsa20-poly1305"},
			Version: "3",
		},
		Meta: keystore.Meta{Name: DEFAULT_LABEL, WhenCreated: 1700000000000},
	}

	contract := ToContractShape(locked)
	encoded, err := json.Marshal(contract)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"address": "kGkLEU3e3XXkJp2WK4eNpVmSab5xUNL9QtmLPh8QfCL2EgotW",
		"encoded": "ZW5jb2RlZA==",
		"encoding": {"content": ["pkcs8", "sr25519"], "encodingType": ["scrypt", "xsalsa20-poly1305"], "version": "3"},
		"meta": {"name": "signlessPair", "whenCreated": 1700000000000}
	}`, string(encoded))

	test.RequireCmpEqual(t, locked, FromContractShape(contract))
}

func TestContractShape_LockedPairSurvivesTheContract(t *testing.T) {
	pair, err := Create("")
	require.NoError(t, err)
	locked, err := Lock(pair, "pw")
	require.NoError(t, err)

	raw, err := json.Marshal(ToContractShape(locked))
	require.NoError(t, err)
	var stored ContractLockedPair
	require.NoError(t, json.Unmarshal(raw, &stored))

	unlocked, err := Unlock(FromContractShape(&stored), "pw")
	require.NoError(t, err)
	require.Equal(t, pair.AccountId(), unlocked.AccountId())
}
