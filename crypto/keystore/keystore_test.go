// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package keystore

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/vara-dapps/sailscalls-go/crypto/keys"
	"testing"
	"time"
)

var fastScrypt = ScryptParams{N: 1 << 10, R: 8, P: 1}

func lockedForTest(t *testing.T, password string) (*keys.Sr25519KeyPair, *LockedPair) {
	pair, err := keys.GenerateSr25519Key()
	require.NoError(t, err)

	locked, err := LockWithParams(pair, "test-pair", password, time.Now(), fastScrypt)
	require.NoError(t, err)
	return pair, locked
}

func TestKeystore_UnlockWithCorrectPasswordRestoresPair(t *testing.T) {
	pair, locked := lockedForTest(t, "hunter2")

	unlocked, err := Unlock(locked, "hunter2")
	require.NoError(t, err)
	require.Equal(t, pair.PublicKey(), unlocked.PublicKey())
}

func TestKeystore_UnlockWithWrongPasswordFails(t *testing.T) {
	_, locked := lockedForTest(t, "hunter2")

	_, err := Unlock(locked, "hunter3")
	require.True(t, errors.Is(err, ErrInvalidPassword), "expected invalid password, got %v", err)
}

func TestKeystore_DefaultParamsRoundTrip(t *testing.T) {
	pair, err := keys.GenerateSr25519Key()
	require.NoError(t, err)

	locked, err := Lock(pair, "default", "secret", time.Now())
	require.NoError(t, err)

	unlocked, err := Unlock(locked, "secret")
	require.NoError(t, err)
	require.Equal(t, pair.PublicKeyHex(), unlocked.PublicKeyHex())
}

func TestKeystore_JsonShape(t *testing.T) {
	_, locked := lockedForTest(t, "pw")

	raw, err := json.Marshal(locked)
	require.NoError(t, err)

	var shape map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &shape))

	encoding := shape["encoding"].(map[string]interface{})
	require.Equal(t, []interface{}{"pkcs8", "sr25519"}, encoding["content"])
	require.Equal(t, []interface{}{"scrypt", "xsalsa20-poly1305"}, encoding["type"])
	require.Equal(t, "3", encoding["version"])
	require.Equal(t, "test-pair", shape["meta"].(map[string]interface{})["name"])
	require.NotEmpty(t, shape["address"])
	require.NotEmpty(t, shape["encoded"])
}

func TestKeystore_RejectsUnknownEncoding(t *testing.T) {
	_, locked := lockedForTest(t, "pw")
	locked.Encoding.Type = []string{"none"}

	_, err := Unlock(locked, "pw")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInvalidPassword))
}

func TestKeystore_RejectsForeignAddress(t *testing.T) {
	_, locked := lockedForTest(t, "pw")
	_, other := lockedForTest(t, "pw")
	locked.Address = other.Address

	_, err := Unlock(locked, "pw")
	require.Error(t, err)
}

func TestKeystore_RejectsOversizedScryptParams(t *testing.T) {
	for name, params := range map[string]ScryptParams{
		"memory": {N: 1 << 20, R: 1 << 16, P: 1},
		"n":      {N: 1 << 21, R: 1, P: 1},
		"p":      {N: 1 << 10, R: 8, P: 1 << 20},
	} {
		t.Run(name, func(t *testing.T) {
			_, locked := lockedForTest(t, "pw")

			raw, err := base64.StdEncoding.DecodeString(locked.Encoded)
			require.NoError(t, err)
			binary.LittleEndian.PutUint32(raw[SALT_SIZE:], params.N)
			binary.LittleEndian.PutUint32(raw[SALT_SIZE+4:], params.P)
			binary.LittleEndian.PutUint32(raw[SALT_SIZE+8:], params.R)
			locked.Encoded = base64.StdEncoding.EncodeToString(raw)

			_, err = Unlock(locked, "pw")
			require.Error(t, err)
			require.False(t, errors.Is(err, ErrInvalidPassword), "params should be rejected before derivation, got %v", err)
		})
	}
}
