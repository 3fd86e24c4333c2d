// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package address_test

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
	"github.com/vara-dapps/sailscalls-go/crypto/address"
	"testing"
)

const (
	alicePublicKey = "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	aliceGeneric   = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
)

type invalidTestPair struct {
	invalidAddress string
	testReason     string
}

var invalidAddressTests = []invalidTestPair{
	{"", "Empty address"},
	{"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQ", "Too short"},
	{"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQYa", "Too long"},
	{"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQZ", "Invalid checksum"},
	{"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKut0Y", "Invalid base58"},
	{"0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da2", "Short hex"},
	{"0xzz3593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d", "Invalid hex"},
}

func TestSS58_EncodesKnownVector(t *testing.T) {
	publicKey, err := hexutil.Decode(alicePublicKey)
	require.NoError(t, err)

	encoded, err := address.ToSS58(publicKey, address.SUBSTRATE_GENERIC_PREFIX)
	require.NoError(t, err)
	require.Equal(t, aliceGeneric, encoded)
}

func TestSS58_RoundTripsTwoBytePrefix(t *testing.T) {
	publicKey, err := hexutil.Decode(alicePublicKey)
	require.NoError(t, err)

	encoded, err := address.ToSS58(publicKey, address.VARA_NETWORK_PREFIX)
	require.NoError(t, err)

	decoded, prefix, err := address.FromSS58(encoded)
	require.NoError(t, err)
	require.EqualValues(t, address.VARA_NETWORK_PREFIX, prefix)
	require.Equal(t, publicKey, decoded)
}

func TestSS58_ToAccountIdHex(t *testing.T) {
	fromSS58, err := address.ToAccountIdHex(aliceGeneric)
	require.NoError(t, err)
	require.Equal(t, alicePublicKey, fromSS58)

	fromHex, err := address.ToAccountIdHex(alicePublicKey)
	require.NoError(t, err)
	require.Equal(t, alicePublicKey, fromHex)
}

func TestSS58_RejectsInvalidAddresses(t *testing.T) {
	for _, pair := range invalidAddressTests {
		require.False(t, address.IsValid(pair.invalidAddress), pair.testReason)
	}
}

func TestSS58_RejectsBadKeyLength(t *testing.T) {
	_, err := address.ToSS58([]byte{1, 2, 3}, address.SUBSTRATE_GENERIC_PREFIX)
	require.Error(t, err)
}
