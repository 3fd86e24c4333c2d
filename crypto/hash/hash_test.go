// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package hash

import (
	"encoding/hex"
	"github.com/stretchr/testify/require"
	"testing"
)

var someData = []byte("testing")

const (
	ExpectedBlake2b256Empty = "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"
)

func TestCalcBlake2b256(t *testing.T) {
	require.Equal(t, ExpectedBlake2b256Empty, hex.EncodeToString(CalcBlake2b256()), "result should match")
	require.Len(t, CalcBlake2b256(someData), BLAKE2B_256_HASH_SIZE_BYTES)
}

func TestCalcBlake2b256_MultipleChunks(t *testing.T) {
	require.Equal(t, CalcBlake2b256(someData), CalcBlake2b256(someData[:3], someData[3:]), "chunking should not change the digest")
}

func TestCalcBlake2b512_MultipleChunks(t *testing.T) {
	h := CalcBlake2b512(someData[:3], someData[3:])
	require.Len(t, h, BLAKE2B_512_HASH_SIZE_BYTES)
	require.Equal(t, CalcBlake2b512(someData), h, "chunking should not change the digest")
}

func BenchmarkCalcBlake2b256(b *testing.B) {
	for i := 0; i < b.N; i++ {
		CalcBlake2b256(someData)
	}
}
