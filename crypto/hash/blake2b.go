// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package hash

import (
	"golang.org/x/crypto/blake2b"
)

const (
	BLAKE2B_256_HASH_SIZE_BYTES = 32
	BLAKE2B_512_HASH_SIZE_BYTES = 64
)

func CalcBlake2b256(chunks ...[]byte) []byte {
	h, _ := blake2b.New256(nil) // only fails for oversized keys
	for _, chunk := range chunks {
		h.Write(chunk)
	}
	return h.Sum(nil)
}

func CalcBlake2b512(chunks ...[]byte) []byte {
	h, _ := blake2b.New512(nil)
	for _, chunk := range chunks {
		h.Write(chunk)
	}
	return h.Sum(nil)
}
