// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package keystore

import (
	"bytes"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/crypto/keys"
)

var (
	pkcs8Header  = []byte{48, 83, 2, 1, 1, 48, 5, 6, 3, 43, 101, 112, 4, 34, 4, 32}
	pkcs8Divider = []byte{161, 35, 3, 33, 0}
)

const pkcs8Size = 16 + keys.SR25519_SEED_SIZE_BYTES + 5 + keys.SR25519_PUBLIC_KEY_SIZE_BYTES

// the secret slot holds the 32 byte mini secret, the public key follows the divider
func encodePkcs8(pair *keys.Sr25519KeyPair) []byte {
	encoded := make([]byte, 0, pkcs8Size)
	encoded = append(encoded, pkcs8Header...)
	encoded = append(encoded, pair.Seed()...)
	encoded = append(encoded, pkcs8Divider...)
	encoded = append(encoded, pair.PublicKey()...)
	return encoded
}

func decodePkcs8(encoded []byte) (*keys.Sr25519KeyPair, error) {
	if len(encoded) != pkcs8Size {
		return nil, errors.Errorf("pkcs8 payload has unexpected length %d", len(encoded))
	}
	if !bytes.Equal(encoded[:len(pkcs8Header)], pkcs8Header) {
		return nil, errors.New("invalid pkcs8 header")
	}

	seedEnd := len(pkcs8Header) + keys.SR25519_SEED_SIZE_BYTES
	if !bytes.Equal(encoded[seedEnd:seedEnd+len(pkcs8Divider)], pkcs8Divider) {
		return nil, errors.New("invalid pkcs8 divider")
	}

	pair, err := keys.NewSr25519KeyPairFromSeed(encoded[len(pkcs8Header):seedEnd])
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(pair.PublicKey(), encoded[seedEnd+len(pkcs8Divider):]) {
		return nil, errors.New("pkcs8 public key does not match secret")
	}

	return pair, nil
}
