// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package keys

import (
	"crypto/sha512"
	"github.com/ChainSafe/go-schnorrkel"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SR25519_SEED_SIZE_BYTES       = 32
	SR25519_PUBLIC_KEY_SIZE_BYTES = 32
	SR25519_SIGNATURE_SIZE_BYTES  = 64

	MNEMONIC_ENTROPY_BITS = 128
)

// substrate signing context
var signingContext = []byte("substrate")

type Sr25519KeyPair struct {
	seed      [SR25519_SEED_SIZE_BYTES]byte
	publicKey [SR25519_PUBLIC_KEY_SIZE_BYTES]byte
	secret    *schnorrkel.SecretKey
}

func NewSr25519KeyPairFromSeed(seed []byte) (*Sr25519KeyPair, error) {
	if len(seed) != SR25519_SEED_SIZE_BYTES {
		return nil, errors.Errorf("sr25519 seed must be %d bytes, got %d", SR25519_SEED_SIZE_BYTES, len(seed))
	}

	var raw [SR25519_SEED_SIZE_BYTES]byte
	copy(raw[:], seed)

	mini, err := schnorrkel.NewMiniSecretKeyFromRaw(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create sr25519 mini secret")
	}

	return &Sr25519KeyPair{
		seed:      raw,
		publicKey: mini.Public().Encode(),
		secret:    mini.ExpandEd25519(),
	}, nil
}

func GenerateSr25519Key() (*Sr25519KeyPair, error) {
	mini, err := schnorrkel.GenerateMiniSecretKey()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create new sr25519 key from random seed")
	}
	seed := mini.Encode()
	return NewSr25519KeyPairFromSeed(seed[:])
}

// Mnemonic phrases map to seeds the way polkadot keyrings derive them: the
// bip39 entropy (not the bip39 seed) is stretched with pbkdf2.
func SeedFromMnemonic(mnemonic string, password string) ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid mnemonic")
	}

	seed := pbkdf2.Key(entropy, []byte("mnemonic"+password), 2048, 64, sha512.New)
	return seed[:SR25519_SEED_SIZE_BYTES], nil
}

func NewSr25519KeyPairFromMnemonic(mnemonic string) (*Sr25519KeyPair, error) {
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return nil, err
	}
	return NewSr25519KeyPairFromSeed(seed)
}

func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MNEMONIC_ENTROPY_BITS)
	if err != nil {
		return "", errors.Wrapf(err, "cannot read entropy for mnemonic")
	}
	return bip39.NewMnemonic(entropy)
}

func (k *Sr25519KeyPair) Seed() []byte {
	return k.seed[:]
}

func (k *Sr25519KeyPair) PublicKey() []byte {
	return k.publicKey[:]
}

func (k *Sr25519KeyPair) PublicKeyHex() string {
	return hexutil.Encode(k.publicKey[:])
}

func (k *Sr25519KeyPair) Sign(message []byte) ([]byte, error) {
	signature, err := k.secret.Sign(schnorrkel.NewSigningContext(signingContext, message))
	if err != nil {
		return nil, errors.Wrapf(err, "sr25519 signing failed")
	}
	encoded := signature.Encode()
	return encoded[:], nil
}

func VerifySr25519(publicKey []byte, message []byte, signature []byte) bool {
	if len(publicKey) != SR25519_PUBLIC_KEY_SIZE_BYTES || len(signature) != SR25519_SIGNATURE_SIZE_BYTES {
		return false
	}

	var rawKey [SR25519_PUBLIC_KEY_SIZE_BYTES]byte
	copy(rawKey[:], publicKey)
	pk := &schnorrkel.PublicKey{}
	if err := pk.Decode(rawKey); err != nil {
		return false
	}

	var rawSignature [SR25519_SIGNATURE_SIZE_BYTES]byte
	copy(rawSignature[:], signature)
	sig := &schnorrkel.Signature{}
	if err := sig.Decode(rawSignature); err != nil {
		return false
	}

	ok, err := pk.Verify(sig, schnorrkel.NewSigningContext(signingContext, message))
	return err == nil && ok
}
