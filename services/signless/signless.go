// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

// Package signless manages throwaway session keypairs that sign on behalf of a wallet so users are not prompted per call
package signless

import (
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/crypto/address"
	"github.com/vara-dapps/sailscalls-go/crypto/keys"
	"github.com/vara-dapps/sailscalls-go/crypto/keystore"
	"github.com/vara-dapps/sailscalls-go/crypto/kms"
	"time"
)

const DEFAULT_LABEL = "signlessPair"

var ErrInvalidPassword = keystore.ErrInvalidPassword

type Pair struct {
	Label    string
	Mnemonic string
	keyPair  *keys.Sr25519KeyPair
}

// Create makes a new mnemonic backed keypair; an empty label becomes DEFAULT_LABEL
func Create(label string) (*Pair, error) {
	if label == "" {
		label = DEFAULT_LABEL
	}

	mnemonic, err := keys.GenerateMnemonic()
	if err != nil {
		return nil, err
	}
	keyPair, err := keys.NewSr25519KeyPairFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	return &Pair{Label: label, Mnemonic: mnemonic, keyPair: keyPair}, nil
}

// AccountId is the hex public key
func (p *Pair) AccountId() string {
	return p.keyPair.PublicKeyHex()
}

func (p *Pair) Address() string {
	ss58, _ := address.ToSS58(p.keyPair.PublicKey(), address.VARA_NETWORK_PREFIX)
	return ss58
}

func (p *Pair) KeyPair() *keys.Sr25519KeyPair {
	return p.keyPair
}

func (p *Pair) Signer() kms.Signer {
	return kms.NewLocalSigner(p.keyPair)
}

func Lock(pair *Pair, password string) (*keystore.LockedPair, error) {
	return keystore.Lock(pair.keyPair, pair.Label, password, time.Now())
}

// Unlock fails with ErrInvalidPassword when password does not open locked.
// The mnemonic is not part of the locked form, so unlocked pairs have none.
func Unlock(locked *keystore.LockedPair, password string) (*Pair, error) {
	if locked == nil {
		return nil, errors.New("no locked pair")
	}
	keyPair, err := keystore.Unlock(locked, password)
	if err != nil {
		return nil, err
	}
	return &Pair{Label: locked.Meta.Name, keyPair: keyPair}, nil
}
