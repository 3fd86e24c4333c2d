// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package keystore

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/crypto/address"
	"github.com/vara-dapps/sailscalls-go/crypto/keys"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
	"time"
)

const (
	ENCODING_VERSION = "3"

	CONTENT_PKCS8   = "pkcs8"
	CONTENT_SR25519 = "sr25519"
	TYPE_SCRYPT     = "scrypt"
	TYPE_XSALSA20   = "xsalsa20-poly1305"

	SALT_SIZE  = 32
	NONCE_SIZE = 24
	KEY_SIZE   = 32

	DEFAULT_SCRYPT_N = 1 << 15
	DEFAULT_SCRYPT_R = 8
	DEFAULT_SCRYPT_P = 1

	maxScryptN = 1 << 20
	maxScryptP = 16

	// scrypt needs 128*N*r bytes; four times what the default params take
	maxScryptMemoryBytes = 4 * 128 * DEFAULT_SCRYPT_N * DEFAULT_SCRYPT_R
)

var ErrInvalidPassword = errors.New("unable to decode using the supplied passphrase")

type Encoding struct {
	Content []string `json:"content"`
	Type    []string `json:"type"`
	Version string   `json:"version"`
}

type Meta struct {
	Name        string `json:"name"`
	WhenCreated int64  `json:"whenCreated"`
}

// LockedPair is the password protected, json serializable form of a keypair
type LockedPair struct {
	Address  string   `json:"address"`
	Encoded  string   `json:"encoded"`
	Encoding Encoding `json:"encoding"`
	Meta     Meta     `json:"meta"`
}

type ScryptParams struct {
	N uint32
	R uint32
	P uint32
}

var DefaultScryptParams = ScryptParams{N: DEFAULT_SCRYPT_N, R: DEFAULT_SCRYPT_R, P: DEFAULT_SCRYPT_P}

func Lock(pair *keys.Sr25519KeyPair, name string, password string, whenCreated time.Time) (*LockedPair, error) {
	return LockWithParams(pair, name, password, whenCreated, DefaultScryptParams)
}

func LockWithParams(pair *keys.Sr25519KeyPair, name string, password string, whenCreated time.Time, params ScryptParams) (*LockedPair, error) {
	ss58, err := address.ToSS58(pair.PublicKey(), address.SUBSTRATE_GENERIC_PREFIX)
	if err != nil {
		return nil, err
	}

	var salt [SALT_SIZE]byte
	var nonce [NONCE_SIZE]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, errors.Wrapf(err, "cannot read salt")
	}
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, errors.Wrapf(err, "cannot read nonce")
	}

	key, err := deriveKey(password, salt[:], params)
	if err != nil {
		return nil, err
	}

	encoded := make([]byte, 0, SALT_SIZE+12+NONCE_SIZE+pkcs8Size+secretbox.Overhead)
	encoded = append(encoded, salt[:]...)
	encoded = appendUint32(encoded, params.N)
	encoded = appendUint32(encoded, params.P)
	encoded = appendUint32(encoded, params.R)
	encoded = append(encoded, nonce[:]...)
	encoded = secretbox.Seal(encoded, encodePkcs8(pair), &nonce, key)

	return &LockedPair{
		Address: ss58,
		Encoded: base64.StdEncoding.EncodeToString(encoded),
		Encoding: Encoding{
			Content: []string{CONTENT_PKCS8, CONTENT_SR25519},
			Type:    []string{TYPE_SCRYPT, TYPE_XSALSA20},
			Version: ENCODING_VERSION,
		},
		Meta: Meta{
			Name:        name,
			WhenCreated: whenCreated.UnixNano() / int64(time.Millisecond),
		},
	}, nil
}

func Unlock(locked *LockedPair, password string) (*keys.Sr25519KeyPair, error) {
	if err := validateEncoding(locked.Encoding); err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(locked.Encoded)
	if err != nil {
		return nil, errors.Wrapf(err, "encoded keypair is not base64")
	}
	if len(raw) < SALT_SIZE+12+NONCE_SIZE+secretbox.Overhead {
		return nil, errors.Errorf("encoded keypair too short (%d bytes)", len(raw))
	}

	salt := raw[:SALT_SIZE]
	params := ScryptParams{
		N: binary.LittleEndian.Uint32(raw[SALT_SIZE:]),
		P: binary.LittleEndian.Uint32(raw[SALT_SIZE+4:]),
		R: binary.LittleEndian.Uint32(raw[SALT_SIZE+8:]),
	}
	var nonce [NONCE_SIZE]byte
	copy(nonce[:], raw[SALT_SIZE+12:])
	box := raw[SALT_SIZE+12+NONCE_SIZE:]

	key, err := deriveKey(password, salt, params)
	if err != nil {
		return nil, err
	}

	plain, ok := secretbox.Open(nil, box, &nonce, key)
	if !ok {
		return nil, ErrInvalidPassword
	}

	pair, err := decodePkcs8(plain)
	if err != nil {
		return nil, err
	}

	if accountId, err := address.ToAccountIdHex(locked.Address); err != nil || accountId != pair.PublicKeyHex() {
		return nil, errors.Errorf("decoded keypair does not match address %s", locked.Address)
	}

	return pair, nil
}

func deriveKey(password string, salt []byte, params ScryptParams) (*[KEY_SIZE]byte, error) {
	if params.N < 2 || params.N > maxScryptN || params.N&(params.N-1) != 0 {
		return nil, errors.Errorf("invalid scrypt N %d", params.N)
	}
	if params.R == 0 || params.P == 0 || params.P > maxScryptP {
		return nil, errors.Errorf("invalid scrypt r=%d p=%d", params.R, params.P)
	}
	if memory := 128 * uint64(params.N) * uint64(params.R); memory > maxScryptMemoryBytes {
		return nil, errors.Errorf("scrypt N=%d r=%d needs %d bytes, limit is %d", params.N, params.R, memory, maxScryptMemoryBytes)
	}

	derived, err := scrypt.Key([]byte(password), salt, int(params.N), int(params.R), int(params.P), 64)
	if err != nil {
		return nil, errors.Wrapf(err, "scrypt key derivation failed")
	}

	var key [KEY_SIZE]byte
	copy(key[:], derived[:KEY_SIZE])
	return &key, nil
}

func validateEncoding(encoding Encoding) error {
	if encoding.Version != ENCODING_VERSION {
		return errors.Errorf("unsupported keypair encoding version %q", encoding.Version)
	}
	if !contains(encoding.Type, TYPE_SCRYPT) || !contains(encoding.Type, TYPE_XSALSA20) {
		return errors.Errorf("unsupported keypair encoding type %v", encoding.Type)
	}
	if !contains(encoding.Content, CONTENT_PKCS8) || !contains(encoding.Content, CONTENT_SR25519) {
		return errors.Errorf("unsupported keypair content %v", encoding.Content)
	}
	return nil
}

func appendUint32(b []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
