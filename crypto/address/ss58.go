// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package address

import (
	"bytes"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/crypto/hash"
	"strings"
)

const (
	VARA_NETWORK_PREFIX      = 137
	SUBSTRATE_GENERIC_PREFIX = 42

	ACCOUNT_ID_SIZE = 32
	CHECKSUM_SIZE   = 2
	MAX_PREFIX      = 16383
)

var checksumPreamble = []byte("SS58PRE")

func ToSS58(publicKey []byte, prefix uint16) (string, error) {
	if len(publicKey) != ACCOUNT_ID_SIZE {
		return "", errors.Errorf("account id must be %d bytes, got %d", ACCOUNT_ID_SIZE, len(publicKey))
	}
	if prefix > MAX_PREFIX {
		return "", errors.Errorf("ss58 prefix %d out of range", prefix)
	}

	payload := append(encodePrefix(prefix), publicKey...)
	return base58.Encode(append(payload, checksum(payload)...)), nil
}

// FromSS58 returns the account id and the network prefix encoded in the address
func FromSS58(address string) ([]byte, uint16, error) {
	decoded, err := base58.Decode(address)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "base58 decode failed")
	}
	if len(decoded) == 0 {
		return nil, 0, errors.New("empty address")
	}

	prefixSize := 1
	if decoded[0]&0x40 != 0 {
		prefixSize = 2
	}
	if decoded[0]&0x80 != 0 {
		return nil, 0, errors.New("reserved ss58 address type")
	}
	if len(decoded) != prefixSize+ACCOUNT_ID_SIZE+CHECKSUM_SIZE {
		return nil, 0, errors.Errorf("decoded address has unexpected length %d", len(decoded))
	}

	payload := decoded[:prefixSize+ACCOUNT_ID_SIZE]
	if !bytes.Equal(checksum(payload), decoded[prefixSize+ACCOUNT_ID_SIZE:]) {
		return nil, 0, errors.New("checksum does not match address")
	}

	return payload[prefixSize:], decodePrefix(decoded[:prefixSize]), nil
}

// ToAccountIdHex accepts either a 0x-prefixed account id or an ss58 address
func ToAccountIdHex(address string) (string, error) {
	if strings.HasPrefix(address, "0x") {
		raw, err := hexutil.Decode(address)
		if err != nil {
			return "", errors.Wrapf(err, "invalid hex account id %s", address)
		}
		if len(raw) != ACCOUNT_ID_SIZE {
			return "", errors.Errorf("account id must be %d bytes, got %d", ACCOUNT_ID_SIZE, len(raw))
		}
		return hexutil.Encode(raw), nil
	}

	accountId, _, err := FromSS58(address)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(accountId), nil
}

func IsValid(address string) bool {
	_, err := ToAccountIdHex(address)
	return err == nil
}

func encodePrefix(prefix uint16) []byte {
	if prefix < 64 {
		return []byte{byte(prefix)}
	}
	first := byte((prefix&0xfc)>>2) | 0x40
	second := byte(prefix>>8) | byte((prefix&0x03)<<6)
	return []byte{first, second}
}

func decodePrefix(raw []byte) uint16 {
	if len(raw) == 1 {
		return uint16(raw[0])
	}
	lower := (raw[0] << 2) | (raw[1] >> 6)
	upper := raw[1] & 0x3f
	return uint16(lower) | uint16(upper)<<8
}

func checksum(payload []byte) []byte {
	digest := hash.CalcBlake2b512(checksumPreamble, payload)
	return digest[:CHECKSUM_SIZE]
}
