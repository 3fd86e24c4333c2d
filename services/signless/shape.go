// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package signless

import "github.com/vara-dapps/sailscalls-go/crypto/keystore"

// ContractEncoding is the encoding block as the contract stores it: "type" is a reserved word there
type ContractEncoding struct {
	Content      []string `json:"content"`
	EncodingType []string `json:"encodingType"`
	Version      string   `json:"version"`
}

type ContractLockedPair struct {
	Address  string           `json:"address"`
	Encoded  string           `json:"encoded"`
	Encoding ContractEncoding `json:"encoding"`
	Meta     keystore.Meta    `json:"meta"`
}

// ToContractShape and FromContractShape only rename encoding.type; each undoes the other
func ToContractShape(locked *keystore.LockedPair) *ContractLockedPair {
	return &ContractLockedPair{
		Address: locked.Address,
		Encoded: locked.Encoded,
		Encoding: ContractEncoding{
			Content:      copyStrings(locked.Encoding.Content),
			EncodingType: copyStrings(locked.Encoding.Type),
			Version:      locked.Encoding.Version,
		},
		Meta: locked.Meta,
	}
}

func FromContractShape(contract *ContractLockedPair) *keystore.LockedPair {
	return &keystore.LockedPair{
		Address: contract.Address,
		Encoded: contract.Encoded,
		Encoding: keystore.Encoding{
			Content: copyStrings(contract.Encoding.Content),
			Type:    copyStrings(contract.Encoding.EncodingType),
			Version: contract.Encoding.Version,
		},
		Meta: contract.Meta,
	}
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}
