// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package sailscalls

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"regexp"
)

var (
	fullUrl  = regexp.MustCompile(`^([A-Za-z0-9]+)/([A-Za-z0-9]+)/([A-Za-z0-9]+)$`)
	shortUrl = regexp.MustCompile(`^([A-Za-z0-9]+)/([A-Za-z0-9]+)$`)
)

// Coordinate names one contract method
type Coordinate struct {
	ContractId string
	Service    string
	Method     string
}

func (c *Coordinate) String() string {
	return c.ContractId + "/" + c.Service + "/" + c.Method
}

// Resolve accepts "ContractId/Service/Method" or "Service/Method", the latter
// falling back to defaultContractId
func Resolve(url string, defaultContractId string) (*Coordinate, error) {
	if parts := fullUrl.FindStringSubmatch(url); parts != nil {
		if _, err := decodeContractId(parts[1]); err != nil {
			return nil, errors.Wrapf(err, "cannot resolve %q", url)
		}
		return &Coordinate{ContractId: parts[1], Service: parts[2], Method: parts[3]}, nil
	}

	if parts := shortUrl.FindStringSubmatch(url); parts != nil {
		if defaultContractId == "" {
			return nil, errors.Wrapf(ErrNoContractIdConfigured, "cannot resolve %q", url)
		}
		return &Coordinate{ContractId: defaultContractId, Service: parts[1], Method: parts[2]}, nil
	}

	return nil, errors.Wrapf(ErrInvalidUrl, "cannot resolve %q", url)
}

func decodeContractId(contractId string) ([]byte, error) {
	raw, err := hexutil.Decode(contractId)
	if err != nil || len(raw) != CONTRACT_ID_SIZE_BYTES {
		return nil, errors.Wrapf(ErrInvalidContractId, "%q", contractId)
	}
	return raw, nil
}
