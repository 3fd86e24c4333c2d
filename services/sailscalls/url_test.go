// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package sailscalls

import (
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"testing"
)

const someContractId = "0x40ee053ed5af803a3c68fa432e11a38c99422bbdec815bbf745d536077d7587a"

func TestResolve_FullUrlIsSplitExactly(t *testing.T) {
	coordinate, err := Resolve(otherContractId+"/TrafficLight/Green", someContractId)
	require.NoError(t, err)
	require.Equal(t, &Coordinate{ContractId: otherContractId, Service: "TrafficLight", Method: "Green"}, coordinate)
}

func TestResolve_FullUrlNeedsAValidContractId(t *testing.T) {
	for _, url := range []string{"abc/TrafficLight/Green", "0xabc/TrafficLight/Green", "0x" + someContractId[4:] + "/TrafficLight/Green"} {
		_, err := Resolve(url, someContractId)
		require.True(t, errors.Is(err, ErrInvalidContractId), "url %q should be rejected, got %v", url, err)
	}
}

func TestResolve_ShortUrlUsesDefaultContract(t *testing.T) {
	coordinate, err := Resolve("TrafficLight/Red", someContractId)
	require.NoError(t, err)
	require.Equal(t, someContractId, coordinate.ContractId)
	require.Equal(t, "TrafficLight", coordinate.Service)
	require.Equal(t, "Red", coordinate.Method)
}

func TestResolve_ShortUrlWithoutDefaultContract(t *testing.T) {
	_, err := Resolve("TrafficLight/Red", "")
	require.True(t, errors.Is(err, ErrNoContractIdConfigured), "expected missing contract id, got %v", err)
}

func TestResolve_RejectsMalformedUrls(t *testing.T) {
	for _, url := range []string{"", "TrafficLight", "a/b/c/d", "Traffic-Light/Red", "/Red", "TrafficLight/", "Traffic Light/Red"} {
		_, err := Resolve(url, someContractId)
		require.True(t, errors.Is(err, ErrInvalidUrl), "url %q should be rejected, got %v", url, err)
	}
}
