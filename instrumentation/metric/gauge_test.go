// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestGauge_Add(t *testing.T) {
	g := Gauge{}
	g.AddUint32(10)

	require.EqualValues(t, 10, g.Value(), "gauge value differed from expected")
}

func TestGauge_IncDec(t *testing.T) {
	g := Gauge{}
	g.Inc()
	g.Inc()
	g.Dec()

	require.EqualValues(t, 1, g.Value(), "gauge value differed from expected")
}

func TestGauge_Update(t *testing.T) {
	g := Gauge{}
	g.Add(5)
	g.Update(42)

	require.EqualValues(t, 42, g.Value(), "gauge value differed from expected")
}
