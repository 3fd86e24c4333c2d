// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"fmt"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"testing"
)

// AssertCmpEqual compares with go-cmp, which reports a readable diff for nested structs and json payloads
func AssertCmpEqual(t testing.TB, expected interface{}, actual interface{}, opts []cmp.Option, msgAndArgs ...interface{}) bool {
	if diff := cmp.Diff(expected, actual, opts...); diff != "" {
		return assert.Fail(t, fmt.Sprintf("Not equal (-expected +actual):\n%s", diff), msgAndArgs...)
	}
	return true
}

func RequireCmpEqual(t testing.TB, expected interface{}, actual interface{}, msgAndArgs ...interface{}) {
	if AssertCmpEqual(t, expected, actual, nil, msgAndArgs...) {
		return
	}
	t.FailNow()
}
