// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package main

import (
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/cli"
	"github.com/vara-dapps/sailscalls-go/instrumentation"
	"os"
)

func main() {
	logger := instrumentation.GetBootstrapCrashLogger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("unexpected error in main goroutine", log.Error(errors.Errorf("unknown error: %v", r)))
			os.Exit(2)
		}
	}()

	if err := cli.Execute(); err != nil {
		logger.Error("command failed", log.Error(err))
		os.Exit(1)
	}
}
