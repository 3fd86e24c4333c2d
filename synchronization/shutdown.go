// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package synchronization

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/vara-dapps/sailscalls-go/instrumentation/logfields"
	"os"
	"os/signal"
	"syscall"
	"time"
)

type ShutdownWaiter interface {
	WaitUntilShutdown(shutdownContext context.Context)
}

// GracefulShutdowner is a node: it stops its goroutines when asked and can be waited on
type GracefulShutdowner interface {
	ShutdownWaiter
	GracefulShutdown(shutdownContext context.Context)
}

func ShutdownGracefully(s GracefulShutdowner, timeout time.Duration) {
	shutdownContext, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.GracefulShutdown(shutdownContext)
	s.WaitUntilShutdown(shutdownContext)
}

type OSShutdownListener struct {
	logger     log.Logger
	shutdowner GracefulShutdowner
	timeout    time.Duration
	signals    chan os.Signal
}

func NewShutdownListener(logger log.Logger, shutdowner GracefulShutdowner, timeout time.Duration) *OSShutdownListener {
	return &OSShutdownListener{
		logger:     logger,
		shutdowner: shutdowner,
		timeout:    timeout,
		signals:    make(chan os.Signal, 1),
	}
}

// ListenToOSShutdownSignal shuts the node down on the first sigint or sigterm
func (n *OSShutdownListener) ListenToOSShutdownSignal() {
	signal.Notify(n.signals, os.Interrupt, syscall.SIGTERM)
	govnr.Once(logfields.GovnrErrorer(n.logger), func() {
		received := <-n.signals
		signal.Stop(n.signals)
		n.logger.Info("shutting down gracefully due to os signal", log.String("signal", received.String()))
		ShutdownGracefully(n.shutdowner, n.timeout)
	})
}
