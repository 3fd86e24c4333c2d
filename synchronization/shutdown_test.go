// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package synchronization

import (
	"context"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"os"
	"testing"
	"time"
)

type fakeNode struct {
	shutdown chan struct{}
}

func (n *fakeNode) GracefulShutdown(shutdownContext context.Context) {
	close(n.shutdown)
}

func (n *fakeNode) WaitUntilShutdown(shutdownContext context.Context) {
	select {
	case <-n.shutdown:
	case <-shutdownContext.Done():
	}
}

func TestOSShutdownListener_ShutsDownOnSignal(t *testing.T) {
	node := &fakeNode{shutdown: make(chan struct{})}
	listener := NewShutdownListener(log.DefaultTestingLogger(t), node, time.Second)
	listener.ListenToOSShutdownSignal()

	listener.signals <- os.Interrupt

	select {
	case <-node.shutdown:
	case <-time.After(time.Second):
		require.Fail(t, "node was not shut down after a signal")
	}
}
