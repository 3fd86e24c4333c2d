// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package gateway

import (
	"context"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/instrumentation/logfields"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter"
	"net"
	"net/http"
	"strings"
	"time"
)

// Server exposes a Network as json-rpc, over websocket for subscriptions and plain http for calls
type Server struct {
	govnr.TreeSupervisor

	rpc    *rpc.Server
	http   *http.Server
	logger log.Logger
}

func NewServer(network adapter.Network, logger log.Logger) (*Server, error) {
	logger = logger.WithTags(log.Service("gateway"))

	server := rpc.NewServer()
	if err := server.RegisterName(NAMESPACE, &API{network: network, logger: logger}); err != nil {
		return nil, errors.Wrapf(err, "failed to register %s api", NAMESPACE)
	}

	return &Server{
		rpc:    server,
		logger: logger,
	}, nil
}

// RpcServer is exposed for in-process clients
func (s *Server) RpcServer() *rpc.Server {
	return s.rpc
}

func (s *Server) Handler() http.Handler {
	websocket := s.rpc.WebsocketHandler([]string{"*"})
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if strings.EqualFold(request.Header.Get("Upgrade"), "websocket") {
			websocket.ServeHTTP(writer, request)
			return
		}
		s.rpc.ServeHTTP(writer, request)
	})
}

// Start blocks until the socket is listening, then serves in the background until ctx ends
func (s *Server) Start(ctx context.Context, listenAddress string) (net.Addr, error) {
	listener, err := net.Listen("tcp", listenAddress)
	if err != nil {
		return nil, errors.Wrapf(err, "gateway failed to listen on %s", listenAddress)
	}

	s.logger.Info("started gateway", log.String("address", listener.Addr().String()))

	s.http = &http.Server{
		Handler: s.Handler(),
	}

	s.Supervise(govnr.Forever(ctx, "gateway http server", logfields.GovnrErrorer(s.logger), func() {
		if err := s.http.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("gateway stopped serving", log.Error(err))
		}
		<-ctx.Done()
	}))

	govnr.Once(logfields.GovnrErrorer(s.logger), func() {
		<-ctx.Done()
		s.shutdown()
	})

	return listener.Addr(), nil
}

func (s *Server) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Info("gateway did not shut down cleanly", log.Error(err))
	}
	s.rpc.Stop()
}
