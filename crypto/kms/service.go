// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package kms

import (
	"context"
	"encoding/json"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/vara-dapps/sailscalls-go/crypto/keys"
	"github.com/vara-dapps/sailscalls-go/instrumentation/logfields"
	"net"
	"net/http"
	"time"
)

// Service is a minimal remote wallet: it holds one keypair and signs payloads over http
type Service struct {
	govnr.TreeSupervisor

	pair    *keys.Sr25519KeyPair
	address string
	server  *http.Server
	logger  log.Logger
}

func NewService(address string, pair *keys.Sr25519KeyPair, logger log.Logger) *Service {
	return &Service{
		address: address,
		pair:    pair,
		logger:  logger.WithTags(log.Service("signer")),
	}
}

func (s *Service) Handler() http.Handler {
	router := http.NewServeMux()
	router.HandleFunc("/sign", s.SignHandler)
	router.HandleFunc("/address", s.AddressHandler)
	return router
}

// Start blocks until the socket is listening, then serves in the background
func (s *Service) Start(ctx context.Context) (net.Addr, error) {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return nil, err
	}

	s.logger.Info("started signer", log.String("address", listener.Addr().String()), log.String("account", s.pair.PublicKeyHex()))

	s.server = &http.Server{
		Handler: s.Handler(),
	}

	s.Supervise(govnr.Forever(ctx, "signer http server", logfields.GovnrErrorer(s.logger), func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("signer stopped serving", log.Error(err))
		}
		// a closed server cannot serve again, so park until shutdown instead of letting govnr restart us
		<-ctx.Done()
	}))

	govnr.Once(logfields.GovnrErrorer(s.logger), func() {
		<-ctx.Done()
		s.Shutdown()
	})

	return listener.Addr(), nil
}

func (s *Service) Shutdown() {
	if s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("failed to shut down signer", log.Error(err))
	}
}

func (s *Service) AddressHandler(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		writer.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJson(writer, &addressResponse{Address: s.pair.PublicKeyHex()})
}

func (s *Service) SignHandler(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		writer.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input signRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		s.logger.Error("failed to read sign request", log.Error(err))
		http.Error(writer, "malformed request", http.StatusBadRequest)
		return
	}

	if input.Address != s.pair.PublicKeyHex() {
		s.logger.Info("refused to sign for foreign account", log.String("account", input.Address))
		http.Error(writer, "unknown account", http.StatusForbidden)
		return
	}

	signature, err := s.pair.Sign(input.Payload)
	if err != nil {
		s.logger.Error("failed to sign payload", log.Error(err))
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	s.logger.Info("successfully signed payload", log.Int("payload-size", len(input.Payload)))
	writeJson(writer, &signResponse{Signature: signature})
}

func writeJson(writer http.ResponseWriter, body interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(body)
}
