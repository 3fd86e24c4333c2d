// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package sailscalls

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/instrumentation/logfields"
	"github.com/vara-dapps/sailscalls-go/instrumentation/metric"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter"
	"sync"
	"time"
)

const CONTRACT_ID_SIZE_BYTES = 32

type Config interface {
	DefaultContractId() string
	GasSafetyMarginPercent() uint32
}

type metrics struct {
	commandTime     *metric.Histogram
	queryTime       *metric.Histogram
	commandRate     *metric.Rate
	commandInFlight *metric.Gauge
}

func newMetrics(factory metric.Factory) *metrics {
	return &metrics{
		commandTime:     factory.NewLatency("SailsCalls.Command.ProcessingTime", 5*time.Minute),
		queryTime:       factory.NewLatency("SailsCalls.Query.ProcessingTime", 1*time.Minute),
		commandRate:     factory.NewRate("SailsCalls.Command.Rate"),
		commandInFlight: factory.NewGauge("SailsCalls.Command.InFlight"),
	}
}

// session is the configuration a call works with; calls copy it when they start
type session struct {
	network    adapter.Network
	contractId string
	idl        *Interface
	methods    *methodTable
}

// SailsCalls turns "Service/Method" urls into contract calls against one program interface.
// The With... setters may be called at any time and apply to calls started after they return.
type SailsCalls struct {
	logger           log.Logger
	gasMarginPercent uint32
	metrics          *metrics

	mutex   sync.RWMutex
	current session
}

func NewSailsCalls(config Config, network adapter.Network, logger log.Logger, metricFactory metric.Factory) *SailsCalls {
	s := &SailsCalls{
		logger:           logger.WithTags(log.Service("sailscalls")),
		gasMarginPercent: config.GasSafetyMarginPercent(),
		metrics:          newMetrics(metricFactory),
	}
	s.current.network = network

	if id := config.DefaultContractId(); id != "" {
		if err := s.WithContractId(id); err != nil {
			s.logger.Info("ignoring configured contract id", log.Error(err), logfields.ContractId(id))
		}
	}

	return s
}

func (s *SailsCalls) snapshot() session {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.current
}

func (s *SailsCalls) WithNetwork(network adapter.Network) *SailsCalls {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.current.network = network
	return s
}

// WithIdl replaces the program interface. A source that fails to parse leaves the session with no IDL.
func (s *SailsCalls) WithIdl(source string) error {
	idl, err := ParseIdl(source)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err != nil {
		s.current.idl = nil
		s.current.methods = nil
		s.logger.Info("failed to parse idl, calls are disabled until a valid idl is set", log.Error(err))
		return errors.Wrapf(err, "invalid idl")
	}

	s.current.idl = idl
	s.current.methods = newMethodTable(idl)
	s.logger.Info("idl loaded", log.Int("services", len(idl.Services)))
	return nil
}

func (s *SailsCalls) WithContractId(contractId string) error {
	raw, err := decodeContractId(contractId)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.current.contractId = hexutil.Encode(raw)
	return nil
}

func (s *SailsCalls) ContractId() string {
	return s.snapshot().contractId
}

func (s *SailsCalls) Network() adapter.Network {
	return s.snapshot().network
}

func (s *SailsCalls) Idl() *Interface {
	return s.snapshot().idl
}

func (s *SailsCalls) IdlLoaded() bool {
	return s.snapshot().idl != nil
}

func (s *SailsCalls) Services() ([]string, error) {
	current := s.snapshot()
	if current.methods == nil {
		return nil, ErrIdlNotConfigured
	}
	return current.methods.serviceNames(), nil
}

func (s *SailsCalls) Functions(service string) ([]string, error) {
	current := s.snapshot()
	if current.methods == nil {
		return nil, ErrIdlNotConfigured
	}
	return current.methods.names(service, FUNCTION)
}

func (s *SailsCalls) Queries(service string) ([]string, error) {
	current := s.snapshot()
	if current.methods == nil {
		return nil, ErrIdlNotConfigured
	}
	return current.methods.names(service, QUERY)
}

// resolve runs the local checks every call starts with; nothing here touches the network
func (current *session) resolve(url string, kind MethodKind, args []interface{}) (*Coordinate, *method, []byte, error) {
	if current.methods == nil {
		return nil, nil, nil, ErrIdlNotConfigured
	}

	coordinate, err := Resolve(url, current.contractId)
	if err != nil {
		return nil, nil, nil, err
	}

	m, err := current.methods.lookup(coordinate.Service, coordinate.Method, kind)
	if err != nil {
		return nil, nil, nil, err
	}

	payload, err := m.encode(args)
	if err != nil {
		return nil, nil, nil, err
	}

	if current.network == nil {
		return nil, nil, nil, ErrNetworkNotConfigured
	}

	return coordinate, m, payload, nil
}
