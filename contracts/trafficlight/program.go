// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package trafficlight

import (
	"encoding/json"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter/memory"
	"sort"
)

const LIGHT_CHANGE_GAS = 1000000000

// Program is the traffic light as the simulator runs it: the last light switched to and who switched what.
// The simulator serializes calls, so Program keeps no lock of its own.
type Program struct {
	currentLight Light
	users        map[string]Light
}

func NewProgram() *Program {
	return &Program{users: make(map[string]Light)}
}

func lightFor(service string, method string) (Light, error) {
	if service != SERVICE_TRAFFIC_LIGHT {
		return "", errors.Errorf("unknown service %s", service)
	}
	switch Light(method) {
	case GREEN, YELLOW, RED:
		return Light(method), nil
	}
	return "", errors.Errorf("unknown method %s/%s", service, method)
}

func (p *Program) Handle(call *memory.Call) (json.RawMessage, error) {
	light, err := lightFor(call.Service, call.Method)
	if err != nil {
		return nil, err
	}
	p.currentLight = light
	p.users[call.Caller] = light
	return json.Marshal(light)
}

func (p *Program) Query(call *memory.Call) (json.RawMessage, error) {
	if call.Service != SERVICE_QUERY || call.Method != QUERY_STATE {
		return nil, errors.Errorf("unknown query %s/%s", call.Service, call.Method)
	}
	return json.Marshal(p.state())
}

func (p *Program) EstimateGas(call *memory.Call) (uint64, error) {
	if _, err := lightFor(call.Service, call.Method); err != nil {
		return 0, err
	}
	return LIGHT_CHANGE_GAS, nil
}

func (p *Program) state() *State {
	state := &State{CurrentLight: p.currentLight, AllUsers: make([]UserLight, 0, len(p.users))}
	for account, light := range p.users {
		state.AllUsers = append(state.AllUsers, UserLight{Account: account, Light: light})
	}
	sort.Slice(state.AllUsers, func(i, j int) bool {
		return state.AllUsers[i].Account < state.AllUsers[j].Account
	})
	return state
}
