// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package trafficlight

import (
	"encoding/json"
	"github.com/pkg/errors"
)

// State mirrors IoTrafficLightState
type State struct {
	CurrentLight Light       `json:"current_light"`
	AllUsers     []UserLight `json:"all_users"`
}

// UserLight is the last light an account switched to; on the wire it is an (actor_id, str) pair
type UserLight struct {
	Account string
	Light   Light
}

func (u UserLight) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{u.Account, u.Light})
}

func (u *UserLight) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return errors.Errorf("expected (actor_id, str), got %d elements", len(pair))
	}
	u.Account = pair[0]
	u.Light = Light(pair[1])
	return nil
}

func (s *State) LightOf(account string) (Light, bool) {
	for _, u := range s.AllUsers {
		if u.Account == account {
			return u.Light, true
		}
	}
	return "", false
}
