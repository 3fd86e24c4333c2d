// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

// Package trafficlight holds the traffic light program: its interface, an in-memory implementation for the simulator, and a typed client
package trafficlight

const PROGRAM_ID = "0x40ee053ed5af803a3c68fa432e11a38c99422bbdec815bbf745d536077d7587a"

const (
	SERVICE_TRAFFIC_LIGHT = "TrafficLight"
	SERVICE_QUERY         = "Query"
	QUERY_STATE           = "TrafficLight"
)

type Light string

const (
	GREEN  Light = "Green"
	YELLOW Light = "Yellow"
	RED    Light = "Red"
)

const IDL = `
type IoTrafficLightState = struct {
  current_light: str,
  all_users: vec struct { actor_id, str },
};

type TrafficLightEvent = enum {
  Green,
  Yellow,
  Red,
};

constructor {
  New : ();
};

service Query {
  query TrafficLight : () -> IoTrafficLightState;
};

service TrafficLight {
  Green : () -> TrafficLightEvent;
  Red : () -> TrafficLightEvent;
  Yellow : () -> TrafficLightEvent;
};
`
