// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package trafficlight

import (
	"context"
	"github.com/vara-dapps/sailscalls-go/crypto/kms"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls"
)

// Client calls the traffic light through a SailsCalls session that has its IDL loaded
type Client struct {
	calls *sailscalls.SailsCalls
}

func NewClient(calls *sailscalls.SailsCalls) *Client {
	return &Client{calls: calls}
}

func (c *Client) Green(ctx context.Context, signer kms.Signer, options *sailscalls.CommandOptions) (Light, error) {
	return c.Switch(ctx, GREEN, signer, options)
}

func (c *Client) Yellow(ctx context.Context, signer kms.Signer, options *sailscalls.CommandOptions) (Light, error) {
	return c.Switch(ctx, YELLOW, signer, options)
}

func (c *Client) Red(ctx context.Context, signer kms.Signer, options *sailscalls.CommandOptions) (Light, error) {
	return c.Switch(ctx, RED, signer, options)
}

// Switch sends the command for light and returns the event the program answered with
func (c *Client) Switch(ctx context.Context, light Light, signer kms.Signer, options *sailscalls.CommandOptions) (Light, error) {
	response, err := c.calls.Command(ctx, SERVICE_TRAFFIC_LIGHT+"/"+string(light), signer, options)
	if err != nil {
		return "", err
	}
	var event Light
	if err := response.DecodeInto(&event); err != nil {
		return "", err
	}
	return event, nil
}

func (c *Client) State(ctx context.Context, options *sailscalls.QueryOptions) (*State, error) {
	response, err := c.calls.Query(ctx, SERVICE_QUERY+"/"+QUERY_STATE, options)
	if err != nil {
		return nil, err
	}
	state := &State{}
	if err := response.DecodeInto(state); err != nil {
		return nil, err
	}
	return state, nil
}
