// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package cli

import (
	"context"
	"encoding/json"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/vara-dapps/sailscalls-go/bootstrap"
	"github.com/vara-dapps/sailscalls-go/config"
	"github.com/vara-dapps/sailscalls-go/contracts/trafficlight"
	"github.com/vara-dapps/sailscalls-go/crypto/kms"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls"
	"github.com/vara-dapps/sailscalls-go/services/voucher"
	"strings"
)

type callResult struct {
	Url           string          `json:"url"`
	TransactionId string          `json:"transactionId,omitempty"`
	BlockHash     string          `json:"blockHash,omitempty"`
	BlockHeight   uint64          `json:"blockHeight,omitempty"`
	Response      json.RawMessage `json:"response"`
}

func resultOf(response *sailscalls.Response) *callResult {
	return &callResult{
		Url:           response.Url,
		TransactionId: response.TransactionId,
		BlockHash:     response.BlockHash,
		BlockHeight:   response.BlockHeight,
		Response:      response.Payload,
	}
}

var lightsByArg = map[string]trafficlight.Light{
	"green":  trafficlight.GREEN,
	"yellow": trafficlight.YELLOW,
	"red":    trafficlight.RED,
}

func newLightCmd(opts *options) *cobra.Command {
	var voucherId string

	cmd := &cobra.Command{
		Use:       "light green|yellow|red",
		Short:     "Switch the traffic light",
		ValidArgs: []string{"green", "yellow", "red"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			light := lightsByArg[args[0]]
			return opts.withClient(cmd, func(ctx context.Context, cfg config.NodeConfig, client *bootstrap.Client) error {
				signer, err := kms.GetSigner(ctx, cfg)
				if err != nil {
					return err
				}
				event, err := client.TrafficLight.Switch(ctx, light, signer, &sailscalls.CommandOptions{VoucherId: voucherId, Hooks: progressHooks(cmd.ErrOrStderr())})
				if err != nil {
					return err
				}
				return printJson(cmd.OutOrStdout(), event)
			})
		},
	}
	cmd.Flags().StringVar(&voucherId, "voucher", "", "voucher paying the fee")
	return cmd
}

func newStateCmd(opts *options) *cobra.Command {
	var origin string

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Read the traffic light state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, cfg config.NodeConfig, client *bootstrap.Client) error {
				state, err := client.TrafficLight.State(ctx, &sailscalls.QueryOptions{Address: origin})
				if err != nil {
					return err
				}
				return printJson(cmd.OutOrStdout(), state)
			})
		},
	}
	cmd.Flags().StringVar(&origin, "address", "", "origin of the read, zero address when empty")
	return cmd
}

func newCallCmd(opts *options) *cobra.Command {
	var voucherId, value string

	cmd := &cobra.Command{
		Use:   "call <url> [json-args]",
		Short: "Send a command to a program",
		Example: `  sailscalls call TrafficLight/Green
  sailscalls call 0x40ee...587a/Counter/Add '[5]' --voucher 0x1f...`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs, err := parseArgs(args[1:])
			if err != nil {
				return err
			}
			callOptions := &sailscalls.CommandOptions{Args: callArgs, VoucherId: voucherId, Hooks: progressHooks(cmd.ErrOrStderr())}
			if value != "" {
				tokens, err := decimal.NewFromString(value)
				if err != nil {
					return errors.Wrapf(err, "invalid value %q", value)
				}
				callOptions.Value = voucher.ToBaseUnits(tokens)
			}

			return opts.withClient(cmd, func(ctx context.Context, cfg config.NodeConfig, client *bootstrap.Client) error {
				signer, err := kms.GetSigner(ctx, cfg)
				if err != nil {
					return err
				}
				response, err := client.Calls.Command(ctx, args[0], signer, callOptions)
				if err != nil {
					return err
				}
				return printJson(cmd.OutOrStdout(), resultOf(response))
			})
		},
	}
	cmd.Flags().StringVar(&voucherId, "voucher", "", "voucher paying the fee")
	cmd.Flags().StringVar(&value, "value", "", "tokens sent along with the message")
	return cmd
}

func newQueryCmd(opts *options) *cobra.Command {
	var origin string

	cmd := &cobra.Command{
		Use:   "query <url> [json-args]",
		Short: "Read program state through a query method",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			queryArgs, err := parseArgs(args[1:])
			if err != nil {
				return err
			}

			return opts.withClient(cmd, func(ctx context.Context, cfg config.NodeConfig, client *bootstrap.Client) error {
				response, err := client.Calls.Query(ctx, args[0], &sailscalls.QueryOptions{Address: origin, Args: queryArgs})
				if err != nil {
					return err
				}
				return printJson(cmd.OutOrStdout(), resultOf(response))
			})
		},
	}
	cmd.Flags().StringVar(&origin, "address", "", "origin of the read, zero address when empty")
	return cmd
}

// parseArgs reads an optional json array; numbers stay exact so u128 arguments survive
func parseArgs(raw []string) ([]interface{}, error) {
	if len(raw) == 0 || strings.TrimSpace(raw[0]) == "" {
		return nil, nil
	}

	decoder := json.NewDecoder(strings.NewReader(raw[0]))
	decoder.UseNumber()

	var args []interface{}
	if err := decoder.Decode(&args); err != nil {
		return nil, errors.Wrapf(sailscalls.ErrInvalidArguments, "arguments must be a json array: %s", err)
	}
	return args, nil
}
