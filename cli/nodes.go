// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package cli

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/vara-dapps/sailscalls-go/bootstrap"
	"github.com/vara-dapps/sailscalls-go/config"
	"github.com/vara-dapps/sailscalls-go/synchronization"
)

func newGatewayCmd(opts *options) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Run a simulated chain and serve it over json-rpc until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.nodeConfig(listenOverride(config.GATEWAY_LISTEN_ADDRESS, listen)...)
			if err != nil {
				return err
			}
			logger := opts.nodeLogger(cfg)

			node, err := bootstrap.NewGatewayNode(cfg, logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), node.Endpoint())

			synchronization.NewShutdownListener(logger, node, SHUTDOWN_TIMEOUT).ListenToOSShutdownSignal()
			node.WaitUntilShutdown(context.Background())
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "ip address and port to serve on")
	return cmd
}

func newSignerCmd(opts *options) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "signer",
		Short: "Serve the --mnemonic account as a remote signer until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.nodeConfig(listenOverride(config.SIGNER_LISTEN_ADDRESS, listen)...)
			if err != nil {
				return err
			}
			logger := opts.nodeLogger(cfg)

			node, err := bootstrap.NewSignerNode(cfg, logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), node.Endpoint())

			synchronization.NewShutdownListener(logger, node, SHUTDOWN_TIMEOUT).ListenToOSShutdownSignal()
			node.WaitUntilShutdown(context.Background())
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "ip address and port to serve on")
	return cmd
}

func listenOverride(key string, listen string) []config.NodeConfigKeyValue {
	if listen == "" {
		return nil
	}
	return []config.NodeConfigKeyValue{{Key: key, Value: config.NodeConfigValue{StringValue: listen}}}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.GetVersion())
		},
	}
}
