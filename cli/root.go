// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

// Package cli is the sailscalls command line: contract calls, vouchers and signless keys against a configured network
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/orbs-network/scribe/log"
	"github.com/spf13/cobra"
	"github.com/vara-dapps/sailscalls-go/bootstrap"
	"github.com/vara-dapps/sailscalls-go/config"
	"github.com/vara-dapps/sailscalls-go/instrumentation"
	"github.com/vara-dapps/sailscalls-go/services/lifecycle"
	"github.com/vara-dapps/sailscalls-go/synchronization"
	"io"
	"time"
)

const SHUTDOWN_TIMEOUT = 5 * time.Second

type options struct {
	configFiles config.FilesPaths
	endpoint    string
	contractId  string
	signer      string
	mnemonic    string
	logPath     string
	silent      bool
	verbose     bool

	// tests inject a logger that fails on errors
	logger log.Logger
}

// NewRootCommand builds the full command tree; every command writes its result to the command's output
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{})
}

func newRootCommand(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sailscalls",
		Short: "Call sails programs, sponsor vouchers and manage signless keys",
		Long: `sailscalls talks to a sails program through its IDL.

Commands and queries are addressed as "service/method" or "contractId/service/method".
The network is memory:// by default, an in-process chain with the traffic light
program deployed; point --endpoint at a gateway to use a shared one.`,
		Version:       config.GetVersion().Semantic,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.Var(&opts.configFiles, "config", "path/to/config.json, may repeat; later files win")
	flags.StringVarP(&opts.endpoint, "endpoint", "e", "", "network endpoint (memory://, ws://host:port)")
	flags.StringVar(&opts.contractId, "contract-id", "", "default contract id")
	flags.StringVar(&opts.signer, "signer", "", "remote signer endpoint")
	flags.StringVar(&opts.mnemonic, "mnemonic", "", "mnemonic of the signing account")
	flags.StringVar(&opts.logPath, "log", "", "path/to/node.log, for the long running commands")
	flags.BoolVar(&opts.silent, "silent", false, "disable log output to stdout, for the long running commands")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log everything to stderr")

	rootCmd.AddCommand(
		newLightCmd(opts),
		newStateCmd(opts),
		newCallCmd(opts),
		newQueryCmd(opts),
		newVoucherCmd(opts),
		newSignlessCmd(),
		newGatewayCmd(opts),
		newSignerCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}

// nodeConfig is the development preset, then config files, then flags, then command specific overrides
func (o *options) nodeConfig(overrides ...config.NodeConfigKeyValue) (config.NodeConfig, error) {
	cfg, err := config.GetConfigFromFiles(config.ForDevelopment(), o.configFiles)
	if err != nil {
		return nil, err
	}

	if o.endpoint != "" {
		cfg.SetString(config.NETWORK_ENDPOINT, o.endpoint)
	}
	if o.contractId != "" {
		cfg.SetString(config.DEFAULT_CONTRACT_ID, o.contractId)
	}
	if o.signer != "" {
		cfg.SetString(config.SIGNER_ENDPOINT, o.signer)
	}
	if o.mnemonic != "" {
		cfg.SetString(config.SIGNER_MNEMONIC, o.mnemonic)
	}
	return cfg.Modify(overrides...), nil
}

func (o *options) cliLogger() log.Logger {
	if o.logger != nil {
		return o.logger
	}
	return instrumentation.GetCliLogger(o.verbose)
}

func (o *options) nodeLogger(cfg config.NodeConfig) log.Logger {
	if o.logger != nil {
		return o.logger
	}
	return instrumentation.GetLogger(o.logPath, o.silent, cfg)
}

// withClient runs f against a freshly started client and shuts it down afterwards
func (o *options) withClient(cmd *cobra.Command, f func(ctx context.Context, cfg config.NodeConfig, client *bootstrap.Client) error) error {
	cfg, err := o.nodeConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := bootstrap.NewClient(ctx, cfg, o.cliLogger())
	if err != nil {
		return err
	}
	defer synchronization.ShutdownGracefully(client, SHUTDOWN_TIMEOUT)

	return f(ctx, cfg, client)
}

// progressHooks reports submission phases on w, keeping stdout for the result
func progressHooks(w io.Writer) *lifecycle.Hooks {
	return lifecycle.NewHooks().
		OnLoad(func(ctx context.Context, event *lifecycle.Event) {
			fmt.Fprintf(w, "submitting %s\n", event.Url)
		}).
		OnBlock(func(ctx context.Context, event *lifecycle.Event) {
			fmt.Fprintf(w, "in block %s\n", event.BlockHash)
		}).
		OnError(func(ctx context.Context, event *lifecycle.Event) {
			fmt.Fprintf(w, "failed: %s\n", event.Err)
		})
}

func printJson(out io.Writer, value interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
