// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package cli

import (
	"context"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/vara-dapps/sailscalls-go/bootstrap"
	"github.com/vara-dapps/sailscalls-go/config"
	"github.com/vara-dapps/sailscalls-go/services/voucher"
)

func newVoucherCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voucher",
		Short: "Issue and maintain vouchers paid by the configured sponsor",
	}
	cmd.AddCommand(
		newVoucherIssueCmd(opts),
		newVoucherRenewCmd(opts),
		newVoucherTopUpCmd(opts),
		newVoucherListCmd(opts),
		newVoucherExpiredCmd(opts),
		newVoucherBalanceCmd(opts),
		newVoucherCheckCmd(opts),
	)
	return cmd
}

func parseTokens(value string) (decimal.Decimal, error) {
	tokens, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "invalid token amount %q", value)
	}
	return tokens, nil
}

func newVoucherIssueCmd(opts *options) *cobra.Command {
	var account, tokens string
	var blocks uint32
	var contractIds []string

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a voucher for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseTokens(tokens)
			if err != nil {
				return err
			}
			return opts.withClient(cmd, func(ctx context.Context, cfg config.NodeConfig, client *bootstrap.Client) error {
				voucherId, err := client.Vouchers.Issue(ctx, account, contractIds, amount, blocks, progressHooks(cmd.ErrOrStderr()))
				if err != nil {
					return err
				}
				return printJson(cmd.OutOrStdout(), map[string]string{"voucherId": voucherId})
			})
		},
	}
	cmd.Flags().StringVar(&account, "address", "", "spender of the voucher")
	cmd.Flags().StringVar(&tokens, "tokens", "2", "initial balance in tokens")
	cmd.Flags().Uint32Var(&blocks, "blocks", voucher.MIN_BLOCKS, "validity in blocks")
	cmd.Flags().StringSliceVar(&contractIds, "program", nil, "programs the voucher pays for, the default contract when empty")
	cmd.MarkFlagRequired("address")
	return cmd
}

func newVoucherRenewCmd(opts *options) *cobra.Command {
	var account string
	var blocks uint32

	cmd := &cobra.Command{
		Use:   "renew <voucher-id>",
		Short: "Extend the validity of a voucher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, cfg config.NodeConfig, client *bootstrap.Client) error {
				return client.Vouchers.Renew(ctx, args[0], account, blocks, progressHooks(cmd.ErrOrStderr()))
			})
		},
	}
	cmd.Flags().StringVar(&account, "address", "", "spender of the voucher")
	cmd.Flags().Uint32Var(&blocks, "blocks", voucher.MIN_BLOCKS, "blocks to add")
	cmd.MarkFlagRequired("address")
	return cmd
}

func newVoucherTopUpCmd(opts *options) *cobra.Command {
	var account, tokens string

	cmd := &cobra.Command{
		Use:   "top-up <voucher-id>",
		Short: "Add tokens to a voucher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseTokens(tokens)
			if err != nil {
				return err
			}
			return opts.withClient(cmd, func(ctx context.Context, cfg config.NodeConfig, client *bootstrap.Client) error {
				return client.Vouchers.TopUp(ctx, args[0], account, amount, progressHooks(cmd.ErrOrStderr()))
			})
		},
	}
	cmd.Flags().StringVar(&account, "address", "", "spender of the voucher")
	cmd.Flags().StringVar(&tokens, "tokens", "", "tokens to add")
	cmd.MarkFlagRequired("address")
	cmd.MarkFlagRequired("tokens")
	return cmd
}

func newVoucherListCmd(opts *options) *cobra.Command {
	var account, contractId string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the vouchers of an account for a program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, cfg config.NodeConfig, client *bootstrap.Client) error {
				ids, err := client.Vouchers.ListForAccount(ctx, account, contractId)
				if err != nil {
					return err
				}
				return printJson(cmd.OutOrStdout(), ids)
			})
		},
	}
	cmd.Flags().StringVar(&account, "address", "", "spender of the vouchers")
	cmd.Flags().StringVar(&contractId, "program", "", "program the vouchers pay for, the default contract when empty")
	cmd.MarkFlagRequired("address")
	return cmd
}

func newVoucherExpiredCmd(opts *options) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "expired <voucher-id>",
		Short: "Tell whether a voucher has expired",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, cfg config.NodeConfig, client *bootstrap.Client) error {
				expired, err := client.Vouchers.IsExpired(ctx, account, args[0])
				if err != nil {
					return err
				}
				return printJson(cmd.OutOrStdout(), expired)
			})
		},
	}
	cmd.Flags().StringVar(&account, "address", "", "spender of the voucher")
	cmd.MarkFlagRequired("address")
	return cmd
}

func newVoucherBalanceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <voucher-id>",
		Short: "Print the balance of a voucher in tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, cfg config.NodeConfig, client *bootstrap.Client) error {
				balance, err := client.Vouchers.Balance(ctx, args[0])
				if err != nil {
					return err
				}
				return printJson(cmd.OutOrStdout(), balance.String())
			})
		},
	}
}

func newVoucherCheckCmd(opts *options) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "check <voucher-id>",
		Short: "Renew an expired voucher and top up a low one, using the keeper policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withClient(cmd, func(ctx context.Context, cfg config.NodeConfig, client *bootstrap.Client) error {
				policy := &voucher.UpdatePolicy{
					MinBalanceTokens: cfg.VoucherKeeperMinBalanceTokens(),
					TopUpTokens:      cfg.VoucherKeeperTopUpTokens(),
					RenewBlocks:      cfg.VoucherKeeperRenewBlocks(),
				}
				result, err := client.Vouchers.CheckForUpdates(ctx, account, args[0], policy, progressHooks(cmd.ErrOrStderr()))
				if err != nil {
					return err
				}
				return printJson(cmd.OutOrStdout(), map[string]bool{"renewed": result.Renewed, "toppedUp": result.ToppedUp})
			})
		},
	}
	cmd.Flags().StringVar(&account, "address", "", "spender of the voucher")
	cmd.MarkFlagRequired("address")
	return cmd
}
