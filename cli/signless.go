// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package cli

import (
	"encoding/json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vara-dapps/sailscalls-go/crypto/keystore"
	"github.com/vara-dapps/sailscalls-go/services/signless"
	"io"
	"io/ioutil"
	"os"
)

type signlessAccount struct {
	Label     string `json:"label"`
	AccountId string `json:"accountId"`
	Address   string `json:"address"`
	Mnemonic  string `json:"mnemonic,omitempty"`
}

type createdPair struct {
	signlessAccount
	Locked   *keystore.LockedPair         `json:"locked"`
	Contract *signless.ContractLockedPair `json:"contractShape"`
}

func accountOf(pair *signless.Pair) signlessAccount {
	return signlessAccount{
		Label:     pair.Label,
		AccountId: pair.AccountId(),
		Address:   pair.Address(),
		Mnemonic:  pair.Mnemonic,
	}
}

func newSignlessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signless",
		Short: "Create and unlock signless session keys",
	}
	cmd.AddCommand(
		newSignlessCreateCmd(),
		newSignlessUnlockCmd(),
		newSignlessContractShapeCmd(),
	)
	return cmd
}

func newSignlessCreateCmd() *cobra.Command {
	var label, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a keypair and lock it with a password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := signless.Create(label)
			if err != nil {
				return err
			}
			locked, err := signless.Lock(pair, password)
			if err != nil {
				return err
			}
			return printJson(cmd.OutOrStdout(), &createdPair{
				signlessAccount: accountOf(pair),
				Locked:          locked,
				Contract:        signless.ToContractShape(locked),
			})
		},
	}
	cmd.Flags().StringVar(&label, "label", signless.DEFAULT_LABEL, "name stored with the locked pair")
	cmd.Flags().StringVar(&password, "password", "", "password locking the pair")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newSignlessUnlockCmd() *cobra.Command {
	var password string
	var fromContract bool

	cmd := &cobra.Command{
		Use:   "unlock <file|->",
		Short: "Unlock a locked pair and print its account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			locked, err := decodeLocked(raw, fromContract)
			if err != nil {
				return err
			}
			pair, err := signless.Unlock(locked, password)
			if err != nil {
				return err
			}
			return printJson(cmd.OutOrStdout(), accountOf(pair))
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password the pair was locked with")
	cmd.Flags().BoolVar(&fromContract, "contract-shape", false, "input is in the shape the contract stores")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newSignlessContractShapeCmd() *cobra.Command {
	var reverse bool

	cmd := &cobra.Command{
		Use:   "contract-shape <file|->",
		Short: "Convert a locked pair to the shape the contract stores, or back with --reverse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			locked, err := decodeLocked(raw, reverse)
			if err != nil {
				return err
			}
			if reverse {
				return printJson(cmd.OutOrStdout(), locked)
			}
			return printJson(cmd.OutOrStdout(), signless.ToContractShape(locked))
		},
	}
	cmd.Flags().BoolVar(&reverse, "reverse", false, "input is in the contract shape, print the keystore shape")
	return cmd
}

func decodeLocked(raw []byte, fromContract bool) (*keystore.LockedPair, error) {
	if fromContract {
		contract := &signless.ContractLockedPair{}
		if err := json.Unmarshal(raw, contract); err != nil {
			return nil, errors.Wrap(err, "malformed locked pair")
		}
		return signless.FromContractShape(contract), nil
	}

	locked := &keystore.LockedPair{}
	if err := json.Unmarshal(raw, locked); err != nil {
		return nil, errors.Wrap(err, "malformed locked pair")
	}
	return locked, nil
}

// readInput reads a file, or stdin for "-"
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return ioutil.ReadAll(stdin)
	}
	raw, err := ioutil.ReadFile(path)
	if err != nil && os.IsNotExist(err) {
		return nil, errors.Errorf("no such file %s", path)
	}
	return raw, err
}
