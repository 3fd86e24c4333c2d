// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package adapter

import (
	"context"
	"encoding/json"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/crypto/address"
	"github.com/vara-dapps/sailscalls-go/crypto/hash"
	"github.com/vara-dapps/sailscalls-go/crypto/keys"
	"math/big"
)

// ZERO_ADDRESS is the origin of queries sent without an account
const ZERO_ADDRESS = "0x0000000000000000000000000000000000000000000000000000000000000000"

// 1 token = 10^12 base units
const TOKEN_DECIMALS = 12

type TransactionKind string

const (
	CONTRACT_CALL  TransactionKind = "contract-call"
	VOUCHER_ISSUE  TransactionKind = "voucher-issue"
	VOUCHER_UPDATE TransactionKind = "voucher-update"
)

// Transaction is the unsigned body of an extrinsic. Field order is fixed, which makes its json encoding the signing payload.
type Transaction struct {
	Kind   TransactionKind `json:"kind"`
	Id     string          `json:"id"`
	Origin string          `json:"origin"`

	ContractId string          `json:"contractId,omitempty"`
	Service    string          `json:"service,omitempty"`
	Method     string          `json:"method,omitempty"`
	Args       json.RawMessage `json:"args,omitempty"`
	Value      *hexutil.Big    `json:"value,omitempty"`
	VoucherId  string          `json:"voucherId,omitempty"`
	GasLimit   hexutil.Uint64  `json:"gasLimit,omitempty"`

	// issue: spender, initial balance, duration and programs; update: balance to add and blocks to prolong by
	Spender  string       `json:"spender,omitempty"`
	Balance  *hexutil.Big `json:"balance,omitempty"`
	Duration uint32       `json:"duration,omitempty"`
	Programs []string     `json:"programs,omitempty"`
}

func newTransaction(kind TransactionKind, origin string) (*Transaction, error) {
	accountId, err := address.ToAccountIdHex(origin)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid transaction origin")
	}
	return &Transaction{
		Kind:   kind,
		Id:     uuid.New().String(),
		Origin: accountId,
	}, nil
}

func NewContractCall(origin string, contractId string, service string, method string, args json.RawMessage) (*Transaction, error) {
	tx, err := newTransaction(CONTRACT_CALL, origin)
	if err != nil {
		return nil, err
	}
	tx.ContractId = contractId
	tx.Service = service
	tx.Method = method
	tx.Args = args
	return tx, nil
}

func NewVoucherIssue(sponsor string, spender string, balance *big.Int, durationBlocks uint32, programs []string) (*Transaction, error) {
	tx, err := newTransaction(VOUCHER_ISSUE, sponsor)
	if err != nil {
		return nil, err
	}
	if tx.Spender, err = address.ToAccountIdHex(spender); err != nil {
		return nil, errors.Wrapf(err, "invalid voucher spender")
	}
	tx.Balance = (*hexutil.Big)(balance)
	tx.Duration = durationBlocks
	tx.Programs = programs
	return tx, nil
}

func NewVoucherUpdate(sponsor string, spender string, voucherId string, topUp *big.Int, prolongBlocks uint32) (*Transaction, error) {
	tx, err := newTransaction(VOUCHER_UPDATE, sponsor)
	if err != nil {
		return nil, err
	}
	if tx.Spender, err = address.ToAccountIdHex(spender); err != nil {
		return nil, errors.Wrapf(err, "invalid voucher spender")
	}
	tx.VoucherId = voucherId
	if topUp != nil && topUp.Sign() > 0 {
		tx.Balance = (*hexutil.Big)(topUp)
	}
	tx.Duration = prolongBlocks
	return tx, nil
}

func (t *Transaction) SigningPayload() ([]byte, error) {
	return json.Marshal(t)
}

func (t *Transaction) Hash() (string, error) {
	payload, err := t.SigningPayload()
	if err != nil {
		return "", err
	}
	return hexutil.Encode(hash.CalcBlake2b256(payload)), nil
}

// VoucherIdFor derives the id a voucher issue transaction creates
func VoucherIdFor(issue *Transaction) (string, error) {
	payload, err := issue.SigningPayload()
	if err != nil {
		return "", err
	}
	return hexutil.Encode(hash.CalcBlake2b256([]byte("voucher"), payload)), nil
}

type SignedTransaction struct {
	Transaction *Transaction  `json:"transaction"`
	Signature   hexutil.Bytes `json:"signature"`
}

type PayloadSigner interface {
	Address() string
	Sign(ctx context.Context, payload []byte) ([]byte, error)
}

func Sign(ctx context.Context, tx *Transaction, signer PayloadSigner) (*SignedTransaction, error) {
	signerAccount, err := address.ToAccountIdHex(signer.Address())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid signer address")
	}
	if signerAccount != tx.Origin {
		return nil, errors.Errorf("signer %s cannot sign for origin %s", signerAccount, tx.Origin)
	}

	payload, err := tx.SigningPayload()
	if err != nil {
		return nil, err
	}

	signature, err := signer.Sign(ctx, payload)
	if err != nil {
		return nil, errors.Wrapf(err, "signer failed")
	}

	return &SignedTransaction{Transaction: tx, Signature: signature}, nil
}

func (s *SignedTransaction) Verify() error {
	if s.Transaction == nil {
		return errors.New("signed transaction has no body")
	}
	publicKey, err := hexutil.Decode(s.Transaction.Origin)
	if err != nil {
		return errors.Wrapf(err, "invalid origin")
	}
	payload, err := s.Transaction.SigningPayload()
	if err != nil {
		return err
	}
	if !keys.VerifySr25519(publicKey, payload, s.Signature) {
		return errors.Errorf("bad signature for origin %s", s.Transaction.Origin)
	}
	return nil
}

type QueryCall struct {
	ContractId string          `json:"contractId"`
	Service    string          `json:"service"`
	Method     string          `json:"method"`
	Args       json.RawMessage `json:"args,omitempty"`
	Origin     string          `json:"origin"`
}

type Stage string

const (
	READY     Stage = "ready"
	IN_BLOCK  Stage = "in-block"
	FINALIZED Stage = "finalized"
	FAILED    Stage = "failed"
)

type TransactionStatus struct {
	TransactionId string          `json:"transactionId"`
	Stage         Stage           `json:"stage"`
	BlockHash     string          `json:"blockHash,omitempty"`
	BlockHeight   uint64          `json:"blockHeight,omitempty"`
	Response      json.RawMessage `json:"response,omitempty"`
	VoucherId     string          `json:"voucherId,omitempty"`
	Reason        string          `json:"reason,omitempty"`
}

type VoucherDetails struct {
	Id       string       `json:"id"`
	Owner    string       `json:"owner"`
	Spender  string       `json:"spender"`
	Programs []string     `json:"programs"`
	Balance  *hexutil.Big `json:"balance"`
	Expiry   uint64       `json:"expiry"`
}
