// Copyright 2019 the sailscalls-go authors
// This file is part of the sailscalls-go library.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

// Package memory is an in-process chain: it hosts programs, keeps balances and vouchers, and produces
// one block per transaction plus optional empty blocks.
package memory

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/vara-dapps/sailscalls-go/crypto/address"
	"github.com/vara-dapps/sailscalls-go/crypto/hash"
	"github.com/vara-dapps/sailscalls-go/instrumentation/logfields"
	"github.com/vara-dapps/sailscalls-go/services/sailscalls/adapter"
	"github.com/vara-dapps/sailscalls-go/synchronization"
	"math/big"
	"strings"
	"sync"
	"time"
)

const ENDPOINT = "memory://"

// base units charged per unit of gas
const GAS_PRICE = 1

var ErrUnknownProgram = errors.New("program not found")
var ErrUnknownVoucher = errors.New("voucher not found")

type voucher struct {
	id       string
	owner    string
	spender  string
	programs []string
	balance  *big.Int
	expiry   uint64
}

type Network struct {
	govnr.TreeSupervisor
	logger         log.Logger
	initialBalance *big.Int

	mu struct {
		sync.RWMutex
		programs  map[string]Program
		balances  map[string]*big.Int
		vouchers  map[string]*voucher
		seen      map[string]bool
		height    uint64
		blockHash []byte
	}

	blocks *synchronization.PeriodicalTrigger
}

// NewNetwork starts a simulated chain. A positive blockInterval also produces empty blocks so block heights advance without traffic.
func NewNetwork(ctx context.Context, blockInterval time.Duration, initialBalance *big.Int, logger log.Logger) *Network {
	n := &Network{
		logger:         logger.WithTags(log.Service("chain-simulator")),
		initialBalance: new(big.Int).Set(initialBalance),
	}
	n.mu.programs = make(map[string]Program)
	n.mu.balances = make(map[string]*big.Int)
	n.mu.vouchers = make(map[string]*voucher)
	n.mu.seen = make(map[string]bool)
	n.mu.blockHash = make([]byte, hash.BLAKE2B_256_HASH_SIZE_BYTES)

	if blockInterval > 0 {
		n.blocks = synchronization.NewPeriodicalTrigger(ctx, "empty-block-producer", blockInterval, n.logger, n.produceEmptyBlock, nil)
		n.Supervise(n.blocks)
	}

	return n
}

func (n *Network) Endpoint() string {
	return ENDPOINT
}

func normalize(id string) string {
	return strings.ToLower(id)
}

func (n *Network) Deploy(programId string, program Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mu.programs[normalize(programId)] = program
	n.logger.Info("program deployed", logfields.ContractId(programId))
}

// Endow credits an account, creating it when missing
func (n *Network) Endow(account string, amount *big.Int) error {
	accountId, err := address.ToAccountIdHex(account)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.balanceOf(accountId).Add(n.balanceOf(accountId), amount)
	return nil
}

// must be called under lock; accounts are created on first touch with the initial balance
func (n *Network) balanceOf(accountId string) *big.Int {
	balance, exists := n.mu.balances[accountId]
	if !exists {
		balance = new(big.Int).Set(n.initialBalance)
		n.mu.balances[accountId] = balance
	}
	return balance
}

func (n *Network) produceEmptyBlock() {
	n.AdvanceBlocks(1)
}

// AdvanceBlocks appends count empty blocks
func (n *Network) AdvanceBlocks(count int) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := 0; i < count; i++ {
		n.nextBlock(nil)
	}
	return n.mu.height
}

// must be called under lock
func (n *Network) nextBlock(txHash []byte) (uint64, string) {
	n.mu.height++
	height := make([]byte, 8)
	binary.BigEndian.PutUint64(height, n.mu.height)
	n.mu.blockHash = hash.CalcBlake2b256(n.mu.blockHash, height, txHash)
	return n.mu.height, hexutil.Encode(n.mu.blockHash)
}

func (n *Network) programFor(contractId string) (Program, error) {
	program, exists := n.mu.programs[normalize(contractId)]
	if !exists {
		return nil, errors.Wrapf(ErrUnknownProgram, "no program %s", contractId)
	}
	return program, nil
}

func (n *Network) CalculateGas(ctx context.Context, tx *adapter.Transaction) (uint64, error) {
	if tx.Kind != adapter.CONTRACT_CALL {
		return 0, nil
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	program, err := n.programFor(tx.ContractId)
	if err != nil {
		return 0, err
	}

	return program.EstimateGas(n.callFor(tx))
}

// must be called under lock
func (n *Network) callFor(tx *adapter.Transaction) *Call {
	return &Call{
		Caller:      tx.Origin,
		Service:     tx.Service,
		Method:      tx.Method,
		Args:        tx.Args,
		Value:       tx.Value.ToInt(),
		BlockHeight: n.mu.height + 1,
	}
}

func (n *Network) SubmitAndWatch(ctx context.Context, signed *adapter.SignedTransaction) (<-chan *adapter.TransactionStatus, error) {
	if err := signed.Verify(); err != nil {
		return nil, err
	}

	tx := signed.Transaction
	n.mu.Lock()
	if n.mu.seen[tx.Id] {
		n.mu.Unlock()
		return nil, errors.Errorf("transaction %s was already submitted", tx.Id)
	}
	n.mu.seen[tx.Id] = true
	n.mu.Unlock()

	statuses := make(chan *adapter.TransactionStatus, 3)
	govnr.Once(logfields.GovnrErrorer(n.logger), func() {
		defer close(statuses)
		send := func(status *adapter.TransactionStatus) bool {
			status.TransactionId = tx.Id
			select {
			case statuses <- status:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send(&adapter.TransactionStatus{Stage: adapter.READY}) {
			return
		}

		included, final := n.execute(tx)
		if included != nil && !send(included) {
			return
		}
		send(final)
	})

	return statuses, nil
}

// execute applies tx in a new block. Rejected transactions are not included and only return a FAILED status.
func (n *Network) execute(tx *adapter.Transaction) (included *adapter.TransactionStatus, final *adapter.TransactionStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var response json.RawMessage
	var voucherId string
	var err error

	switch tx.Kind {
	case adapter.CONTRACT_CALL:
		response, err = n.applyContractCall(tx)
	case adapter.VOUCHER_ISSUE:
		voucherId, err = n.applyVoucherIssue(tx)
	case adapter.VOUCHER_UPDATE:
		voucherId, err = n.applyVoucherUpdate(tx)
	default:
		err = errors.Errorf("unknown transaction kind %s", tx.Kind)
	}

	if err != nil {
		n.logger.Info("transaction rejected", logfields.TransactionId(tx.Id), log.Error(err))
		return nil, &adapter.TransactionStatus{Stage: adapter.FAILED, Reason: err.Error()}
	}

	txHash, _ := tx.Hash()
	height, blockHash := n.nextBlock([]byte(txHash))
	n.logger.Info("transaction included", logfields.TransactionId(tx.Id), logfields.BlockHash(blockHash), logfields.BlockHeight(height))

	included = &adapter.TransactionStatus{Stage: adapter.IN_BLOCK, BlockHash: blockHash, BlockHeight: height}
	final = &adapter.TransactionStatus{Stage: adapter.FINALIZED, BlockHash: blockHash, BlockHeight: height, Response: response, VoucherId: voucherId}
	return included, final
}

// must be called under lock; nothing is charged unless the program call succeeds
func (n *Network) applyContractCall(tx *adapter.Transaction) (json.RawMessage, error) {
	program, err := n.programFor(tx.ContractId)
	if err != nil {
		return nil, err
	}

	call := n.callFor(tx)
	gas, err := program.EstimateGas(call)
	if err != nil {
		return nil, err
	}
	if gas > uint64(tx.GasLimit) {
		return nil, errors.Errorf("gas limit %d is below the %d gas required", uint64(tx.GasLimit), gas)
	}
	fee := new(big.Int).Mul(new(big.Int).SetUint64(gas), big.NewInt(GAS_PRICE))

	value := tx.Value.ToInt()
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() < 0 {
		return nil, errors.New("negative value")
	}

	origin := n.balanceOf(tx.Origin)
	payer := origin
	if tx.VoucherId != "" {
		v, err := n.usableVoucher(tx)
		if err != nil {
			return nil, err
		}
		payer = v.balance
		if payer.Cmp(fee) < 0 {
			return nil, errors.Errorf("voucher %s balance %s cannot cover fee %s", tx.VoucherId, payer, fee)
		}
		if origin.Cmp(value) < 0 {
			return nil, errors.Errorf("insufficient balance to attach value %s", value)
		}
	} else if required := new(big.Int).Add(fee, value); origin.Cmp(required) < 0 {
		return nil, errors.Errorf("insufficient balance: %s required, %s available", required, origin)
	}

	response, err := program.Handle(call)
	if err != nil {
		return nil, errors.Wrapf(err, "program %s failed", tx.ContractId)
	}

	payer.Sub(payer, fee)
	origin.Sub(origin, value)
	programAccount := n.balanceOf(normalize(tx.ContractId))
	programAccount.Add(programAccount, value)

	return response, nil
}

// must be called under lock
func (n *Network) usableVoucher(tx *adapter.Transaction) (*voucher, error) {
	v, exists := n.mu.vouchers[normalize(tx.VoucherId)]
	if !exists {
		return nil, errors.Wrapf(ErrUnknownVoucher, "no voucher %s", tx.VoucherId)
	}
	if v.spender != tx.Origin {
		return nil, errors.Errorf("voucher %s does not belong to %s", tx.VoucherId, tx.Origin)
	}
	if v.expiry < n.mu.height+1 {
		return nil, errors.Errorf("voucher %s expired at block %d", tx.VoucherId, v.expiry)
	}
	if len(v.programs) > 0 && !contains(v.programs, normalize(tx.ContractId)) {
		return nil, errors.Errorf("voucher %s cannot be used with program %s", tx.VoucherId, tx.ContractId)
	}
	return v, nil
}

// must be called under lock
func (n *Network) applyVoucherIssue(tx *adapter.Transaction) (string, error) {
	amount := tx.Balance.ToInt()
	if amount == nil || amount.Sign() <= 0 {
		return "", errors.New("voucher balance must be positive")
	}
	if tx.Duration == 0 {
		return "", errors.New("voucher duration must be positive")
	}

	sponsor := n.balanceOf(tx.Origin)
	if sponsor.Cmp(amount) < 0 {
		return "", errors.Errorf("sponsor balance %s is below %s", sponsor, amount)
	}

	id, err := adapter.VoucherIdFor(tx)
	if err != nil {
		return "", err
	}

	programs := make([]string, 0, len(tx.Programs))
	for _, p := range tx.Programs {
		programs = append(programs, normalize(p))
	}

	sponsor.Sub(sponsor, amount)
	n.mu.vouchers[id] = &voucher{
		id:       id,
		owner:    tx.Origin,
		spender:  tx.Spender,
		programs: programs,
		balance:  new(big.Int).Set(amount),
		// the block holding the issue counts towards the duration
		expiry: n.mu.height + uint64(tx.Duration),
	}

	return id, nil
}

// must be called under lock
func (n *Network) applyVoucherUpdate(tx *adapter.Transaction) (string, error) {
	v, exists := n.mu.vouchers[normalize(tx.VoucherId)]
	if !exists {
		return "", errors.Wrapf(ErrUnknownVoucher, "no voucher %s", tx.VoucherId)
	}
	if v.owner != tx.Origin {
		return "", errors.Errorf("only the voucher owner can update voucher %s", tx.VoucherId)
	}
	if v.spender != tx.Spender {
		return "", errors.Errorf("voucher %s does not belong to %s", tx.VoucherId, tx.Spender)
	}

	if topUp := tx.Balance.ToInt(); topUp != nil && topUp.Sign() > 0 {
		owner := n.balanceOf(tx.Origin)
		if owner.Cmp(topUp) < 0 {
			return "", errors.Errorf("owner balance %s is below %s", owner, topUp)
		}
		owner.Sub(owner, topUp)
		v.balance.Add(v.balance, topUp)
	}

	if tx.Duration > 0 {
		// an expired voucher is prolonged from now, not from its old expiry
		from := v.expiry
		if from < n.mu.height {
			from = n.mu.height
		}
		v.expiry = from + uint64(tx.Duration)
	}

	return v.id, nil
}

func (n *Network) ReadState(ctx context.Context, query *adapter.QueryCall) (json.RawMessage, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	program, err := n.programFor(query.ContractId)
	if err != nil {
		return nil, err
	}

	return program.Query(&Call{
		Caller:      normalize(query.Origin),
		Service:     query.Service,
		Method:      query.Method,
		Args:        query.Args,
		BlockHeight: n.mu.height,
	})
}

func (n *Network) VouchersForAccount(ctx context.Context, account string, contractId string) ([]string, error) {
	accountId, err := address.ToAccountIdHex(account)
	if err != nil {
		return nil, err
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	var ids []string
	for id, v := range n.mu.vouchers {
		if v.spender != accountId {
			continue
		}
		if contractId != "" && len(v.programs) > 0 && !contains(v.programs, normalize(contractId)) {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (n *Network) VoucherDetails(ctx context.Context, account string, voucherId string) (*adapter.VoucherDetails, error) {
	accountId, err := address.ToAccountIdHex(account)
	if err != nil {
		return nil, err
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	v, exists := n.mu.vouchers[normalize(voucherId)]
	if !exists || v.spender != accountId {
		return nil, errors.Wrapf(ErrUnknownVoucher, "no voucher %s for %s", voucherId, account)
	}

	return &adapter.VoucherDetails{
		Id:       v.id,
		Owner:    v.owner,
		Spender:  v.spender,
		Programs: append([]string{}, v.programs...),
		Balance:  (*hexutil.Big)(new(big.Int).Set(v.balance)),
		Expiry:   v.expiry,
	}, nil
}

// Balance reports the free balance of an account or of a voucher id
func (n *Network) Balance(ctx context.Context, account string) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if v, isVoucher := n.mu.vouchers[normalize(account)]; isVoucher {
		return new(big.Int).Set(v.balance), nil
	}

	accountId, err := address.ToAccountIdHex(account)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(n.balanceOf(accountId)), nil
}

func (n *Network) FinalizedHeight(ctx context.Context) (uint64, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.mu.height, nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
