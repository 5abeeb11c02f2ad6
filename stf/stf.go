// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stf implements the ledger state transition function. A batch of transactions is
// applied strictly in order; a transaction either succeeds, or reverts leaving only the
// sequencing counters changed. An invariant violation aborts the batch as a whole.
package stf

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/log"
	"github.com/provenet/ledger/state"
	"github.com/provenet/ledger/tx"
	"github.com/provenet/ledger/verifier"
)

var logger = log.WithContext("pkg", "stf")

// STF applies transactions to the ledger state.
type STF struct {
	verifiers *verifier.Registry
}

// New creates a state transition function consulting the given proof verifiers.
func New(verifiers *verifier.Registry) *STF {
	return &STF{verifiers: verifiers}
}

// env is the environment a transaction is executed in.
type env struct {
	state     *state.State
	globals   *state.Globals // with counters already advanced
	txID      uint64
	timestamp uint64
}

// outcome is produced by a successful handler.
type outcome struct {
	data   []byte
	action *tx.Action
}

// Execute applies one transaction. A revert is reported by a failed receipt; the returned
// error is always an invariant violation.
func (f *STF) Execute(st *state.State, trx *tx.Transaction, timestamp uint64) (*tx.Receipt, error) {
	globals := st.Globals()

	if trx.Type.IsOnchain() {
		if trx.Onchain == nil {
			return nil, invariant("onchain %v tx without onchain meta", trx.Type)
		}
		if err := checkOrdering(globals, trx.Onchain); err != nil {
			return nil, err
		}
		advanceOnchain(globals, trx.Onchain)
	}

	txID := globals.TxID
	if txID == ^uint64(0) {
		return nil, invariant("tx id exhausted")
	}
	globals.TxID++
	st.SetGlobals(globals)

	receipt := &tx.Receipt{
		TxID:   txID,
		Type:   trx.Type,
		Status: tx.StatusSuccess,
	}

	checkpoint := st.NewCheckpoint()
	out, err := f.dispatch(&env{st, globals, txID, timestamp}, trx)
	if err != nil {
		if !IsRevert(err) {
			if !IsInvariant(err) {
				err = invariantCause(err, "tx %v", txID)
			}
			logger.Error("invariant violation", "txID", txID, "type", trx.Type, "err", err)
			return nil, err
		}
		st.RevertTo(checkpoint)

		logger.Debug("tx reverted", "txID", txID, "type", trx.Type, "err", err)
		metricTxCount().AddWithLabel(1, map[string]string{"type": trx.Type.String(), "status": "failed"})

		receipt.Status = tx.StatusFailed
		receipt.Reason = ReasonOf(err)
		receipt.Data = echo(trx)
		return receipt, nil
	}

	metricTxCount().AddWithLabel(1, map[string]string{"type": trx.Type.String(), "status": "success"})
	receipt.Data = out.data
	if receipt.Data == nil {
		receipt.Data = echo(trx)
	}
	receipt.Action = out.action
	return receipt, nil
}

func (f *STF) dispatch(e *env, trx *tx.Transaction) (*outcome, error) {
	if !trx.Type.IsValid() {
		return nil, revert(ReasonUnknownType, "%v", trx.Type)
	}
	if !trx.Type.IsOnchain() && trx.Onchain != nil {
		return nil, revert(ReasonMalformedBody, "offchain %v tx with onchain meta", trx.Type)
	}
	if trx.Body() == nil {
		return nil, revert(ReasonMissingBody, "no %v body", trx.Type)
	}

	switch trx.Type {
	case tx.TypeDeposit:
		return f.deposit(e, trx.Deposit)
	case tx.TypeWithdraw:
		return f.withdraw(e, trx.Withdraw)
	case tx.TypeCreateProver:
		return f.createProver(e, trx.CreateProver)
	case tx.TypeDelegate:
		return f.delegate(e, trx.Delegate)
	case tx.TypeTransfer:
		return f.transfer(e, trx.Transfer)
	default:
		return f.clear(e, trx.Clear)
	}
}

// echo returns the encoded body of the transaction.
func echo(trx *tx.Transaction) []byte {
	body := trx.Body()
	if body == nil {
		return []byte{}
	}
	data, err := rlp.EncodeToBytes(body)
	if err != nil {
		panic(err)
	}
	return data
}

func mustEncode(v any) []byte {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		panic(err)
	}
	return data
}

// Result is the outcome of a batch.
type Result struct {
	PublicValues *tx.PublicValues
	Stage        *state.Stage
}

// ExecuteBatch applies the batch on top of base. The base snapshot is never modified, so an
// invariant violation leaves no trace of the batch.
func (f *STF) ExecuteBatch(base *state.Snapshot, batch *tx.Batch) (*Result, error) {
	oldRoot, err := base.Root()
	if err != nil {
		return nil, err
	}

	st := state.New(base)
	receipts := make([]*tx.Receipt, 0, len(batch.Transactions))
	for i, trx := range batch.Transactions {
		receipt, err := f.Execute(st, trx, batch.Timestamp)
		if err != nil {
			metricBatchAborted().Add(1)
			logger.Error("batch aborted", "index", i, "err", err)
			return nil, err
		}
		receipts = append(receipts, receipt)
	}

	stage, err := st.Stage()
	if err != nil {
		return nil, err
	}

	metricBatchCount().Add(1)
	metricBatchSize().Observe(int64(len(batch.Transactions)))
	logger.Debug("batch executed", "txs", len(receipts), "oldRoot", oldRoot, "newRoot", stage.Root())

	return &Result{
		PublicValues: &tx.PublicValues{
			OldRoot:   oldRoot,
			NewRoot:   stage.Root(),
			Timestamp: batch.Timestamp,
			Receipts:  receipts,
		},
		Stage: stage,
	}, nil
}

// credit adds amount to addr. Funds entering the ledger are backed by the settlement layer,
// so an overflow means the state is inconsistent.
func credit(st *state.State, addr ledger.Address, amount *uint256.Int) error {
	if err := st.AddBalance(addr, amount); err != nil {
		return invariantCause(err, "credit %v to %v", amount, addr)
	}
	return nil
}
