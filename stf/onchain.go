// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stf

import (
	"github.com/holiman/uint256"

	"github.com/provenet/ledger/fee"
	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/state"
	"github.com/provenet/ledger/tx"
)

func amountOf(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}

// deposit credits funds already locked on the settlement layer. It never reverts.
func (f *STF) deposit(e *env, body *tx.Deposit) (*outcome, error) {
	if err := credit(e.state, body.Account, amountOf(body.Amount)); err != nil {
		return nil, err
	}
	return &outcome{}, nil
}

// withdraw debits the account and asks the settlement layer to release the funds.
func (f *STF) withdraw(e *env, body *tx.Withdraw) (*outcome, error) {
	balance := e.state.GetBalance(body.Account)

	amount := amountOf(body.Amount)
	if ledger.IsMaxAmount(amount) {
		amount = balance
	}
	if amount.Gt(balance) {
		return nil, revert(ReasonInsufficientBalance, "withdraw %v, balance %v", amount, balance)
	}
	if err := e.state.SubBalance(body.Account, amount); err != nil {
		return nil, invariantCause(err, "withdraw")
	}

	resolved := &tx.Withdraw{Account: body.Account, Amount: new(uint256.Int).Set(amount)}
	return &outcome{
		data: mustEncode(resolved),
		action: &tx.Action{
			Type:    tx.ActionWithdraw,
			Account: body.Account,
			Amount:  resolved.Amount,
		},
	}, nil
}

// createProver registers a prover whose delegated signer starts as its owner.
func (f *STF) createProver(e *env, body *tx.CreateProver) (*outcome, error) {
	if body.Prover.IsZero() || body.Owner.IsZero() {
		return nil, revert(ReasonInvalidAddress, "prover %v owner %v", body.Prover, body.Owner)
	}
	if err := fee.CheckBips(body.StakerFeeBips); err != nil {
		return nil, revert(ReasonInvalidFeeBips, "%v", err)
	}
	if vault, ok := e.state.ProverOf(body.Owner); ok {
		return nil, revert(ReasonProverExists, "owner %v has prover %v", body.Owner, vault)
	}
	if _, ok := e.state.GetProver(body.Prover); ok {
		return nil, revert(ReasonVaultExists, "prover %v", body.Prover)
	}

	e.state.SetProver(body.Prover, &state.Prover{
		Owner:         body.Owner,
		Signer:        body.Owner,
		StakerFeeBips: body.StakerFeeBips,
	})
	return &outcome{}, nil
}
