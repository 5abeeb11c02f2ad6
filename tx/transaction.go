// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/provenet/ledger/ledger"
)

// OnchainMeta locates the settlement layer event an onchain transaction originates from.
type OnchainMeta struct {
	BlockNumber uint64 `json:"blockNumber"`
	LogIndex    uint64 `json:"logIndex"`
	OnchainTxID uint64 `json:"onchainTxId"`
}

// Deposit credits funds already locked on the settlement layer.
type Deposit struct {
	Account ledger.Address `json:"account"`
	Amount  *uint256.Int   `json:"amount"`
}

// Withdraw debits an account. Amount equal to ledger.MaxAmount withdraws the whole balance.
type Withdraw struct {
	Account ledger.Address `json:"account"`
	Amount  *uint256.Int   `json:"amount"`
}

// CreateProver registers a prover vault emitted by the staking system.
type CreateProver struct {
	Prover        ledger.Address `json:"prover"`
	Owner         ledger.Address `json:"owner"`
	StakerFeeBips uint64         `json:"stakerFeeBips"`
}

// Clear carries the signed messages settling one auctioned request.
type Clear struct {
	Request *Signed `json:"request,omitempty" rlp:"nil"`
	Bid     *Signed `json:"bid,omitempty" rlp:"nil"`
	Settle  *Signed `json:"settle,omitempty" rlp:"nil"`
	Execute *Signed `json:"execute,omitempty" rlp:"nil"`
	Fulfill *Signed `json:"fulfill,omitempty" rlp:"nil"`
	Verify  *Signed `json:"verify,omitempty" rlp:"nil"`
}

// Transaction is a tagged union of the ledger transaction variants.
// Exactly the body matching Type is expected to be set; onchain variants carry Onchain.
type Transaction struct {
	Type         Type          `json:"type"`
	Onchain      *OnchainMeta  `json:"onchain,omitempty" rlp:"nil"`
	Deposit      *Deposit      `json:"deposit,omitempty" rlp:"nil"`
	Withdraw     *Withdraw     `json:"withdraw,omitempty" rlp:"nil"`
	CreateProver *CreateProver `json:"createProver,omitempty" rlp:"nil"`
	Delegate     *Signed       `json:"delegate,omitempty" rlp:"nil"`
	Transfer     *Signed       `json:"transfer,omitempty" rlp:"nil"`
	Clear        *Clear        `json:"clear,omitempty" rlp:"nil"`
}

// NewDeposit builds an onchain deposit.
func NewDeposit(meta OnchainMeta, account ledger.Address, amount *uint256.Int) *Transaction {
	return &Transaction{Type: TypeDeposit, Onchain: &meta, Deposit: &Deposit{account, amount}}
}

// NewWithdraw builds an onchain withdraw.
func NewWithdraw(meta OnchainMeta, account ledger.Address, amount *uint256.Int) *Transaction {
	return &Transaction{Type: TypeWithdraw, Onchain: &meta, Withdraw: &Withdraw{account, amount}}
}

// NewCreateProver builds an onchain prover registration.
func NewCreateProver(meta OnchainMeta, prover, owner ledger.Address, stakerFeeBips uint64) *Transaction {
	return &Transaction{Type: TypeCreateProver, Onchain: &meta, CreateProver: &CreateProver{prover, owner, stakerFeeBips}}
}

// NewDelegate wraps a signed delegate message.
func NewDelegate(msg *Signed) *Transaction {
	return &Transaction{Type: TypeDelegate, Delegate: msg}
}

// NewTransfer wraps a signed transfer message.
func NewTransfer(msg *Signed) *Transaction {
	return &Transaction{Type: TypeTransfer, Transfer: msg}
}

// NewClear wraps a set of clear messages.
func NewClear(c *Clear) *Transaction {
	return &Transaction{Type: TypeClear, Clear: c}
}

// Body returns the body matching the transaction type, or nil if it's absent.
func (t *Transaction) Body() any {
	switch t.Type {
	case TypeDeposit:
		if t.Deposit != nil {
			return t.Deposit
		}
	case TypeWithdraw:
		if t.Withdraw != nil {
			return t.Withdraw
		}
	case TypeCreateProver:
		if t.CreateProver != nil {
			return t.CreateProver
		}
	case TypeDelegate:
		if t.Delegate != nil {
			return t.Delegate
		}
	case TypeTransfer:
		if t.Transfer != nil {
			return t.Transfer
		}
	case TypeClear:
		if t.Clear != nil {
			return t.Clear
		}
	}
	return nil
}

// Hash returns the keccak hash of the rlp encoded transaction.
func (t *Transaction) Hash() ledger.Bytes32 {
	data, err := rlp.EncodeToBytes(t)
	if err != nil {
		panic(err)
	}
	return ledger.Keccak256(data)
}
