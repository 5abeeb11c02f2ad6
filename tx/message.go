// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/provenet/ledger/ledger"
)

// Message is an offchain message body. Bodies are rlp encoded and signed under their type tag.
type Message interface {
	TypeTag() string
	// GetDomain returns the ledger domain the message was signed for.
	GetDomain() []byte
}

// DelegateMessage authorizes a new delegated signer for a prover. Signed by the prover owner.
type DelegateMessage struct {
	Prover ledger.Address
	Signer ledger.Address
	Domain []byte
	Nonce  uint64
}

func (m *DelegateMessage) TypeTag() string   { return "Delegate" }
func (m *DelegateMessage) GetDomain() []byte { return m.Domain }

// TransferMessage moves funds from the signer to To.
// Amount is a big-endian unsigned integer of at most 32 bytes.
type TransferMessage struct {
	To     ledger.Address
	Amount []byte
	Domain []byte
	Nonce  uint64
}

func (m *TransferMessage) TypeTag() string   { return "Transfer" }
func (m *TransferMessage) GetDomain() []byte { return m.Domain }

// Value decodes the amount.
func (m *TransferMessage) Value() (*uint256.Int, error) {
	if len(m.Amount) > 32 {
		return nil, fmt.Errorf("amount too long: %d bytes", len(m.Amount))
	}
	return new(uint256.Int).SetBytes(m.Amount), nil
}

// RequestMessage is a proof request signed by the requester.
type RequestMessage struct {
	Nonce            uint64
	VKHash           ledger.Bytes32
	Mode             ledger.ProofMode
	GasLimit         uint64 // max pgus
	CycleLimit       uint64 // zero means unbounded
	MaxPricePerPGU   *uint256.Int
	Deadline         uint64 // zero means none
	Whitelist        []ledger.Address
	Auctioneer       ledger.Address
	Executor         ledger.Address
	PublicValuesHash ledger.Bytes32 // zero means not constrained
	ProgramURI       string
	StdinURI         string
	Domain           []byte
}

func (m *RequestMessage) TypeTag() string   { return "Request" }
func (m *RequestMessage) GetDomain() []byte { return m.Domain }

// Whitelisted returns whether the prover may serve the request.
func (m *RequestMessage) Whitelisted(prover ledger.Address) bool {
	if len(m.Whitelist) == 0 {
		return true
	}
	for _, a := range m.Whitelist {
		if a == prover {
			return true
		}
	}
	return false
}

// BidMessage is a prover's offer, signed by the prover's delegated signer.
type BidMessage struct {
	RequestID   ledger.Bytes32
	Prover      ledger.Address
	PricePerPGU *uint256.Int
	Domain      []byte
}

func (m *BidMessage) TypeTag() string   { return "Bid" }
func (m *BidMessage) GetDomain() []byte { return m.Domain }

// SettleMessage confirms the winning bid. Signed by the auctioneer.
type SettleMessage struct {
	RequestID   ledger.Bytes32
	Prover      ledger.Address
	PricePerPGU *uint256.Int
	Domain      []byte
}

func (m *SettleMessage) TypeTag() string   { return "Settle" }
func (m *SettleMessage) GetDomain() []byte { return m.Domain }

// ExecutionStatus is the outcome reported by the executor.
type ExecutionStatus uint8

const (
	ExecutionExecuted ExecutionStatus = iota + 1
	ExecutionUnexecutable
)

func (s ExecutionStatus) String() string {
	switch s {
	case ExecutionExecuted:
		return "executed"
	case ExecutionUnexecutable:
		return "unexecutable"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// ExecuteMessage reports resource usage. Signed by the request executor.
type ExecuteMessage struct {
	RequestID        ledger.Bytes32
	Status           ExecutionStatus
	PGUs             uint64
	Cycles           uint64
	PublicValuesHash ledger.Bytes32
	PunishmentAmount *uint256.Int // only for ExecutionUnexecutable
	Domain           []byte
}

func (m *ExecuteMessage) TypeTag() string   { return "Execute" }
func (m *ExecuteMessage) GetDomain() []byte { return m.Domain }

// FulfillMessage delivers the proof. Signed by the prover's delegated signer.
type FulfillMessage struct {
	RequestID ledger.Bytes32
	ProofURI  string
	Proof     []byte
	Domain    []byte
}

func (m *FulfillMessage) TypeTag() string   { return "Fulfill" }
func (m *FulfillMessage) GetDomain() []byte { return m.Domain }

// VerifyMessage attests an externally verified proof. Signed by the ledger verifier.
type VerifyMessage struct {
	RequestID        ledger.Bytes32
	PublicValuesHash ledger.Bytes32
	Domain           []byte
}

func (m *VerifyMessage) TypeTag() string   { return "Verify" }
func (m *VerifyMessage) GetDomain() []byte { return m.Domain }

// RequestID derives the identifier of a request from its body and signer.
func RequestID(body []byte, signer ledger.Address) ledger.Bytes32 {
	return ledger.Keccak256(body, signer[:])
}
