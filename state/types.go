// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/provenet/ledger/ledger"

// Prover is a registered prover, keyed by its vault address.
type Prover struct {
	Owner         ledger.Address
	Signer        ledger.Address // delegated signer
	StakerFeeBips uint64
}

// Globals holds the ledger configuration and sequencing counters.
type Globals struct {
	Domain          []byte
	Auctioneer      ledger.Address
	Verifier        ledger.Address
	Treasury        ledger.Address
	ProtocolFeeBips uint64

	TxID        uint64 // id assigned to the next transaction
	OnchainTxID uint64 // expected id of the next onchain transaction
	BlockNumber uint64 // block of the last onchain transaction
	LogIndex    uint64 // log index of the last onchain transaction
	HasOnchain  bool   // whether BlockNumber and LogIndex are set
}

// Copy returns a deep copy.
func (g *Globals) Copy() *Globals {
	cpy := *g
	cpy.Domain = append([]byte(nil), g.Domain...)
	return &cpy
}
