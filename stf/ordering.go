// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stf

import (
	"github.com/provenet/ledger/state"
	"github.com/provenet/ledger/tx"
)

// checkOrdering validates the position of an onchain transaction in the event stream:
// contiguous onchain tx ids, non-decreasing block numbers and strictly increasing log
// indexes within a block.
func checkOrdering(g *state.Globals, meta *tx.OnchainMeta) error {
	if meta.OnchainTxID != g.OnchainTxID {
		return invariant("onchain tx id %v, want %v", meta.OnchainTxID, g.OnchainTxID)
	}
	if meta.OnchainTxID == ^uint64(0) {
		return invariant("onchain tx id exhausted")
	}
	if !g.HasOnchain {
		return nil
	}
	if meta.BlockNumber < g.BlockNumber {
		return invariant("block number %v before %v", meta.BlockNumber, g.BlockNumber)
	}
	if meta.BlockNumber == g.BlockNumber && meta.LogIndex <= g.LogIndex {
		return invariant("log index %v not after %v in block %v", meta.LogIndex, g.LogIndex, meta.BlockNumber)
	}
	return nil
}

func advanceOnchain(g *state.Globals, meta *tx.OnchainMeta) {
	g.OnchainTxID = meta.OnchainTxID + 1
	g.BlockNumber = meta.BlockNumber
	g.LogIndex = meta.LogIndex
	g.HasOnchain = true
}
