// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the ledger state: account balances, provers, consumed
// request and message markers, and the global configuration and counters.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ new snapshot + root ]
//	         |
//	[ read-only snapshot ]
//
// The commitment is the root of a hexary Merkle-Patricia trie holding every entry
// under keccak256(prefix || id).
package state
