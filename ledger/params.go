// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "github.com/holiman/uint256"

// Constants of the settlement ledger.
const (
	FeeUnit uint64 = 10000 // basis points denominator

	MaxFeeBips uint64 = FeeUnit

	MaxDomainLength = 64
	MaxWhitelistLen = 256
)

// MaxAmount is the withdraw sentinel meaning "entire current balance".
var MaxAmount = new(uint256.Int).SetAllOne()

// IsMaxAmount returns whether v equals the withdraw sentinel.
func IsMaxAmount(v *uint256.Int) bool {
	return v != nil && v.Eq(MaxAmount)
}
