// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fee computes request costs and the split of a settled cost between the
// protocol, the prover stakers and the prover owner. All arithmetic is checked.
package fee

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/provenet/ledger/ledger"
)

var (
	ErrOverflow    = errors.New("fee: arithmetic overflow")
	ErrInvalidBips = errors.New("fee: bips exceed fee unit")
)

var feeUnit = uint256.NewInt(ledger.FeeUnit)

// CheckBips returns an error if bips is larger than the fee unit.
func CheckBips(bips uint64) error {
	if bips > ledger.MaxFeeBips {
		return errors.Wrapf(ErrInvalidBips, "%d", bips)
	}
	return nil
}

// Cost returns pricePerPGU * pgus.
func Cost(pricePerPGU *uint256.Int, pgus uint64) (*uint256.Int, error) {
	cost, overflow := new(uint256.Int).MulOverflow(pricePerPGU, uint256.NewInt(pgus))
	if overflow {
		return nil, ErrOverflow
	}
	return cost, nil
}

// Punishment clamps the punishment of an unexecutable request to
// pricePerPGU * gasLimit. A bound beyond 256 bits leaves the punishment as is.
func Punishment(punishment, pricePerPGU *uint256.Int, gasLimit uint64) *uint256.Int {
	if punishment == nil {
		return new(uint256.Int)
	}
	maxCost, overflow := new(uint256.Int).MulOverflow(pricePerPGU, uint256.NewInt(gasLimit))
	if !overflow && punishment.Gt(maxCost) {
		return maxCost
	}
	return new(uint256.Int).Set(punishment)
}

// Split is the distribution of a settled cost.
type Split struct {
	ProtocolFee  *uint256.Int
	StakerReward *uint256.Int
	OwnerReward  *uint256.Int
}

// Total returns the sum of all parts.
func (s *Split) Total() *uint256.Int {
	total := new(uint256.Int).Add(s.ProtocolFee, s.StakerReward)
	return total.Add(total, s.OwnerReward)
}

// SplitCost divides cost in the fixed order
//
//	protocol = cost * protocolBips / unit
//	remaining = cost - protocol
//	staker = remaining * stakerBips / unit
//	owner = remaining - staker
//
// Divisions truncate, so any rounding remainder ends up with the owner.
func SplitCost(cost *uint256.Int, protocolBips, stakerBips uint64) (*Split, error) {
	if err := CheckBips(protocolBips); err != nil {
		return nil, err
	}
	if err := CheckBips(stakerBips); err != nil {
		return nil, err
	}

	protocol, overflow := new(uint256.Int).MulDivOverflow(cost, uint256.NewInt(protocolBips), feeUnit)
	if overflow {
		return nil, ErrOverflow
	}
	remaining := new(uint256.Int).Sub(cost, protocol)

	staker, overflow := new(uint256.Int).MulDivOverflow(remaining, uint256.NewInt(stakerBips), feeUnit)
	if overflow {
		return nil, ErrOverflow
	}
	owner := new(uint256.Int).Sub(remaining, staker)

	return &Split{
		ProtocolFee:  protocol,
		StakerReward: staker,
		OwnerReward:  owner,
	}, nil
}
