// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/provenet/ledger/fee"
	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/state"
)

// Builder helper to build genesis snapshot.
type Builder struct {
	globals  state.Globals
	balances []balance
	provers  []prover
}

type balance struct {
	addr   ledger.Address
	amount *uint256.Int
}

type prover struct {
	vault ledger.Address
	state.Prover
}

// Domain set the signing domain.
func (b *Builder) Domain(domain []byte) *Builder {
	b.globals.Domain = append([]byte(nil), domain...)
	return b
}

// Authorities set the auctioneer and verifier addresses.
func (b *Builder) Authorities(auctioneer, verifier ledger.Address) *Builder {
	b.globals.Auctioneer = auctioneer
	b.globals.Verifier = verifier
	return b
}

// Treasury set the protocol fee recipient and fee bips.
func (b *Builder) Treasury(treasury ledger.Address, protocolFeeBips uint64) *Builder {
	b.globals.Treasury = treasury
	b.globals.ProtocolFeeBips = protocolFeeBips
	return b
}

// OnchainCursor set the id expected for the first onchain transaction.
func (b *Builder) OnchainCursor(onchainTxID uint64) *Builder {
	b.globals.OnchainTxID = onchainTxID
	return b
}

// Balance credits an account.
func (b *Builder) Balance(addr ledger.Address, amount *uint256.Int) *Builder {
	b.balances = append(b.balances, balance{addr, amount})
	return b
}

// Prover registers a prover. A zero signer defaults to the owner.
func (b *Builder) Prover(vault, owner, signer ledger.Address, stakerFeeBips uint64) *Builder {
	if signer.IsZero() {
		signer = owner
	}
	b.provers = append(b.provers, prover{vault, state.Prover{Owner: owner, Signer: signer, StakerFeeBips: stakerFeeBips}})
	return b
}

// Build builds the genesis snapshot.
func (b *Builder) Build() (*state.Snapshot, error) {
	if len(b.globals.Domain) == 0 || len(b.globals.Domain) > ledger.MaxDomainLength {
		return nil, errors.Errorf("domain length must be in [1, %d]", ledger.MaxDomainLength)
	}
	if err := fee.CheckBips(b.globals.ProtocolFeeBips); err != nil {
		return nil, errors.Wrap(err, "protocol fee")
	}

	snap := state.NewSnapshot(b.globals)
	for _, bal := range b.balances {
		if bal.amount == nil || bal.amount.IsZero() {
			continue
		}
		sum, overflow := new(uint256.Int).AddOverflow(snap.Balance(bal.addr), bal.amount)
		if overflow {
			return nil, errors.Errorf("%v: balance overflow", bal.addr)
		}
		snap.Accounts[bal.addr] = sum
	}
	for _, p := range b.provers {
		if p.vault.IsZero() || p.Owner.IsZero() {
			return nil, errors.Errorf("prover %v: zero address", p.vault)
		}
		if err := fee.CheckBips(p.StakerFeeBips); err != nil {
			return nil, errors.Wrapf(err, "prover %v", p.vault)
		}
		if err := snap.AddProver(p.vault, p.Prover); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

// ComputeRoot computes the state root of the genesis snapshot.
func (b *Builder) ComputeRoot() (ledger.Bytes32, error) {
	snap, err := b.Build()
	if err != nil {
		return ledger.Bytes32{}, err
	}
	return snap.Root()
}
