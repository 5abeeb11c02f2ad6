// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/stackedmap"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type (
	accountKey ledger.Address
	proverKey  ledger.Address
	ownerKey   ledger.Address
	requestKey ledger.Bytes32
	messageKey ledger.Bytes32
	globalsKey struct{}
)

// State is the revertable ledger state built on top of a snapshot.
type State struct {
	base *Snapshot
	sm   *stackedmap.StackedMap[any, any] // keeps revisions of changed entries
}

// New creates a state on top of the base snapshot. The snapshot is never modified.
func New(base *Snapshot) *State {
	s := &State{base: base}
	s.sm = stackedmap.New[any, any](s.baseGetter)
	s.sm.Push()
	return s
}

// baseGetter implements stackedmap.MapGetter.
func (s *State) baseGetter(key any) (any, bool) {
	switch k := key.(type) {
	case accountKey:
		if bal, ok := s.base.Accounts[ledger.Address(k)]; ok {
			return bal, true
		}
		return new(uint256.Int), true
	case proverKey:
		if p, ok := s.base.Provers[ledger.Address(k)]; ok {
			return p, true
		}
	case ownerKey:
		if vault, ok := s.base.owners[ledger.Address(k)]; ok {
			return vault, true
		}
	case requestKey:
		if _, ok := s.base.Requests[ledger.Bytes32(k)]; ok {
			return true, true
		}
	case messageKey:
		if _, ok := s.base.Messages[ledger.Bytes32(k)]; ok {
			return true, true
		}
	case globalsKey:
		return &s.base.Globals, true
	default:
		panic(fmt.Errorf("unexpected key type %+v", key))
	}
	return nil, false
}

// Base returns the snapshot the state was created on.
func (s *State) Base() *Snapshot {
	return s.base
}

// Globals returns a copy of the globals.
func (s *State) Globals() *Globals {
	v, _ := s.sm.Get(globalsKey{})
	return v.(*Globals).Copy()
}

// SetGlobals replaces the globals.
func (s *State) SetGlobals(g *Globals) {
	s.sm.Put(globalsKey{}, g.Copy())
}

// GetBalance returns the balance of addr.
func (s *State) GetBalance(addr ledger.Address) *uint256.Int {
	v, _ := s.sm.Get(accountKey(addr))
	return new(uint256.Int).Set(v.(*uint256.Int))
}

// SetBalance sets the balance of addr.
func (s *State) SetBalance(addr ledger.Address, balance *uint256.Int) {
	s.sm.Put(accountKey(addr), new(uint256.Int).Set(balance))
}

// AddBalance credits amount to addr.
func (s *State) AddBalance(addr ledger.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	bal, overflow := new(uint256.Int).AddOverflow(s.GetBalance(addr), amount)
	if overflow {
		return ErrBalanceOverflow
	}
	s.SetBalance(addr, bal)
	return nil
}

// SubBalance debits amount from addr.
func (s *State) SubBalance(addr ledger.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	bal, underflow := new(uint256.Int).SubOverflow(s.GetBalance(addr), amount)
	if underflow {
		return ErrInsufficientBalance
	}
	s.SetBalance(addr, bal)
	return nil
}

// GetProver returns a copy of the prover registered under vault.
func (s *State) GetProver(vault ledger.Address) (*Prover, bool) {
	v, ok := s.sm.Get(proverKey(vault))
	if !ok {
		return nil, false
	}
	cpy := *v.(*Prover)
	return &cpy, true
}

// SetProver saves the prover under vault and indexes its owner.
func (s *State) SetProver(vault ledger.Address, p *Prover) {
	cpy := *p
	s.sm.Put(proverKey(vault), &cpy)
	s.sm.Put(ownerKey(p.Owner), vault)
}

// ProverOf returns the vault registered by owner.
func (s *State) ProverOf(owner ledger.Address) (ledger.Address, bool) {
	v, ok := s.sm.Get(ownerKey(owner))
	if !ok {
		return ledger.Address{}, false
	}
	return v.(ledger.Address), true
}

// IsRequestConsumed returns whether the request was cleared.
func (s *State) IsRequestConsumed(id ledger.Bytes32) bool {
	_, ok := s.sm.Get(requestKey(id))
	return ok
}

// ConsumeRequest marks the request cleared.
func (s *State) ConsumeRequest(id ledger.Bytes32) {
	s.sm.Put(requestKey(id), true)
}

// IsMessageConsumed returns whether the signed message was applied.
func (s *State) IsMessageConsumed(digest ledger.Bytes32) bool {
	_, ok := s.sm.Get(messageKey(digest))
	return ok
}

// ConsumeMessage marks the signed message applied.
func (s *State) ConsumeMessage(digest ledger.Bytes32) {
	s.sm.Put(messageKey(digest), true)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	// the bottom level always exists
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}
