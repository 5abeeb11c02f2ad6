// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"maps"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/provenet/ledger/ledger"
)

// prefixes of trie entries.
const (
	prefixAccount = 'a'
	prefixProver  = 'p'
	prefixRequest = 'r'
	prefixMessage = 'm'
	prefixGlobals = 'g'
)

var (
	globalsID    = []byte("globals")
	consumedMark = []byte{1}
)

// Snapshot is an immutable, fully materialized ledger state.
type Snapshot struct {
	Globals  Globals
	Accounts map[ledger.Address]*uint256.Int // zero balances are absent
	Provers  map[ledger.Address]*Prover
	Requests map[ledger.Bytes32]struct{}
	Messages map[ledger.Bytes32]struct{}

	owners map[ledger.Address]ledger.Address // owner -> vault
}

// NewSnapshot creates an empty snapshot with the given globals.
func NewSnapshot(g Globals) *Snapshot {
	return &Snapshot{
		Globals:  *g.Copy(),
		Accounts: make(map[ledger.Address]*uint256.Int),
		Provers:  make(map[ledger.Address]*Prover),
		Requests: make(map[ledger.Bytes32]struct{}),
		Messages: make(map[ledger.Bytes32]struct{}),
		owners:   make(map[ledger.Address]ledger.Address),
	}
}

func (s *Snapshot) clone() *Snapshot {
	return &Snapshot{
		Globals:  *s.Globals.Copy(),
		Accounts: maps.Clone(s.Accounts),
		Provers:  maps.Clone(s.Provers),
		Requests: maps.Clone(s.Requests),
		Messages: maps.Clone(s.Messages),
		owners:   maps.Clone(s.owners),
	}
}

// Balance returns the balance of addr.
func (s *Snapshot) Balance(addr ledger.Address) *uint256.Int {
	if bal, ok := s.Accounts[addr]; ok {
		return new(uint256.Int).Set(bal)
	}
	return new(uint256.Int)
}

// ProverOf returns the vault registered by owner.
func (s *Snapshot) ProverOf(owner ledger.Address) (ledger.Address, bool) {
	vault, ok := s.owners[owner]
	return vault, ok
}

type entry struct {
	key, val []byte
}

func entryKey(prefix byte, id []byte) []byte {
	h := ledger.Keccak256([]byte{prefix}, id)
	return h[:]
}

func (s *Snapshot) entries() ([]entry, error) {
	out := make([]entry, 0, 1+len(s.Accounts)+len(s.Provers)+len(s.Requests)+len(s.Messages))

	add := func(prefix byte, id []byte, val any) error {
		var data []byte
		if raw, ok := val.([]byte); ok {
			data = raw
		} else {
			enc, err := rlp.EncodeToBytes(val)
			if err != nil {
				return err
			}
			data = enc
		}
		out = append(out, entry{entryKey(prefix, id), data})
		return nil
	}

	if err := add(prefixGlobals, globalsID, &s.Globals); err != nil {
		return nil, err
	}
	for addr, bal := range s.Accounts {
		if bal.IsZero() {
			continue
		}
		if err := add(prefixAccount, addr[:], bal); err != nil {
			return nil, err
		}
	}
	for vault, p := range s.Provers {
		if err := add(prefixProver, vault[:], p); err != nil {
			return nil, err
		}
	}
	for id := range s.Requests {
		if err := add(prefixRequest, id[:], consumedMark); err != nil {
			return nil, err
		}
	}
	for d := range s.Messages {
		if err := add(prefixMessage, d[:], consumedMark); err != nil {
			return nil, err
		}
	}

	slices.SortFunc(out, func(a, b entry) int { return bytes.Compare(a.key, b.key) })
	return out, nil
}

// Root computes the state commitment.
func (s *Snapshot) Root() (ledger.Bytes32, error) {
	entries, err := s.entries()
	if err != nil {
		return ledger.Bytes32{}, &Error{err}
	}
	st := trie.NewStackTrie(nil)
	for _, e := range entries {
		if err := st.Update(e.key, e.val); err != nil {
			return ledger.Bytes32{}, &Error{err}
		}
	}
	return ledger.Bytes32(st.Hash()), nil
}

type accountRLP struct {
	Address ledger.Address
	Balance *uint256.Int
}

type proverRLP struct {
	Vault  ledger.Address
	Prover *Prover
}

type snapshotRLP struct {
	Globals  *Globals
	Accounts []accountRLP
	Provers  []proverRLP
	Requests []ledger.Bytes32
	Messages []ledger.Bytes32
}

// Encode encodes the snapshot into rlp, every list in ascending key order.
func (s *Snapshot) Encode() ([]byte, error) {
	enc := snapshotRLP{Globals: &s.Globals}
	for _, addr := range slices.SortedFunc(maps.Keys(s.Accounts), ledger.Address.Compare) {
		if bal := s.Accounts[addr]; !bal.IsZero() {
			enc.Accounts = append(enc.Accounts, accountRLP{addr, bal})
		}
	}
	for _, vault := range slices.SortedFunc(maps.Keys(s.Provers), ledger.Address.Compare) {
		enc.Provers = append(enc.Provers, proverRLP{vault, s.Provers[vault]})
	}
	enc.Requests = slices.SortedFunc(maps.Keys(s.Requests), ledger.Bytes32.Compare)
	enc.Messages = slices.SortedFunc(maps.Keys(s.Messages), ledger.Bytes32.Compare)

	data, err := rlp.EncodeToBytes(&enc)
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// DecodeSnapshot decodes a snapshot produced by Encode.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var dec snapshotRLP
	if err := rlp.DecodeBytes(data, &dec); err != nil {
		return nil, &Error{errors.Wrap(err, "decode snapshot")}
	}
	if dec.Globals == nil {
		return nil, &Error{errors.New("snapshot without globals")}
	}

	s := NewSnapshot(*dec.Globals)
	for _, a := range dec.Accounts {
		if a.Balance != nil && !a.Balance.IsZero() {
			s.Accounts[a.Address] = a.Balance
		}
	}
	for _, p := range dec.Provers {
		if p.Prover == nil {
			return nil, &Error{errors.Errorf("empty prover %v", p.Vault)}
		}
		if err := s.addProver(p.Vault, p.Prover); err != nil {
			return nil, err
		}
	}
	for _, id := range dec.Requests {
		s.Requests[id] = struct{}{}
	}
	for _, d := range dec.Messages {
		s.Messages[d] = struct{}{}
	}
	return s, nil
}

// AddProver registers a prover while building a snapshot.
func (s *Snapshot) AddProver(vault ledger.Address, p Prover) error {
	return s.addProver(vault, &p)
}

func (s *Snapshot) addProver(vault ledger.Address, p *Prover) error {
	if _, ok := s.Provers[vault]; ok {
		return &Error{errors.Errorf("duplicate prover %v", vault)}
	}
	if _, ok := s.owners[p.Owner]; ok {
		return &Error{errors.Errorf("owner %v already has a prover", p.Owner)}
	}
	s.Provers[vault] = p
	s.owners[p.Owner] = vault
	return nil
}
