// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/holiman/uint256"

	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/metrics"
)

var metricStateEntries = metrics.LazyLoadGaugeVec("state_entries", []string{"kind"})

// Stage is the result of playing back all changes onto the base snapshot.
type Stage struct {
	root     ledger.Bytes32
	snapshot *Snapshot
}

// Root returns the commitment of the staged state.
func (s *Stage) Root() ledger.Bytes32 {
	return s.root
}

// Snapshot returns the staged snapshot.
func (s *Stage) Snapshot() *Snapshot {
	return s.snapshot
}

// Stage plays back the journal onto a copy of the base snapshot and computes its root.
func (s *State) Stage() (*Stage, error) {
	snap := s.base.clone()

	// traverse journal to build changes
	s.sm.Journal(func(k, v any) bool {
		switch key := k.(type) {
		case accountKey:
			if bal := v.(*uint256.Int); bal.IsZero() {
				delete(snap.Accounts, ledger.Address(key))
			} else {
				snap.Accounts[ledger.Address(key)] = bal
			}
		case proverKey:
			snap.Provers[ledger.Address(key)] = v.(*Prover)
		case ownerKey:
			snap.owners[ledger.Address(key)] = v.(ledger.Address)
		case requestKey:
			snap.Requests[ledger.Bytes32(key)] = struct{}{}
		case messageKey:
			snap.Messages[ledger.Bytes32(key)] = struct{}{}
		case globalsKey:
			snap.Globals = *v.(*Globals)
		}
		return true
	})

	root, err := snap.Root()
	if err != nil {
		return nil, err
	}

	metricStateEntries().SetWithLabel(int64(len(snap.Accounts)), map[string]string{"kind": "account"})
	metricStateEntries().SetWithLabel(int64(len(snap.Provers)), map[string]string{"kind": "prover"})
	metricStateEntries().SetWithLabel(int64(len(snap.Requests)), map[string]string{"kind": "request"})

	return &Stage{root: root, snapshot: snap}, nil
}
