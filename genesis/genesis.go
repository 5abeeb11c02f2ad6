// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial ledger state.
package genesis

import (
	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/state"
)

// Genesis to build the genesis snapshot.
type Genesis struct {
	builder *Builder
	root    ledger.Bytes32
	name    string
}

// Build returns a fresh genesis snapshot.
func (g *Genesis) Build() (*state.Snapshot, error) {
	return g.builder.Build()
}

// Root returns the state root of the genesis snapshot.
func (g *Genesis) Root() ledger.Bytes32 {
	return g.root
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}
