// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"fmt"
	"strings"
)

// ProofMode is the kind of proof a requester asks for.
type ProofMode uint8

const (
	ProofModeCore ProofMode = iota + 1
	ProofModeCompressed
	ProofModePlonk
	ProofModeGroth16
)

var proofModeNames = map[ProofMode]string{
	ProofModeCore:       "core",
	ProofModeCompressed: "compressed",
	ProofModePlonk:      "plonk",
	ProofModeGroth16:    "groth16",
}

func (m ProofMode) String() string {
	if name, ok := proofModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// IsValid returns whether m is a known mode.
func (m ProofMode) IsValid() bool {
	_, ok := proofModeNames[m]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (m ProofMode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("unknown proof mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ProofMode) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for mode, name := range proofModeNames {
		if name == s {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown proof mode %q", s)
}
