// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package verifier

import (
	"github.com/pkg/errors"

	"github.com/provenet/ledger/ledger"
)

// Registry maps proof modes to verifiers.
type Registry struct {
	verifiers map[ledger.ProofMode]Verifier
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{verifiers: make(map[ledger.ProofMode]Verifier)}
}

// NewDefaultRegistry verifies compressed proofs with nativeFn and every other mode by attestation.
func NewDefaultRegistry(nativeFn NativeFunc) *Registry {
	r := NewRegistry()
	r.Register(ledger.ProofModeCompressed, Native(nativeFn))
	r.Register(ledger.ProofModeCore, Attestation())
	r.Register(ledger.ProofModePlonk, Attestation())
	r.Register(ledger.ProofModeGroth16, Attestation())
	return r
}

// Register sets the verifier of mode, replacing any previous one.
func (r *Registry) Register(mode ledger.ProofMode, v Verifier) {
	r.verifiers[mode] = v
}

// Lookup returns the verifier of mode.
func (r *Registry) Lookup(mode ledger.ProofMode) (Verifier, error) {
	if v, ok := r.verifiers[mode]; ok {
		return v, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedMode, "mode %v", mode)
}

// Verify looks up the verifier of the claim's mode and runs it.
func (r *Registry) Verify(c *Claim) error {
	v, err := r.Lookup(c.Mode)
	if err != nil {
		return err
	}
	return v.Verify(c)
}
