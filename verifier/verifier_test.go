// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provenet/ledger/ledger"
)

func TestDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry(HashBinding)

	vk := ledger.Keccak256([]byte("vk"))
	pv := ledger.Keccak256([]byte("pv"))

	tests := []struct {
		name  string
		claim *Claim
		err   error
	}{
		{"native ok", &Claim{Mode: ledger.ProofModeCompressed, VKHash: vk, PublicValuesHash: pv, Proof: HashBindingProof(vk, pv)}, nil},
		{"native bad proof", &Claim{Mode: ledger.ProofModeCompressed, VKHash: vk, PublicValuesHash: pv, Proof: []byte{1}}, ErrInvalidProof},
		{"attested ok", &Claim{Mode: ledger.ProofModeGroth16, PublicValuesHash: pv, AttestedHash: &pv}, nil},
		{"attested missing", &Claim{Mode: ledger.ProofModePlonk, PublicValuesHash: pv}, ErrMissingAttestation},
		{"attested mismatch", &Claim{Mode: ledger.ProofModeCore, PublicValuesHash: pv, AttestedHash: &vk}, ErrAttestationMismatch},
		{"unknown mode", &Claim{Mode: ledger.ProofMode(99)}, ErrUnsupportedMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Verify(tt.claim)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestAttestedModes(t *testing.T) {
	r := NewDefaultRegistry(Reject)

	v, err := r.Lookup(ledger.ProofModeCompressed)
	require.NoError(t, err)
	assert.False(t, v.Attested())
	assert.ErrorIs(t, v.Verify(&Claim{}), ErrInvalidProof)

	for _, mode := range []ledger.ProofMode{ledger.ProofModeCore, ledger.ProofModePlonk, ledger.ProofModeGroth16} {
		v, err := r.Lookup(mode)
		require.NoError(t, err)
		assert.True(t, v.Attested(), mode.String())
	}

	r.Register(ledger.ProofModePlonk, Native(HashBinding))
	v, err = r.Lookup(ledger.ProofModePlonk)
	require.NoError(t, err)
	assert.False(t, v.Attested())
}
