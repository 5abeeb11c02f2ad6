// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package verifier provides the proof verification capabilities consulted when a request is cleared.
// A capability is registered per proof mode; natively verifiable modes check the proof in process,
// the others rely on an attestation signed by the ledger verifier.
package verifier

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/provenet/ledger/ledger"
)

var (
	ErrUnsupportedMode     = errors.New("verifier: unsupported proof mode")
	ErrInvalidProof        = errors.New("verifier: invalid proof")
	ErrMissingAttestation  = errors.New("verifier: missing attestation")
	ErrAttestationMismatch = errors.New("verifier: attested public values mismatch")
)

// Claim is what a cleared request asserts about its proof.
type Claim struct {
	Mode             ledger.ProofMode
	RequestID        ledger.Bytes32
	VKHash           ledger.Bytes32
	PublicValuesHash ledger.Bytes32
	Proof            []byte
	// AttestedHash is the public values hash signed by the ledger verifier, nil if not attested.
	AttestedHash *ledger.Bytes32
}

// Verifier checks claims of one proof mode.
type Verifier interface {
	// Attested reports whether the mode requires a Verify attestation.
	Attested() bool
	Verify(c *Claim) error
}

// NativeFunc verifies a proof in process.
type NativeFunc func(vkHash, publicValuesHash ledger.Bytes32, proof []byte) error

type native struct {
	fn NativeFunc
}

// Native wraps an in-process proof verification function.
func Native(fn NativeFunc) Verifier {
	return &native{fn}
}

func (n *native) Attested() bool { return false }

func (n *native) Verify(c *Claim) error {
	if err := n.fn(c.VKHash, c.PublicValuesHash, c.Proof); err != nil {
		return errors.Wrap(ErrInvalidProof, err.Error())
	}
	return nil
}

type attestation struct{}

// Attestation accepts claims whose public values hash was attested by the ledger verifier.
func Attestation() Verifier {
	return attestation{}
}

func (attestation) Attested() bool { return true }

func (attestation) Verify(c *Claim) error {
	if c.AttestedHash == nil {
		return ErrMissingAttestation
	}
	if *c.AttestedHash != c.PublicValuesHash {
		return ErrAttestationMismatch
	}
	return nil
}

// HashBindingProof returns the proof accepted by HashBinding.
func HashBindingProof(vkHash, publicValuesHash ledger.Bytes32) []byte {
	h := ledger.Keccak256(vkHash[:], publicValuesHash[:])
	return h[:]
}

// HashBinding is a mock native verifier that accepts a proof equal to
// keccak256(vkHash || publicValuesHash). For development networks and tests.
func HashBinding(vkHash, publicValuesHash ledger.Bytes32, proof []byte) error {
	if !bytes.Equal(proof, HashBindingProof(vkHash, publicValuesHash)) {
		return errors.New("proof not bound to public values")
	}
	return nil
}

// Reject is a native verifier that never accepts, used when no native backend is configured.
func Reject(ledger.Bytes32, ledger.Bytes32, []byte) error {
	return errors.New("no native verifier configured")
}
