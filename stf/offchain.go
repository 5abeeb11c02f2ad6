// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stf

import (
	"bytes"

	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/tx"
)

// authorizer checks the recovered signer of a decoded message.
type authorizer func(signer ledger.Address) error

// open runs the validation pipeline of one signed message:
// decode, recover signer, check expected signer, check domain.
// The first failure is returned.
func open(step string, s *tx.Signed, msg tx.Message, domain []byte, authorize authorizer) (ledger.Address, error) {
	if s.IsEmpty() {
		return ledger.Address{}, revertStep(step, ReasonMissingBody, "")
	}
	if err := s.Decode(msg); err != nil {
		return ledger.Address{}, revertStep(step, ReasonMalformedBody, "%v", err)
	}
	signer, err := s.Signer(msg.TypeTag())
	if err != nil {
		return ledger.Address{}, revertStep(step, ReasonBadSignature, "%v", err)
	}
	if authorize != nil {
		if err := authorize(signer); err != nil {
			return ledger.Address{}, err
		}
	}
	if !bytes.Equal(msg.GetDomain(), domain) {
		return ledger.Address{}, revertStep(step, ReasonDomainMismatch, "%x", msg.GetDomain())
	}
	return signer, nil
}

// expectSigner authorizes only the given address.
func expectSigner(step string, expected ledger.Address) authorizer {
	return func(signer ledger.Address) error {
		if signer != expected {
			return revertStep(step, ReasonUnauthorizedSigner, "signer %v, want %v", signer, expected)
		}
		return nil
	}
}

// delegate replaces the delegated signer of a prover. Signed by the prover owner.
func (f *STF) delegate(e *env, signed *tx.Signed) (*outcome, error) {
	var msg tx.DelegateMessage
	_, err := open("", signed, &msg, e.globals.Domain, func(signer ledger.Address) error {
		p, ok := e.state.GetProver(msg.Prover)
		if !ok {
			return revert(ReasonUnknownProver, "%v", msg.Prover)
		}
		return expectSigner("", p.Owner)(signer)
	})
	if err != nil {
		return nil, err
	}

	digest := signed.SigningHash(msg.TypeTag())
	if e.state.IsMessageConsumed(digest) {
		return nil, revert(ReasonDuplicateMessage, "%v", digest)
	}
	e.state.ConsumeMessage(digest)

	p, _ := e.state.GetProver(msg.Prover)
	p.Signer = msg.Signer
	e.state.SetProver(msg.Prover, p)
	return &outcome{}, nil
}

// transfer moves funds from the signer to the recipient. Zero amount and self transfers
// change no balance.
func (f *STF) transfer(e *env, signed *tx.Signed) (*outcome, error) {
	var msg tx.TransferMessage
	from, err := open("", signed, &msg, e.globals.Domain, nil)
	if err != nil {
		return nil, err
	}
	amount, err := msg.Value()
	if err != nil {
		return nil, revert(ReasonMalformedAmount, "%v", err)
	}

	digest := signed.SigningHash(msg.TypeTag())
	if e.state.IsMessageConsumed(digest) {
		return nil, revert(ReasonDuplicateMessage, "%v", digest)
	}
	e.state.ConsumeMessage(digest)

	if amount.IsZero() || from == msg.To {
		return &outcome{}, nil
	}
	if err := e.state.SubBalance(from, amount); err != nil {
		return nil, revert(ReasonInsufficientBalance, "transfer %v from %v", amount, from)
	}
	if err := credit(e.state, msg.To, amount); err != nil {
		return nil, err
	}
	return &outcome{}, nil
}
