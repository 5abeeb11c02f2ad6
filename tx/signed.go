// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/provenet/ledger/auth"
	"github.com/provenet/ledger/ledger"
)

// Signed is an encoded message body with its signature.
type Signed struct {
	Body      hexutil.Bytes `json:"body"`
	Signature hexutil.Bytes `json:"signature"`
}

// SignMessage encodes msg and signs it with key.
func SignMessage(msg Message, key *ecdsa.PrivateKey) (*Signed, error) {
	body, err := rlp.EncodeToBytes(msg)
	if err != nil {
		return nil, errors.Wrap(err, "encode message")
	}
	sig, err := auth.Sign(auth.SigningHash(msg.TypeTag(), body), key)
	if err != nil {
		return nil, err
	}
	return &Signed{Body: body, Signature: sig}, nil
}

// MustSignMessage is like SignMessage but panics on error.
func MustSignMessage(msg Message, key *ecdsa.PrivateKey) *Signed {
	s, err := SignMessage(msg, key)
	if err != nil {
		panic(err)
	}
	return s
}

// IsEmpty returns whether there's no body.
func (s *Signed) IsEmpty() bool {
	return s == nil || len(s.Body) == 0
}

// Decode decodes the body into msg. Trailing bytes are rejected.
func (s *Signed) Decode(msg Message) error {
	return rlp.DecodeBytes(s.Body, msg)
}

// SigningHash returns the hash signed under tag.
func (s *Signed) SigningHash(tag string) ledger.Bytes32 {
	return auth.SigningHash(tag, s.Body)
}

// Signer recovers the signer of the body under tag.
func (s *Signed) Signer(tag string) (ledger.Address, error) {
	return auth.Recover(s.SigningHash(tag), s.Signature)
}
