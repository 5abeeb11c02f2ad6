// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package auth implements the typed, domain separated signatures carried by offchain
// ledger messages and the recovery of their signers.
package auth

import (
	"crypto/ecdsa"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/provenet/ledger/cache"
	"github.com/provenet/ledger/ledger"
)

const signerCacheSize = 4096

// typedPrefix is the structured data prefix, so a signing hash never collides with a
// raw transaction or a personal message hash.
var typedPrefix = []byte{0x19, 0x01}

var (
	ErrSignatureLength = errors.New("invalid signature length")
	ErrSignatureValues = errors.New("invalid signature values")
)

// SigningHash computes the hash signed for a message with the given type tag and rlp body.
// The domain is part of the body.
func SigningHash(tag string, body []byte) ledger.Bytes32 {
	tagHash := ledger.Keccak256([]byte(tag))
	bodyHash := ledger.Keccak256(body)
	return ledger.Keccak256(typedPrefix, tagHash[:], bodyHash[:])
}

// Sign signs the hash with the given private key. The signature is [R || S || V] where V is 0 or 1.
func Sign(hash ledger.Bytes32, key *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(hash[:], key)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return sig, nil
}

// Address returns the ledger address of the public key.
func Address(pub *ecdsa.PublicKey) ledger.Address {
	return ledger.Address(crypto.PubkeyToAddress(*pub))
}

// GenerateKey creates a fresh secp256k1 private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	defer priv.Zero()
	return crypto.ToECDSA(priv.Serialize())
}

// Recoverer recovers signer addresses, caching results by (hash, signature).
type Recoverer struct {
	cache *cache.LRU[ledger.Bytes32, ledger.Address]
}

// NewRecoverer creates a recoverer with a cache of the given size.
func NewRecoverer(cacheSize int) *Recoverer {
	c, err := cache.NewLRU[ledger.Bytes32, ledger.Address]("signer", cacheSize)
	if err != nil {
		panic(err)
	}
	return &Recoverer{c}
}

// Recover returns the address that produced sig over hash.
// Only canonical low-s signatures with a recovery id of 0 or 1 are accepted.
func (r *Recoverer) Recover(hash ledger.Bytes32, sig []byte) (ledger.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return ledger.Address{}, ErrSignatureLength
	}
	key := ledger.Keccak256(hash[:], sig)
	return r.cache.GetOrLoad(key, func(ledger.Bytes32) (ledger.Address, error) {
		return recoverSigner(hash, sig)
	})
}

func recoverSigner(hash ledger.Bytes32, sig []byte) (ledger.Address, error) {
	var (
		r = new(secp256k1.ModNScalar)
		s = new(secp256k1.ModNScalar)
	)
	if overflow := r.SetByteSlice(sig[:32]); overflow || r.IsZero() {
		return ledger.Address{}, ErrSignatureValues
	}
	if overflow := s.SetByteSlice(sig[32:64]); overflow || s.IsZero() || s.IsOverHalfOrder() {
		return ledger.Address{}, ErrSignatureValues
	}
	if v := sig[64]; v != 0 && v != 1 {
		return ledger.Address{}, ErrSignatureValues
	}

	pub, err := crypto.SigToPub(hash[:], sig)
	if err != nil {
		return ledger.Address{}, errors.Wrap(err, "recover")
	}
	return Address(pub), nil
}

var defaultRecoverer = NewRecoverer(signerCacheSize)

// Recover recovers the signer through the shared cache.
func Recover(hash ledger.Bytes32, sig []byte) (ledger.Address, error) {
	return defaultRecoverer.Recover(hash, sig)
}
