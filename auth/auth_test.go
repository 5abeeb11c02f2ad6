// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provenet/ledger/ledger"
)

func TestSigningHashSeparation(t *testing.T) {
	body := []byte{0xc3, 0x01, 0x02, 0x03}

	h1 := SigningHash("Transfer", body)
	h2 := SigningHash("Delegate", body)
	h3 := SigningHash("Transfer", append(body, 0))

	assert.NotEqual(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Equal(t, h1, SigningHash("Transfer", body))

	tag := ledger.Keccak256([]byte("Transfer"))
	b := ledger.Keccak256(body)
	assert.Equal(t, ledger.Keccak256([]byte{0x19, 0x01}, tag[:], b[:]), h1)
}

func TestSignRecover(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	addr := Address(&key.PublicKey)

	hash := SigningHash("Request", []byte("body"))
	sig, err := Sign(hash, key)
	require.NoError(t, err)
	require.Len(t, sig, 65)

	got, err := Recover(hash, sig)
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	// served from cache the second time
	r := NewRecoverer(8)
	_, err = r.Recover(hash, sig)
	require.NoError(t, err)
	got, err = r.Recover(hash, sig)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
	_, hit, _ := r.cache.Stats().Stats()
	assert.Equal(t, int64(1), hit)

	// another hash recovers someone else
	other, err := Recover(SigningHash("Request", []byte("other")), sig)
	if err == nil {
		assert.NotEqual(t, addr, other)
	}
}

func TestRecoverRejectsMalformed(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	hash := SigningHash("Bid", []byte{1})
	sig, err := Sign(hash, key)
	require.NoError(t, err)

	_, err = Recover(hash, sig[:64])
	assert.Equal(t, ErrSignatureLength, err)

	_, err = Recover(hash, nil)
	assert.Equal(t, ErrSignatureLength, err)

	badV := append([]byte(nil), sig...)
	badV[64] = 27
	_, err = Recover(hash, badV)
	assert.Equal(t, ErrSignatureValues, err)

	zeroR := append([]byte(nil), sig...)
	copy(zeroR[:32], make([]byte, 32))
	_, err = Recover(hash, zeroR)
	assert.Equal(t, ErrSignatureValues, err)

	// flip s to its high form: s' = n - s, with the recovery id toggled
	var s secp256k1.ModNScalar
	s.SetByteSlice(sig[32:64])
	s.Negate()
	high := append([]byte(nil), sig...)
	sb := s.Bytes()
	copy(high[32:64], sb[:])
	high[64] ^= 1
	_, err = Recover(hash, high)
	assert.Equal(t, ErrSignatureValues, err)
}
