// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressText(t *testing.T) {
	addr := BytesToAddress([]byte("owner"))

	data, err := json.Marshal(map[string]Address{"a": addr})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"0x0000000000000000000000000000006f776e6572"}`, string(data))

	var decoded map[string]Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded["a"])

	_, err = ParseAddress("0x1234")
	assert.Error(t, err)
	assert.True(t, Address{}.IsZero())
	assert.Equal(t, -1, Address{}.Compare(addr))
}

func TestProofModeText(t *testing.T) {
	var m ProofMode
	require.NoError(t, m.UnmarshalText([]byte("Groth16")))
	assert.Equal(t, ProofModeGroth16, m)
	assert.Error(t, m.UnmarshalText([]byte("stark")))

	_, err := ProofMode(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "mode(9)", ProofMode(9).String())
}

func TestMaxAmount(t *testing.T) {
	assert.True(t, IsMaxAmount(new(uint256.Int).SetAllOne()))
	assert.False(t, IsMaxAmount(uint256.NewInt(1)))
	assert.False(t, IsMaxAmount(nil))
}
