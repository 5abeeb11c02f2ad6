// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fee

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provenet/ledger/ledger"
)

func TestSplitCost(t *testing.T) {
	tests := []struct {
		cost                     uint64
		protocolBips, stakerBips uint64
		protocol, staker, owner  uint64
	}{
		{1000, 200, 1000, 20, 98, 882},
		{0, 200, 1000, 0, 0, 0},
		{1, 200, 1000, 0, 0, 1},
		{999, 10000, 0, 999, 0, 0},
		{999, 0, 10000, 0, 999, 0},
		{12345, 333, 4999, 411, 5965, 5969},
	}
	for _, tt := range tests {
		s, err := SplitCost(uint256.NewInt(tt.cost), tt.protocolBips, tt.stakerBips)
		require.NoError(t, err)
		assert.Equal(t, tt.protocol, s.ProtocolFee.Uint64(), "protocol of %d", tt.cost)
		assert.Equal(t, tt.staker, s.StakerReward.Uint64(), "staker of %d", tt.cost)
		assert.Equal(t, tt.owner, s.OwnerReward.Uint64(), "owner of %d", tt.cost)
	}
}

func TestSplitCostConservation(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for range 500 {
		var (
			words        [4]uint64
			pBips, sBips uint16
		)
		f.Fuzz(&words)
		f.Fuzz(&pBips)
		f.Fuzz(&sBips)

		cost := new(uint256.Int)
		cost[0], cost[1], cost[2], cost[3] = words[0], words[1], words[2], words[3]

		s, err := SplitCost(cost, uint64(pBips)%(ledger.FeeUnit+1), uint64(sBips)%(ledger.FeeUnit+1))
		require.NoError(t, err)
		assert.Equal(t, cost, s.Total(), "split of %v", cost)
	}
}

func TestSplitCostInvalidBips(t *testing.T) {
	_, err := SplitCost(uint256.NewInt(1), 10001, 0)
	assert.ErrorIs(t, err, ErrInvalidBips)
	_, err = SplitCost(uint256.NewInt(1), 0, 10001)
	assert.ErrorIs(t, err, ErrInvalidBips)
}

func TestCost(t *testing.T) {
	c, err := Cost(uint256.NewInt(5), 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), c.Uint64())

	_, err = Cost(ledger.MaxAmount, 2)
	assert.Equal(t, ErrOverflow, err)

}

func TestPunishment(t *testing.T) {
	tests := []struct {
		name       string
		punishment *uint256.Int
		price      *uint256.Int
		want       *uint256.Int
	}{
		{"clamped to max cost", uint256.NewInt(500), uint256.NewInt(2), uint256.NewInt(200)},
		{"below bound", uint256.NewInt(50), uint256.NewInt(2), uint256.NewInt(50)},
		{"nil", nil, uint256.NewInt(2), uint256.NewInt(0)},
		{"bound beyond 256 bits", uint256.NewInt(10), ledger.MaxAmount, uint256.NewInt(10)},
		{"max punishment, bound beyond 256 bits", ledger.MaxAmount, ledger.MaxAmount, ledger.MaxAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Punishment(tt.punishment, tt.price, 100)
			assert.Equal(t, tt.want, got)
			if tt.punishment != nil {
				assert.NotSame(t, tt.punishment, got)
			}
		})
	}
}
