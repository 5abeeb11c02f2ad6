// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/state"
)

var (
	alice = ledger.BytesToAddress([]byte("alice"))
	bob   = ledger.BytesToAddress([]byte("bob"))
	vault = ledger.BytesToAddress([]byte("vault"))
)

func newState() *state.State {
	return state.New(state.NewSnapshot(state.Globals{Domain: []byte("test"), ProtocolFeeBips: 200}))
}

func TestBalance(t *testing.T) {
	st := newState()

	assert.True(t, st.GetBalance(alice).IsZero())
	require.NoError(t, st.AddBalance(alice, uint256.NewInt(100)))
	require.NoError(t, st.SubBalance(alice, uint256.NewInt(40)))
	assert.Equal(t, uint64(60), st.GetBalance(alice).Uint64())

	assert.Equal(t, state.ErrInsufficientBalance, st.SubBalance(alice, uint256.NewInt(61)))
	assert.Equal(t, uint64(60), st.GetBalance(alice).Uint64())

	st.SetBalance(bob, ledger.MaxAmount)
	assert.Equal(t, state.ErrBalanceOverflow, st.AddBalance(bob, uint256.NewInt(1)))

	// returned balances are copies
	st.GetBalance(alice).SetUint64(1)
	assert.Equal(t, uint64(60), st.GetBalance(alice).Uint64())
}

func TestCheckpoint(t *testing.T) {
	st := newState()
	require.NoError(t, st.AddBalance(alice, uint256.NewInt(10)))

	rev := st.NewCheckpoint()
	require.NoError(t, st.AddBalance(alice, uint256.NewInt(5)))
	st.SetProver(vault, &state.Prover{Owner: bob, Signer: bob, StakerFeeBips: 1000})
	st.ConsumeRequest(ledger.Keccak256([]byte("r")))

	g := st.Globals()
	g.TxID = 9
	st.SetGlobals(g)

	st.RevertTo(rev)
	assert.Equal(t, uint64(10), st.GetBalance(alice).Uint64())
	_, ok := st.GetProver(vault)
	assert.False(t, ok)
	_, ok = st.ProverOf(bob)
	assert.False(t, ok)
	assert.False(t, st.IsRequestConsumed(ledger.Keccak256([]byte("r"))))
	assert.Equal(t, uint64(0), st.Globals().TxID)

	// revert everything
	st.RevertTo(0)
	assert.True(t, st.GetBalance(alice).IsZero())
	require.NoError(t, st.AddBalance(alice, uint256.NewInt(1)))
}

func TestProvers(t *testing.T) {
	st := newState()
	st.SetProver(vault, &state.Prover{Owner: bob, Signer: bob, StakerFeeBips: 1000})

	p, ok := st.GetProver(vault)
	require.True(t, ok)
	assert.Equal(t, bob, p.Signer)

	got, ok := st.ProverOf(bob)
	require.True(t, ok)
	assert.Equal(t, vault, got)

	p.Signer = alice
	cur, _ := st.GetProver(vault)
	assert.Equal(t, bob, cur.Signer, "modifying a copy")

	st.SetProver(vault, p)
	cur, _ = st.GetProver(vault)
	assert.Equal(t, alice, cur.Signer)
}

func TestStage(t *testing.T) {
	st := newState()
	empty, err := st.Base().Root()
	require.NoError(t, err)

	require.NoError(t, st.AddBalance(alice, uint256.NewInt(100)))
	st.SetProver(vault, &state.Prover{Owner: bob, Signer: bob})
	st.ConsumeRequest(ledger.Keccak256([]byte("r")))
	st.ConsumeMessage(ledger.Keccak256([]byte("m")))

	stage, err := st.Stage()
	require.NoError(t, err)
	assert.NotEqual(t, empty, stage.Root())

	snap := stage.Snapshot()
	assert.Equal(t, uint64(100), snap.Balance(alice).Uint64())
	got, ok := snap.ProverOf(bob)
	assert.True(t, ok)
	assert.Equal(t, vault, got)

	// the base is left untouched
	assert.Empty(t, st.Base().Accounts)

	// a state on top of the staged snapshot sees the same data
	next := state.New(snap)
	assert.Equal(t, uint64(100), next.GetBalance(alice).Uint64())
	assert.True(t, next.IsRequestConsumed(ledger.Keccak256([]byte("r"))))
	assert.True(t, next.IsMessageConsumed(ledger.Keccak256([]byte("m"))))

	root, err := snap.Root()
	require.NoError(t, err)
	assert.Equal(t, stage.Root(), root)
}

func TestRootIgnoresZeroBalancesAndOrder(t *testing.T) {
	st1 := newState()
	require.NoError(t, st1.AddBalance(alice, uint256.NewInt(1)))
	require.NoError(t, st1.AddBalance(bob, uint256.NewInt(2)))

	st2 := newState()
	require.NoError(t, st2.AddBalance(bob, uint256.NewInt(2)))
	require.NoError(t, st2.AddBalance(alice, uint256.NewInt(1)))
	require.NoError(t, st2.AddBalance(vault, uint256.NewInt(3)))
	require.NoError(t, st2.SubBalance(vault, uint256.NewInt(3)))

	s1, err := st1.Stage()
	require.NoError(t, err)
	s2, err := st2.Stage()
	require.NoError(t, err)
	assert.Equal(t, s1.Root(), s2.Root())
	assert.NotContains(t, s2.Snapshot().Accounts, vault)
}

func TestSnapshotEncoding(t *testing.T) {
	st := newState()
	require.NoError(t, st.AddBalance(alice, uint256.NewInt(7)))
	require.NoError(t, st.AddBalance(bob, uint256.NewInt(8)))
	st.SetProver(vault, &state.Prover{Owner: bob, Signer: alice, StakerFeeBips: 5})
	st.ConsumeRequest(ledger.Keccak256([]byte("r1")))
	st.ConsumeRequest(ledger.Keccak256([]byte("r2")))

	stage, err := st.Stage()
	require.NoError(t, err)

	data, err := stage.Snapshot().Encode()
	require.NoError(t, err)

	snap, err := state.DecodeSnapshot(data)
	require.NoError(t, err)
	root, err := snap.Root()
	require.NoError(t, err)
	assert.Equal(t, stage.Root(), root)
	assert.Equal(t, []byte("test"), snap.Globals.Domain)

	again, err := snap.Encode()
	require.NoError(t, err)
	assert.Equal(t, data, again, "encoding is canonical")

	_, err = state.DecodeSnapshot([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestSnapshotAddProver(t *testing.T) {
	snap := state.NewSnapshot(state.Globals{})
	require.NoError(t, snap.AddProver(vault, state.Prover{Owner: bob, Signer: bob}))
	assert.Error(t, snap.AddProver(vault, state.Prover{Owner: alice}), "duplicate vault")
	assert.Error(t, snap.AddProver(alice, state.Prover{Owner: bob}), "duplicate owner")
}
