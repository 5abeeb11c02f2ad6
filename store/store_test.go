// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/lvldb"
	"github.com/provenet/ledger/state"
	"github.com/provenet/ledger/stf"
	"github.com/provenet/ledger/store"
	"github.com/provenet/ledger/tx"
	"github.com/provenet/ledger/verifier"
)

var alice = ledger.BytesToAddress([]byte("alice"))

func newGenesis() *state.Snapshot {
	return state.NewSnapshot(state.Globals{Domain: []byte("store-test"), ProtocolFeeBips: 100})
}

func execute(t *testing.T, s *store.Store, batch *tx.Batch) (*stf.Result, uint64) {
	base, err := s.HeadSnapshot()
	require.NoError(t, err)
	res, err := stf.New(verifier.NewRegistry()).ExecuteBatch(base, batch)
	require.NoError(t, err)
	n, err := s.Commit(batch, res.PublicValues, res.Stage.Snapshot())
	require.NoError(t, err)
	return res, n
}

func depositBatch(onchainID uint64, amount uint64) *tx.Batch {
	return &tx.Batch{
		Timestamp: 10 + onchainID,
		Transactions: []*tx.Transaction{
			tx.NewDeposit(tx.OnchainMeta{BlockNumber: onchainID, OnchainTxID: onchainID}, alice, uint256.NewInt(amount)),
		},
	}
}

func TestStore(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	genesis := newGenesis()
	genesisRoot, err := genesis.Root()
	require.NoError(t, err)

	s, err := store.Open(db, genesis)
	require.NoError(t, err)
	assert.Equal(t, store.Head{Root: genesisRoot}, s.Head())

	res1, n1 := execute(t, s, depositBatch(0, 10))
	res2, n2 := execute(t, s, depositBatch(1, 5))
	assert.Equal(t, uint64(1), n1)
	assert.Equal(t, uint64(2), n2)
	assert.Equal(t, store.Head{Number: 2, Root: res2.Stage.Root()}, s.Head())

	snap, err := s.Snapshot(res1.Stage.Root())
	require.NoError(t, err)
	assert.Equal(t, uint64(10), snap.Balance(alice).Uint64())

	rec, err := s.Record(2)
	require.NoError(t, err)
	assert.Equal(t, res2.PublicValues.Hash(), rec.PublicValues.Hash())
	assert.Equal(t, uint64(11), rec.Batch.Timestamp)

	_, err = s.Record(3)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	var numbers []uint64
	require.NoError(t, s.Records(0, func(n uint64, rec *store.Record) bool {
		numbers = append(numbers, n)
		return true
	}))
	assert.Equal(t, []uint64{1, 2}, numbers)

	// reopen picks up the head
	s, err = store.Open(db, genesis)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), s.Head().Number)
	head, err := s.HeadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(15), head.Balance(alice).Uint64())
	assert.Equal(t, uint64(2), head.Globals.OnchainTxID)
}

func TestCommitStaleBatch(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	s, err := store.Open(db, newGenesis())
	require.NoError(t, err)

	base, err := s.HeadSnapshot()
	require.NoError(t, err)
	batch := depositBatch(0, 1)
	res, err := stf.New(verifier.NewRegistry()).ExecuteBatch(base, batch)
	require.NoError(t, err)

	_, err = s.Commit(batch, res.PublicValues, res.Stage.Snapshot())
	require.NoError(t, err)
	_, err = s.Commit(batch, res.PublicValues, res.Stage.Snapshot())
	assert.Error(t, err)
	assert.Equal(t, uint64(1), s.Head().Number)
}

func TestApplied(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	s, err := store.Open(db, newGenesis())
	require.NoError(t, err)

	first, second := depositBatch(0, 5), depositBatch(1, 7)
	_, found, err := s.Applied(first.Hash())
	require.NoError(t, err)
	assert.False(t, found)

	execute(t, s, first)
	execute(t, s, second)

	n, found, err := s.Applied(second.Hash())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint64(2), n)

	// survives reopening
	s, err = store.Open(db, newGenesis())
	require.NoError(t, err)
	n, found, err = s.Applied(first.Hash())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint64(1), n)
}

func TestGenesisMismatch(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, err = store.Open(db, newGenesis())
	require.NoError(t, err)

	other := state.NewSnapshot(state.Globals{Domain: []byte("other")})
	_, err = store.Open(db, other)
	assert.Error(t, err)
}

func TestSnapshotNotFound(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	s, err := store.Open(db, newGenesis())
	require.NoError(t, err)
	_, err = s.Snapshot(ledger.Keccak256([]byte("nope")))
	assert.True(t, errors.Is(err, store.ErrNotFound))
}
