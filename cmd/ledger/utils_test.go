// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provenet/ledger/genesis"
	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/lvldb"
	"github.com/provenet/ledger/stf"
	"github.com/provenet/ledger/store"
	"github.com/provenet/ledger/tx"
	"github.com/provenet/ledger/verifier"
)

func newTestNode(t *testing.T) *node {
	gene := genesis.NewDevnet()
	snap, err := gene.Build()
	require.NoError(t, err)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	s, err := store.Open(db, snap)
	require.NoError(t, err)

	n := &node{gene: gene, db: db, store: s, stf: stf.New(verifier.NewDefaultRegistry(verifier.HashBinding))}
	t.Cleanup(n.Close)
	return n
}

func TestApplyAndReplay(t *testing.T) {
	n := newTestNode(t)
	accs := genesis.DevAccounts()
	to := ledger.BytesToAddress([]byte("to"))

	transfer := tx.MustSignMessage(&tx.TransferMessage{
		To:     to,
		Amount: uint256.NewInt(42).Bytes(),
		Domain: []byte(genesis.DevnetDomain),
	}, accs[3].PrivateKey)

	batch := &tx.Batch{Timestamp: 1, Transactions: []*tx.Transaction{
		tx.NewDeposit(tx.OnchainMeta{BlockNumber: 1}, to, uint256.NewInt(8)),
		tx.NewTransfer(transfer),
	}}

	path := writeBatch(t, "0001.json", batch)
	require.NoError(t, applyFile(context.Background(), n, path))
	assert.Equal(t, uint64(1), n.store.Head().Number)

	snap, err := n.store.HeadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, uint64(50), snap.Balance(to).Uint64())

	rec, err := n.store.Record(1)
	require.NoError(t, err)
	assert.NoError(t, n.replay(1, rec))

	// a verifier rejecting every proof still reproduces a batch without clears
	n.stf = stf.New(verifier.NewDefaultRegistry(verifier.Reject))
	assert.NoError(t, n.replay(1, rec))

	// tampered records are detected
	rec.Batch.Transactions = rec.Batch.Transactions[:1]
	assert.Error(t, n.replay(1, rec))
}

func TestApplyFileTwice(t *testing.T) {
	n := newTestNode(t)
	accs := genesis.DevAccounts()

	transfer := tx.MustSignMessage(&tx.TransferMessage{
		To:     accs[4].Address,
		Amount: uint256.NewInt(1).Bytes(),
		Domain: []byte(genesis.DevnetDomain),
	}, accs[3].PrivateKey)
	offchain := writeBatch(t, "0001.json", &tx.Batch{Timestamp: 1, Transactions: []*tx.Transaction{tx.NewTransfer(transfer)}})
	onchain := writeBatch(t, "0002.json", &tx.Batch{Timestamp: 2, Transactions: []*tx.Transaction{
		tx.NewDeposit(tx.OnchainMeta{BlockNumber: 1}, accs[4].Address, uint256.NewInt(8)),
	}})

	for range 2 {
		require.NoError(t, applyFile(context.Background(), n, offchain))
		require.NoError(t, applyFile(context.Background(), n, onchain))
	}
	assert.Equal(t, uint64(2), n.store.Head().Number)
}

func writeBatch(t *testing.T, name string, batch *tx.Batch) string {
	path := filepath.Join(t.TempDir(), name)
	data, err := json.Marshal(batch)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestApplyInvariantViolation(t *testing.T) {
	n := newTestNode(t)
	batch := &tx.Batch{Transactions: []*tx.Transaction{
		tx.NewDeposit(tx.OnchainMeta{OnchainTxID: 3}, ledger.Address{}, uint256.NewInt(1)),
	}}
	_, _, err := n.apply(context.Background(), batch)
	assert.True(t, stf.IsInvariant(err))
	assert.Equal(t, uint64(0), n.store.Head().Number)
}
