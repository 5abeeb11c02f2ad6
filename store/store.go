// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package store persists ledger snapshots and executed batches.
package store

import (
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/qianbin/drlp"

	"github.com/provenet/ledger/cache"
	"github.com/provenet/ledger/kv"
	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/log"
	"github.com/provenet/ledger/state"
	"github.com/provenet/ledger/tx"
)

const (
	snapshotBucket = kv.Bucket("s") // root => encoded snapshot
	batchBucket    = kv.Bucket("b") // batch number => batch record
	propBucket     = kv.Bucket("p") // named properties
	appliedBucket  = kv.Bucket("a") // batch hash => batch number

	snapshotCacheSize = 16
)

var (
	headKey    = []byte("head")
	genesisKey = []byte("genesis")

	logger = log.WithContext("pkg", "store")

	// ErrNotFound is returned when a snapshot or batch is absent.
	ErrNotFound = errors.New("not found")
)

// Head is the latest committed batch. Number zero refers to the genesis snapshot.
type Head struct {
	Number uint64
	Root   ledger.Bytes32
}

// Record is a committed batch with its public values.
type Record struct {
	Batch        *tx.Batch
	PublicValues *tx.PublicValues
}

// Store keeps snapshots by root and batches by number.
//
// It's thread-safe.
type Store struct {
	db        kv.Store
	snapshots kv.Store
	batches   kv.Store
	props     kv.Store
	applied   kv.Store

	mu        sync.Mutex
	head      Head
	snapCache *cache.LRU[ledger.Bytes32, *state.Snapshot]
}

// Open opens the store on db. An empty db is initialized with genesis, otherwise
// the stored genesis root must match.
func Open(db kv.Store, genesis *state.Snapshot) (*Store, error) {
	snapCache, err := cache.NewLRU[ledger.Bytes32, *state.Snapshot]("snapshot", snapshotCacheSize)
	if err != nil {
		return nil, err
	}
	s := &Store{
		db:        db,
		snapshots: snapshotBucket.NewStore(db),
		batches:   batchBucket.NewStore(db),
		props:     propBucket.NewStore(db),
		applied:   appliedBucket.NewStore(db),
		snapCache: snapCache,
	}

	genesisRoot, err := genesis.Root()
	if err != nil {
		return nil, errors.Wrap(err, "genesis root")
	}

	var stored ledger.Bytes32
	if err := loadRLP(s.props, genesisKey, &stored); err != nil {
		if !s.props.IsNotFound(err) {
			return nil, errors.Wrap(err, "load genesis")
		}

		w := db.NewBatch()
		if err := saveSnapshot(snapshotBucket.NewPutter(w), genesisRoot, genesis); err != nil {
			return nil, err
		}
		if err := saveRLP(propBucket.NewPutter(w), genesisKey, genesisRoot); err != nil {
			return nil, err
		}
		s.head = Head{Root: genesisRoot}
		if err := saveRLP(propBucket.NewPutter(w), headKey, &s.head); err != nil {
			return nil, err
		}
		if err := w.Write(); err != nil {
			return nil, errors.Wrap(err, "write genesis")
		}
		logger.Info("initialized store", "genesis", genesisRoot)
	} else {
		if stored != genesisRoot {
			return nil, errors.Errorf("genesis mismatch: stored %v, given %v", stored, genesisRoot)
		}
		if err := loadRLP(s.props, headKey, &s.head); err != nil {
			return nil, errors.Wrap(err, "load head")
		}
	}
	metricHeadNumber().Set(int64(s.head.Number))
	return s, nil
}

// Head returns the latest committed batch.
func (s *Store) Head() Head {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.head
}

// Snapshot loads the snapshot committed under root. The decoded snapshot is checked against root.
// The returned snapshot must not be modified.
func (s *Store) Snapshot(root ledger.Bytes32) (*state.Snapshot, error) {
	return s.snapCache.GetOrLoad(root, func(root ledger.Bytes32) (*state.Snapshot, error) {
		data, err := s.snapshots.Get(root[:])
		if err != nil {
			if s.snapshots.IsNotFound(err) {
				return nil, errors.Wrapf(ErrNotFound, "snapshot %v", root)
			}
			return nil, err
		}
		snap, err := state.DecodeSnapshot(data)
		if err != nil {
			return nil, errors.Wrapf(err, "decode snapshot %v", root)
		}
		actual, err := snap.Root()
		if err != nil {
			return nil, err
		}
		if actual != root {
			return nil, errors.Errorf("corrupted snapshot: root %v, want %v", actual, root)
		}
		return snap, nil
	})
}

// HeadSnapshot returns the snapshot of the head.
func (s *Store) HeadSnapshot() (*state.Snapshot, error) {
	return s.Snapshot(s.Head().Root)
}

// Record loads the committed batch of the given number, which starts from 1.
func (s *Store) Record(number uint64) (*Record, error) {
	var rec Record
	if err := loadRLP(s.batches, batchKey(number), &rec); err != nil {
		if s.batches.IsNotFound(err) {
			return nil, errors.Wrapf(ErrNotFound, "batch %v", number)
		}
		return nil, err
	}
	return &rec, nil
}

// Commit stores the batch executed on top of the head, along with the resulting snapshot,
// and advances the head. It returns the number assigned to the batch.
func (s *Store) Commit(batch *tx.Batch, pv *tx.PublicValues, snap *state.Snapshot) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pv.OldRoot != s.head.Root {
		return 0, errors.Errorf("batch executed on %v, head is %v", pv.OldRoot, s.head.Root)
	}

	head := Head{Number: s.head.Number + 1, Root: pv.NewRoot}
	w := s.db.NewBatch()
	if err := saveSnapshot(snapshotBucket.NewPutter(w), head.Root, snap); err != nil {
		return 0, err
	}
	if err := saveRLP(batchBucket.NewPutter(w), batchKey(head.Number), &Record{batch, pv}); err != nil {
		return 0, err
	}
	batchHash := batch.Hash()
	if err := saveRLP(appliedBucket.NewPutter(w), batchHash[:], head.Number); err != nil {
		return 0, err
	}
	if err := saveRLP(propBucket.NewPutter(w), headKey, &head); err != nil {
		return 0, err
	}
	if err := w.Write(); err != nil {
		return 0, errors.Wrap(err, "write batch")
	}

	s.head = head
	s.snapCache.Add(head.Root, snap)
	metricHeadNumber().Set(int64(head.Number))
	metricCommitCount().Add(1)
	logger.Debug("committed batch", "number", head.Number, "root", head.Root, "txs", len(batch.Transactions))
	return head.Number, nil
}

// Applied returns the number under which a batch with the given hash was committed.
// The record is written together with the head, so a batch is either committed and
// found here or not committed at all.
func (s *Store) Applied(batchHash ledger.Bytes32) (uint64, bool, error) {
	var number uint64
	if err := loadRLP(s.applied, batchHash[:], &number); err != nil {
		if s.applied.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, "load applied batch")
	}
	return number, true, nil
}

// Records iterates committed batches in ascending number from start, until fn returns false.
func (s *Store) Records(start uint64, fn func(number uint64, rec *Record) bool) error {
	last := s.Head().Number
	for n := start; n <= last; n++ {
		if n == 0 {
			continue
		}
		rec, err := s.Record(n)
		if err != nil {
			return err
		}
		if !fn(n, rec) {
			return nil
		}
	}
	return nil
}

func batchKey(number uint64) []byte {
	return drlp.AppendUint(nil, number)
}

func saveSnapshot(w kv.Putter, root ledger.Bytes32, snap *state.Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	return w.Put(root[:], data)
}

func saveRLP(w kv.Putter, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r kv.Getter, key []byte, val any) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}
