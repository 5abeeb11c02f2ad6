// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb implements kv.Store on goleveldb, on disk or in memory.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/provenet/ledger/kv"
)

var _ kv.GetPutCloser = (*LevelDB)(nil)

const (
	minCacheSize      = 16 // MiB
	minOpenFilesCache = 16
)

// Options tunes the leveldb instance. Values below the minimums are raised.
type Options struct {
	CacheSize              int // in MiB, split between block cache and write buffers
	OpenFilesCacheCapacity int
}

func (o Options) leveldb() *opt.Options {
	cacheMB := max(o.CacheSize, minCacheSize)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, minOpenFilesCache),
		BlockCacheCapacity:     cacheMB / 2 * opt.MiB,
		// two write buffers are in use at a time
		WriteBuffer: cacheMB / 4 * opt.MiB,
		Filter:      filter.NewBloomFilter(10),
	}
}

var (
	// snapshots and heads must survive a crash once written
	writeOpt = opt.WriteOptions{Sync: true}
	readOpt  = opt.ReadOptions{}
)

// LevelDB is a kv.Store backed by goleveldb.
type LevelDB struct {
	db *leveldb.DB
}

// New opens the database at path, creating it if absent.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open storage [%v]", path)
	}
	return open(stg, opts)
}

// NewMem creates a database kept in memory, used by tests and dry runs.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	db, err := leveldb.Open(stg, opts.leveldb())
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &LevelDB{db}, nil
}

func (l *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get returns the value of key, or an error satisfying IsNotFound.
func (l *LevelDB) Get(key []byte) ([]byte, error) {
	return l.db.Get(key, &readOpt)
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, &readOpt)
}

func (l *LevelDB) Put(key, value []byte) error {
	return l.db.Put(key, value, &writeOpt)
}

func (l *LevelDB) Delete(key []byte) error {
	return l.db.Delete(key, &writeOpt)
}

// Close releases the database. Any later call fails.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// NewBatch returns a batch applied atomically on Write.
func (l *LevelDB) NewBatch() kv.Batch {
	return &batch{db: l.db}
}

// NewIterator iterates keys in [r.Start, r.Limit).
func (l *LevelDB) NewIterator(r kv.Range) kv.Iterator {
	return l.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, &readOpt)
}

type batch struct {
	db *leveldb.DB
	leveldb.Batch
}

// Put and Delete shadow the leveldb.Batch methods to satisfy kv.Putter.

func (b *batch) Put(key, value []byte) error {
	b.Batch.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.Batch.Delete(key)
	return nil
}

func (b *batch) Write() error {
	return b.db.Write(&b.Batch, &writeOpt)
}
