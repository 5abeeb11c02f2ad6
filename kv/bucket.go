// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket is a key prefix partitioning one physical store into logical ones.
type Bucket string

var keyPool = sync.Pool{
	New: func() any { return new([]byte) },
}

// withKey calls fn with the prefixed key. The key is only valid during fn.
func (b Bucket) withKey(key []byte, fn func(k []byte)) {
	buf := keyPool.Get().(*[]byte)
	defer keyPool.Put(buf)
	*buf = append(append((*buf)[:0], b...), key...)
	fn(*buf)
}

// NewStore returns a view of src restricted to the bucket.
// Batches created by the view are written into src.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{bucketPutter{b, src}, src}
}

// NewPutter returns a putter writing into dst under the bucket, typically a batch
// spanning several buckets.
func (b Bucket) NewPutter(dst Putter) Putter {
	return bucketPutter{b, dst}
}

type bucketPutter struct {
	b   Bucket
	dst Putter
}

func (p bucketPutter) Put(key, val []byte) (err error) {
	p.b.withKey(key, func(k []byte) { err = p.dst.Put(k, val) })
	return
}

func (p bucketPutter) Delete(key []byte) (err error) {
	p.b.withKey(key, func(k []byte) { err = p.dst.Delete(k) })
	return
}

type bucketStore struct {
	bucketPutter
	src Store
}

func (s *bucketStore) Get(key []byte) (val []byte, err error) {
	s.b.withKey(key, func(k []byte) { val, err = s.src.Get(k) })
	return
}

func (s *bucketStore) Has(key []byte) (has bool, err error) {
	s.b.withKey(key, func(k []byte) { has, err = s.src.Has(k) })
	return
}

func (s *bucketStore) IsNotFound(err error) bool { return s.src.IsNotFound(err) }

func (s *bucketStore) NewIterator(r Range) Iterator {
	prefix := []byte(s.b)
	prefixed := Range{Start: append(prefix[:len(prefix):len(prefix)], r.Start...)}
	if len(r.Limit) == 0 {
		prefixed.Limit = util.BytesPrefix(prefix).Limit
	} else {
		prefixed.Limit = append(prefix[:len(prefix):len(prefix)], r.Limit...)
	}
	return &bucketIterator{s.src.NewIterator(prefixed), len(prefix)}
}

func (s *bucketStore) NewBatch() Batch {
	batch := s.src.NewBatch()
	return &bucketBatch{bucketPutter{s.b, batch}, batch}
}

type bucketIterator struct {
	Iterator
	prefixLen int
}

// Key strips the bucket prefix.
func (it *bucketIterator) Key() []byte { return it.Iterator.Key()[it.prefixLen:] }

type bucketBatch struct {
	bucketPutter
	batch Batch
}

func (b *bucketBatch) Len() int     { return b.batch.Len() }
func (b *bucketBatch) Write() error { return b.batch.Write() }
