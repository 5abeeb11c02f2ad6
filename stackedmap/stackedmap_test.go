// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/provenet/ledger/stackedmap"
)

type result struct {
	value string
	found bool
}

func get(sm *stackedmap.StackedMap[string, string], key string) result {
	v, ok := sm.Get(key)
	return result{v, ok}
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := make(map[string]string)
	src["foo"] = "bar"

	sm := stackedmap.New(func(key string) (string, bool) {
		v, r := src[key]
		return v, r
	})
	sm.Push()

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn result
	}{
		{func() {}, 1, "", "", "foo", result{"bar", true}},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", result{"baz", true}},
		{func() {}, 2, "foo", "baz1", "foo", result{"baz1", true}},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", result{"qux", true}},
		{func() { sm.Pop() }, 2, "", "", "foo", result{"baz1", true}},
		{func() { sm.Pop() }, 1, "", "", "foo", result{"bar", true}},
		{func() {}, 1, "", "", "missing", result{"", false}},

		{func() { sm.Push(); sm.Push() }, 3, "", "", "", result{}},
		{func() { sm.PopTo(0) }, 0, "", "", "", result{}},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(test.getReturn, get(sm, test.getKey))
		}
	}
}

func TestStackedMapRepeatedPutThenPop(t *testing.T) {
	sm := stackedmap.New(func(string) (string, bool) { return "", false })
	sm.Push()
	sm.Put("k", "v0")

	rev := sm.Push()
	sm.Put("k", "v1")
	sm.Put("k", "v2")
	assert.Equal(t, result{"v2", true}, get(sm, "k"))

	sm.PopTo(rev)
	assert.Equal(t, result{"v0", true}, get(sm, "k"))

	sm.Pop()
	assert.Equal(t, result{"", false}, get(sm, "k"))
}

func TestStackedMapPuts(t *testing.T) {
	assert := assert.New(t)
	sm := stackedmap.New(func(string) (string, bool) {
		return "", false
	})

	kvs := []struct {
		k, v string
	}{
		{"a", "b"},
		{"a", "b"},
		{"a1", "b1"},
		{"a2", "b2"},
		{"a3", "b3"},
		{"a4", "b4"},
	}

	for _, kv := range kvs {
		sm.Push()
		sm.Put(kv.k, kv.v)
	}
	i := 0
	sm.Journal(func(k, v string) bool {
		assert.Equal(kvs[i].k, k)
		assert.Equal(kvs[i].v, v)
		i++
		return true
	})
	assert.Equal(len(kvs), i, "Journal should traverse all entries")

	i = 0
	sm.Journal(func(k, v string) bool {
		i++
		return false
	})

	assert.Equal(1, i, "Journal traverse should abort")
}
