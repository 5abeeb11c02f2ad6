// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provenet/ledger/log"
)

func TestLRUGetOrLoad(t *testing.T) {
	c, err := NewLRU[string, int]("test", 2)
	require.NoError(t, err)

	loads := 0
	loader := func(k string) (int, error) {
		loads++
		if k == "bad" {
			return 0, errors.New("boom")
		}
		return len(k), nil
	}

	v, err := c.GetOrLoad("abc", loader)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = c.GetOrLoad("abc", loader)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, loads)

	_, err = c.GetOrLoad("bad", loader)
	assert.Error(t, err)
	assert.Equal(t, 1, c.Len())

	_, hit, miss := c.Stats().Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(2), miss)
}

func TestLRUEvicts(t *testing.T) {
	c, err := NewLRU[int, string]("test", 2)
	require.NoError(t, err)

	c.Add(1, "a")
	c.Add(2, "b")
	c.Get(1)
	c.Add(3, "c")

	_, ok := c.Get(2)
	assert.False(t, ok)
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, err = NewLRU[int, int]("test", 0)
	assert.Error(t, err)
}

func TestCacheStats(t *testing.T) {
	cs := &Stats{}
	cs.hit.Add(1)
	cs.miss.Add(1)
	_, hit, miss := cs.Stats()

	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	changed, _, _ := cs.Stats()
	assert.False(t, changed)

	cs.hit.Add(2)
	changed, _, _ = cs.Stats()
	assert.True(t, changed)
}

func TestLRUReportsStats(t *testing.T) {
	prev := log.Root()
	defer log.SetDefault(prev)

	var (
		buf   bytes.Buffer
		level slog.LevelVar
	)
	level.Set(slog.LevelDebug)
	log.SetDefault(log.NewLogger(log.LogfmtHandlerWithLevel(&buf, &level)))

	c, err := NewLRU[int, int]("signer", 4)
	require.NoError(t, err)
	c.Add(1, 1)

	for range reportInterval - 1 {
		c.Get(1)
	}
	assert.Zero(t, buf.Len())

	c.Get(1)
	assert.Contains(t, buf.String(), "cache stats")
	assert.Contains(t, buf.String(), "type=signer")
	assert.Contains(t, buf.String(), "hit=2000")

	// unchanged hit rate is not logged again
	buf.Reset()
	for range reportInterval {
		c.Get(1)
	}
	assert.Zero(t, buf.Len())
}
