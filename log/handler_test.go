// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringer struct{ s string }

func (s *stringer) String() string { return s.s }

func TestJSONHandlerRewritesValues(t *testing.T) {
	var (
		buf   bytes.Buffer
		level slog.LevelVar
	)
	level.Set(slog.LevelInfo)
	l := NewLogger(JSONHandlerWithLevel(&buf, &level))

	var nilStringer *stringer
	l.Info("settled", "amount", uint256.NewInt(882), "who", &stringer{"owner"}, "none", nilStringer)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "INFO", rec["lvl"])
	assert.Equal(t, "settled", rec["msg"])
	assert.Equal(t, "882", rec["amount"])
	assert.Equal(t, "owner", rec["who"])
	assert.Equal(t, "<nil>", rec["none"])
	assert.Contains(t, rec, "t")
}

func TestLevelFilter(t *testing.T) {
	var (
		buf   bytes.Buffer
		level slog.LevelVar
	)
	level.Set(slog.LevelWarn)
	l := NewLogger(LogfmtHandlerWithLevel(&buf, &level))

	l.Debug("hidden")
	assert.Zero(t, buf.Len())
	assert.False(t, l.Enabled(slog.LevelInfo))

	l.Warn("shown", "k", 1)
	assert.Contains(t, buf.String(), "lvl=WARN")
	assert.Contains(t, buf.String(), "k=1")
}

func TestTerminalHandlerFollowsLevelVar(t *testing.T) {
	var (
		buf   bytes.Buffer
		level slog.LevelVar
	)
	level.Set(slog.LevelInfo)
	l := NewLogger(NewTerminalHandlerWithLevel(&buf, &level, false)).With("pkg", "stf")

	l.Debug("tx reverted")
	assert.Zero(t, buf.Len())
	assert.False(t, l.Enabled(slog.LevelDebug))

	level.Set(slog.LevelDebug)
	assert.True(t, l.Enabled(slog.LevelDebug))
	l.Debug("tx reverted", "txID", 3)
	assert.Contains(t, buf.String(), "tx reverted")
	assert.Contains(t, buf.String(), "pkg=stf")
	assert.Contains(t, buf.String(), "txID=3")

	buf.Reset()
	level.Set(slog.LevelError)
	l.Warn("batch aborted")
	assert.Zero(t, buf.Len())
}

func TestWithContextFollowsRoot(t *testing.T) {
	prev := Root()
	defer SetDefault(prev)

	pkgLogger := WithContext("pkg", "test")

	var (
		buf   bytes.Buffer
		level slog.LevelVar
	)
	level.Set(LevelTrace)
	SetDefault(NewLogger(LogfmtHandlerWithLevel(&buf, &level)))

	pkgLogger.With("batch", 7).Info("done")
	assert.Contains(t, buf.String(), "pkg=test")
	assert.Contains(t, buf.String(), "batch=7")
}

func TestLegacyLevels(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, slog.LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, "TRCE", LevelString(LevelTrace))

	lvl, ok := ParseLevel("DEBUG")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelDebug, lvl)
	_, ok = ParseLevel("loud")
	assert.False(t, ok)
}
