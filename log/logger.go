// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Extra levels on top of the slog ones, same values as go-ethereum uses.
const (
	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError
	LevelCrit  slog.Level = 12
)

// LevelString returns the short upper-case name of the level.
func LevelString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "TRCE"
	case slog.LevelDebug:
		return "DBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "EROR"
	case LevelCrit:
		return "CRIT"
	default:
		return "unknown"
	}
}

// FromLegacyLevel maps verbosity 0 (crit) .. 5 (trace) onto slog levels.
func FromLegacyLevel(lvl int) slog.Level {
	switch {
	case lvl <= 0:
		return LevelCrit
	case lvl == 1:
		return slog.LevelError
	case lvl == 2:
		return slog.LevelWarn
	case lvl == 3:
		return slog.LevelInfo
	case lvl == 4:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// ParseLevel parses a level name such as "info" or "debug".
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "trace", "trce":
		return LevelTrace, true
	case "debug", "dbug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error", "eror":
		return slog.LevelError, true
	case "crit":
		return LevelCrit, true
	}
	return slog.LevelInfo, false
}

// Logger writes key/value pairs to a Handler.
type Logger interface {
	With(ctx ...any) Logger

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	// Crit logs a message at crit level and exits the process.
	Crit(msg string, ctx ...any)

	Enabled(level slog.Level) bool
	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a logger with the specified handler set.
func NewLogger(h slog.Handler) Logger {
	return &logger{slog.New(h)}
}

func (l *logger) write(level slog.Level, msg string, ctx ...any) {
	l.inner.Log(context.Background(), level, msg, ctx...)
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(slog.LevelDebug, msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(slog.LevelInfo, msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(slog.LevelWarn, msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.write(slog.LevelError, msg, ctx...) }

func (l *logger) Crit(msg string, ctx ...any) {
	l.write(LevelCrit, msg, ctx...)
	os.Exit(1)
}

func (l *logger) Enabled(level slog.Level) bool {
	return l.inner.Enabled(context.Background(), level)
}

func (l *logger) Handler() slog.Handler {
	return l.inner.Handler()
}
