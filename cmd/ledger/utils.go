// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/provenet/ledger/genesis"
	"github.com/provenet/ledger/log"
	"github.com/provenet/ledger/lvldb"
	"github.com/provenet/ledger/metrics"
	"github.com/provenet/ledger/stf"
	"github.com/provenet/ledger/store"
	"github.com/provenet/ledger/tx"
	"github.com/provenet/ledger/verifier"
)

const defaultPollInterval = 2 * time.Second

func initLogger(ctx *cli.Context) *slog.LevelVar {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, &level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, &level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return &level
}

func initMetrics(ctx *cli.Context) {
	if ctx.GlobalBool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	network := ctx.GlobalString(genesisFlag.Name)
	switch network {
	case "":
		return nil, errors.New("genesis not specified")
	case "devnet":
		return genesis.NewDevnet(), nil
	default:
		cfg, err := genesis.LoadConfig(network)
		if err != nil {
			return nil, err
		}
		return genesis.NewCustomNet(cfg)
	}
}

func openDB(ctx *cli.Context, dir string) (*lvldb.LevelDB, error) {
	cacheMB := ctx.GlobalInt(cacheFlag.Name)

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if cacheMB > limitMB {
			cacheMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dir)
	}
	return lvldb.New(filepath.Join(dir, "ledger.db"), lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 64,
	})
}

// node bundles what a command needs to read and extend the ledger.
type node struct {
	gene  *genesis.Genesis
	db    *lvldb.LevelDB
	store *store.Store
	stf   *stf.STF
}

func openNode(ctx *cli.Context) (*node, error) {
	gene, err := selectGenesis(ctx)
	if err != nil {
		return nil, err
	}
	genesisSnap, err := gene.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build genesis")
	}

	db, err := openDB(ctx, ctx.GlobalString(dataDirFlag.Name))
	if err != nil {
		return nil, err
	}
	s, err := store.Open(db, genesisSnap)
	if err != nil {
		db.Close()
		return nil, err
	}

	nativeFn := verifier.Reject
	if ctx.GlobalBool(mockVerifierFlag.Name) {
		logger.Warn("mock proof verifier enabled")
		nativeFn = verifier.HashBinding
	}
	return &node{
		gene:  gene,
		db:    db,
		store: s,
		stf:   stf.New(verifier.NewDefaultRegistry(nativeFn)),
	}, nil
}

func (n *node) Close() {
	logger.Debug("closing database...")
	if err := n.db.Close(); err != nil {
		logger.Warn("failed to close database", "err", err)
	}
}

// apply executes the batch on top of the head and commits it.
func (n *node) apply(ctx context.Context, batch *tx.Batch) (num uint64, pv *tx.PublicValues, err error) {
	startTime := time.Now()
	defer func() {
		status := "committed"
		if err != nil {
			status = "failed"
		}
		metricApplyDuration().ObserveWithLabels(time.Since(startTime).Milliseconds(), map[string]string{"status": status})
	}()

	if _, err := tx.PrefetchSigners(ctx, batch); err != nil {
		return 0, nil, err
	}
	base, err := n.store.HeadSnapshot()
	if err != nil {
		return 0, nil, err
	}
	res, err := n.stf.ExecuteBatch(base, batch)
	if err != nil {
		return 0, nil, err
	}
	num, err = n.store.Commit(batch, res.PublicValues, res.Stage.Snapshot())
	if err != nil {
		return 0, nil, err
	}
	return num, res.PublicValues, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "ProveNet", "ledger")
		}
		return filepath.Join(home, ".provenet", "ledger")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func usageErrorf(ctx *cli.Context, format string, args ...any) error {
	cli.ShowCommandHelp(ctx, ctx.Command.Name)
	return fmt.Errorf(format, args...)
}
