// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/provenet/ledger/admin"
	"github.com/provenet/ledger/auth"
	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/store"
	"github.com/provenet/ledger/tx"
)

// batchOutput is printed for every committed batch.
type batchOutput struct {
	Number           uint64           `json:"number"`
	PublicValuesHash ledger.Bytes32   `json:"publicValuesHash"`
	PublicValues     *tx.PublicValues `json:"publicValues"`
}

func initAction(ctx *cli.Context) error {
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	head := n.store.Head()
	logger.Info("ledger initialized", "network", n.gene.Name(), "genesis", n.gene.Root(), "head", head.Number)
	return printJSON(head)
}

func runAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return usageErrorf(ctx, "no batch file given")
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	exitSignal := handleExitSignal()
	for _, path := range ctx.Args() {
		if err := applyFile(exitSignal, n, path); err != nil {
			return err
		}
	}
	return nil
}

// applyFile commits the batch in path. A batch already committed, e.g. by a serve loop
// interrupted before the file was moved, is skipped.
func applyFile(ctx context.Context, n *node, path string) error {
	batch, err := tx.LoadBatch(path)
	if err != nil {
		return err
	}
	num, applied, err := n.store.Applied(batch.Hash())
	if err != nil {
		return err
	}
	if applied {
		logger.Warn("batch already committed, skipped", "file", path, "number", num)
		return nil
	}
	num, pv, err := n.apply(ctx, batch)
	if err != nil {
		return errors.Wrapf(err, "apply %v", path)
	}
	logger.Info("batch committed", "file", path, "number", num, "txs", len(batch.Transactions), "root", pv.NewRoot)
	return printJSON(&batchOutput{num, pv.Hash(), pv})
}

func serveAction(ctx *cli.Context) error {
	inbox := ctx.String(inboxFlag.Name)
	if inbox == "" {
		return usageErrorf(ctx, "inbox directory not specified")
	}
	processed := filepath.Join(inbox, "processed")
	if err := os.MkdirAll(processed, 0o700); err != nil {
		return errors.Wrapf(err, "create dir [%v]", processed)
	}

	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	url, stop, err := admin.StartServer(ctx.String(adminAddrFlag.Name), admin.HTTPHandler(logLevel, n.store))
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping admin server..."); stop() }()
	logger.Info("admin server started", "url", url)

	exitSignal := handleExitSignal()
	ticker := time.NewTicker(ctx.Duration(pollIntervalFlag.Name))
	defer ticker.Stop()

	for {
		files, err := filepath.Glob(filepath.Join(inbox, "*.json"))
		if err != nil {
			return err
		}
		sort.Strings(files)
		for _, path := range files {
			if err := applyFile(exitSignal, n, path); err != nil {
				return err
			}
			if err := os.Rename(path, filepath.Join(processed, filepath.Base(path))); err != nil {
				return errors.Wrap(err, "move processed batch")
			}
		}

		select {
		case <-exitSignal.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func replayAction(ctx *cli.Context) error {
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	from := ctx.Uint64(fromFlag.Name)
	if from == 0 {
		from = 1
	}
	head := n.store.Head()
	if from > head.Number {
		fmt.Println("nothing to replay")
		return nil
	}

	fmt.Printf(">> Replaying batches %v..%v <<\n", from, head.Number)
	bar := pb.New64(int64(head.Number - from + 1)).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	var (
		exitSignal = handleExitSignal()
		replayErr  error
	)
	if err := n.store.Records(from, func(num uint64, rec *store.Record) bool {
		if replayErr = exitSignal.Err(); replayErr != nil {
			return false
		}
		if replayErr = n.replay(num, rec); replayErr != nil {
			return false
		}
		bar.Increment()
		return true
	}); err != nil {
		return err
	}
	if replayErr != nil {
		return replayErr
	}
	bar.Finish()
	return nil
}

// replay re-executes a committed batch on its recorded base and compares the outcome.
func (n *node) replay(num uint64, rec *store.Record) error {
	base, err := n.store.Snapshot(rec.PublicValues.OldRoot)
	if err != nil {
		return errors.Wrapf(err, "batch %v", num)
	}
	res, err := n.stf.ExecuteBatch(base, rec.Batch)
	if err != nil {
		return errors.Wrapf(err, "batch %v", num)
	}
	if got, want := res.PublicValues.Hash(), rec.PublicValues.Hash(); got != want {
		return errors.Errorf("batch %v: public values hash %v, committed %v", num, got, want)
	}
	return nil
}

func balanceAction(ctx *cli.Context) error {
	addr, err := ledger.ParseAddress(ctx.Args().First())
	if err != nil {
		return usageErrorf(ctx, "invalid address: %v", err)
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	snap, err := n.store.HeadSnapshot()
	if err != nil {
		return err
	}
	fmt.Println(snap.Balance(addr).Dec())
	return nil
}

func proverAction(ctx *cli.Context) error {
	vault, err := ledger.ParseAddress(ctx.Args().First())
	if err != nil {
		return usageErrorf(ctx, "invalid address: %v", err)
	}
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	snap, err := n.store.HeadSnapshot()
	if err != nil {
		return err
	}
	p, ok := snap.Provers[vault]
	if !ok {
		return errors.Errorf("prover %v not found", vault)
	}
	return printJSON(map[string]any{
		"vault":         vault,
		"owner":         p.Owner,
		"signer":        p.Signer,
		"stakerFeeBips": p.StakerFeeBips,
		"balance":       snap.Balance(vault).Dec(),
	})
}

func keygenAction(_ *cli.Context) error {
	key, err := auth.GenerateKey()
	if err != nil {
		return err
	}
	return printJSON(map[string]string{
		"address":    auth.Address(&key.PublicKey).String(),
		"privateKey": hex.EncodeToString(crypto.FromECDSA(key)),
	})
}
