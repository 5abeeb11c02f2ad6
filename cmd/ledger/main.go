// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/provenet/ledger/log"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger   = log.WithContext("pkg", "main")
	logLevel *slog.LevelVar
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "ledger",
		Usage:     "Settlement ledger of the ProveNet proof marketplace",
		Copyright: "2025 The ProveNet developers",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			cacheFlag,
			verbosityFlag,
			jsonLogsFlag,
			mockVerifierFlag,
			enableMetricsFlag,
		},
		Before: func(ctx *cli.Context) error {
			logLevel = initLogger(ctx)
			initMetrics(ctx)
			return nil
		},
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "write the genesis state into the data dir",
				Action: initAction,
			},
			{
				Name:      "run",
				Usage:     "execute batch files in order on top of the head and commit them",
				ArgsUsage: "<batch.json>...",
				Action:    runAction,
			},
			{
				Name:  "serve",
				Usage: "execute batch files as they appear in the inbox directory",
				Flags: []cli.Flag{
					inboxFlag,
					pollIntervalFlag,
					adminAddrFlag,
				},
				Action: serveAction,
			},
			{
				Name:   "replay",
				Usage:  "re-execute committed batches and check their public values",
				Flags:  []cli.Flag{fromFlag},
				Action: replayAction,
			},
			{
				Name:      "balance",
				Usage:     "print the balance of an account at the head",
				ArgsUsage: "<address>",
				Action:    balanceAction,
			},
			{
				Name:      "prover",
				Usage:     "print a registered prover at the head",
				ArgsUsage: "<vault address>",
				Action:    proverAction,
			},
			{
				Name:   "keygen",
				Usage:  "generate a signing key",
				Action: keygenAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}
