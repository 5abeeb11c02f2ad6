// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the ledger database",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Value: "devnet",
		Usage: "the network genesis (devnet) or the path to a genesis file (.json|.yaml)",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "megabytes of ram allocated to the database cache",
		Value: 256,
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	mockVerifierFlag = cli.BoolFlag{
		Name:  "mock-verifier",
		Usage: "accept compressed proofs bound to keccak256(vk || public values), for development only",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2112",
		Usage: "admin and metrics service listening address",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables prometheus metrics collection",
	}
	inboxFlag = cli.StringFlag{
		Name:  "inbox",
		Usage: "directory polled for batch files",
	}
	pollIntervalFlag = cli.DurationFlag{
		Name:  "poll-interval",
		Value: defaultPollInterval,
		Usage: "interval between inbox scans",
	}
	fromFlag = cli.Uint64Flag{
		Name:  "from",
		Value: 1,
		Usage: "first batch number to replay",
	}
)
