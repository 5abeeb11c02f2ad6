// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import "github.com/provenet/ledger/metrics"

var (
	metricHeadNumber  = metrics.LazyLoadGauge("store_head_number")
	metricCommitCount = metrics.LazyLoadCounter("store_commit_count")
)
