// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import "github.com/provenet/ledger/metrics"

var metricApplyDuration = metrics.LazyLoadHistogramVec(
	"batch_apply_duration_ms", []string{"status"}, metrics.Bucket10s,
)
