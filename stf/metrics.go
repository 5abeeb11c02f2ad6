// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stf

import "github.com/provenet/ledger/metrics"

var (
	metricTxCount      = metrics.LazyLoadCounterVec("stf_tx_count", []string{"type", "status"})
	metricBatchCount   = metrics.LazyLoadCounter("stf_batch_count")
	metricBatchAborted = metrics.LazyLoadCounter("stf_batch_aborted_count")
	metricBatchSize    = metrics.LazyLoadHistogram("stf_batch_size", metrics.BucketBatchSize)
)
