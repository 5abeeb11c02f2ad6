// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/json"
	"os"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/provenet/ledger/ledger"
)

// Batch is an ordered list of transactions processed as one unit.
type Batch struct {
	Timestamp    uint64         `json:"timestamp"` // compared against request deadlines
	Transactions []*Transaction `json:"transactions"`
}

// LoadBatch reads a JSON batch file.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read batch")
	}
	var b Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrapf(err, "decode batch %v", path)
	}
	return &b, nil
}

// Hash returns the keccak hash of the rlp encoded batch.
func (b *Batch) Hash() ledger.Bytes32 {
	data, err := rlp.EncodeToBytes(b)
	if err != nil {
		panic(err)
	}
	return ledger.Keccak256(data)
}

// PublicValues is the committed output of a batch.
type PublicValues struct {
	OldRoot   ledger.Bytes32 `json:"oldRoot"`
	NewRoot   ledger.Bytes32 `json:"newRoot"`
	Timestamp uint64         `json:"timestamp"`
	Receipts  []*Receipt     `json:"receipts"`
}

// Hash returns the keccak hash of the rlp encoded public values.
func (pv *PublicValues) Hash() ledger.Bytes32 {
	data, err := rlp.EncodeToBytes(pv)
	if err != nil {
		panic(err)
	}
	return ledger.Keccak256(data)
}
