// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/provenet/ledger/ledger"
)

// ActionType is the kind of side effect surfaced to the settlement layer.
type ActionType uint8

const (
	ActionWithdraw ActionType = iota + 1
	ActionReward
)

func (a ActionType) String() string {
	switch a {
	case ActionWithdraw:
		return "withdraw"
	case ActionReward:
		return "reward"
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *ActionType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "withdraw":
		*a = ActionWithdraw
	case "reward":
		*a = ActionReward
	default:
		return fmt.Errorf("unknown action %q", text)
	}
	return nil
}

// Action is applied by the settlement or staking layer once the batch is finalized.
type Action struct {
	Type    ActionType     `json:"type"`
	Account ledger.Address `json:"account"`
	Amount  *uint256.Int   `json:"amount"`
}

// Receipt is the result of one processed transaction.
type Receipt struct {
	TxID   uint64        `json:"txId"`
	Type   Type          `json:"type"`
	Status Status        `json:"status"`
	Reason string        `json:"reason,omitempty"` // revert reason code
	Data   hexutil.Bytes `json:"data"`             // echoed transaction data
	Action *Action       `json:"action,omitempty" rlp:"nil"`
}

// Settlement is the data echoed by a successful clear.
type Settlement struct {
	RequestID    ledger.Bytes32 `json:"requestId"`
	Requester    ledger.Address `json:"requester"`
	Prover       ledger.Address `json:"prover"`
	Cost         *uint256.Int   `json:"cost"`
	ProtocolFee  *uint256.Int   `json:"protocolFee"`
	StakerReward *uint256.Int   `json:"stakerReward"`
	OwnerReward  *uint256.Int   `json:"ownerReward"`
}
