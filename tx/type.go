// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"strings"
)

// Type is the transaction variant.
type Type uint8

// Transaction types.
const (
	TypeDeposit Type = iota + 1
	TypeWithdraw
	TypeCreateProver
	TypeDelegate
	TypeTransfer
	TypeClear
)

var typeNames = map[Type]string{
	TypeDeposit:      "deposit",
	TypeWithdraw:     "withdraw",
	TypeCreateProver: "createProver",
	TypeDelegate:     "delegate",
	TypeTransfer:     "transfer",
	TypeClear:        "clear",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// IsValid returns whether t is a known type.
func (t Type) IsValid() bool {
	_, ok := typeNames[t]
	return ok
}

// IsOnchain returns whether transactions of this type originate from settlement layer events.
func (t Type) IsOnchain() bool {
	return t == TypeDeposit || t == TypeWithdraw || t == TypeCreateProver
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("unknown tx type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	for typ, name := range typeNames {
		if strings.EqualFold(name, string(text)) {
			*t = typ
			return nil
		}
	}
	return fmt.Errorf("unknown tx type %q", text)
}

// Status is the final status of a processed transaction.
type Status uint8

const (
	StatusFailed Status = iota
	StatusSuccess
)

func (s Status) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "failed"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "success":
		*s = StatusSuccess
	case "failed":
		*s = StatusFailed
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}
