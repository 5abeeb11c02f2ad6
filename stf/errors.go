// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stf

import (
	"fmt"

	"github.com/pkg/errors"
)

// Revert reason codes, surfaced in failed receipts.
const (
	ReasonMissingBody         = "missing-body"
	ReasonMalformedBody       = "malformed-body"
	ReasonUnknownType         = "unknown-type"
	ReasonBadSignature        = "bad-signature"
	ReasonUnauthorizedSigner  = "unauthorized-signer"
	ReasonDomainMismatch      = "domain-mismatch"
	ReasonInsufficientBalance = "insufficient-balance"
	ReasonMalformedAmount     = "malformed-amount"
	ReasonDuplicateMessage    = "duplicate-message"
	ReasonInvalidAddress      = "invalid-address"
	ReasonInvalidFeeBips      = "invalid-fee-bips"
	ReasonProverExists        = "prover-exists"
	ReasonVaultExists         = "vault-exists"
	ReasonUnknownProver       = "unknown-prover"
	ReasonDuplicateRequest    = "duplicate-request"
	ReasonRequestIDMismatch   = "request-id-mismatch"
	ReasonDeadlinePassed      = "deadline-passed"
	ReasonUnsupportedMode     = "unsupported-mode"
	ReasonNotWhitelisted      = "not-whitelisted"
	ReasonPriceTooHigh        = "price-too-high"
	ReasonAuctioneerMismatch  = "auctioneer-mismatch"
	ReasonSettleMismatch      = "settle-mismatch"
	ReasonInvalidStatus       = "invalid-status"
	ReasonPGUsExceeded        = "pgus-exceeded"
	ReasonCyclesExceeded      = "cycles-exceeded"
	ReasonCostOverflow        = "cost-overflow"
	ReasonPublicValues        = "public-values-mismatch"
	ReasonInvalidProof        = "invalid-proof"
)

// RevertError is a business rejection. The transaction fails and the batch goes on.
type RevertError struct {
	Step   string // sub-message of a clear, empty otherwise
	Code   string
	Detail string
}

// Reason returns the code, prefixed by the step if any.
func (e *RevertError) Reason() string {
	if e.Step == "" {
		return e.Code
	}
	return e.Step + "/" + e.Code
}

func (e *RevertError) Error() string {
	if e.Detail == "" {
		return "revert: " + e.Reason()
	}
	return fmt.Sprintf("revert: %v: %v", e.Reason(), e.Detail)
}

func revert(code string, format string, args ...any) *RevertError {
	return &RevertError{Code: code, Detail: fmt.Sprintf(format, args...)}
}

func revertStep(step, code string, format string, args ...any) *RevertError {
	return &RevertError{Step: step, Code: code, Detail: fmt.Sprintf(format, args...)}
}

// InvariantError is a violation of an invariant assumed to hold upstream.
// It aborts the whole batch.
type InvariantError struct {
	msg   string
	cause error
}

func (e *InvariantError) Error() string {
	if e.cause == nil {
		return "invariant violation: " + e.msg
	}
	return fmt.Sprintf("invariant violation: %v: %v", e.msg, e.cause)
}

func (e *InvariantError) Unwrap() error {
	return e.cause
}

func invariant(format string, args ...any) *InvariantError {
	return &InvariantError{msg: fmt.Sprintf(format, args...)}
}

func invariantCause(cause error, format string, args ...any) *InvariantError {
	return &InvariantError{msg: fmt.Sprintf(format, args...), cause: cause}
}

// IsRevert returns whether err is a business rejection.
func IsRevert(err error) bool {
	var r *RevertError
	return errors.As(err, &r)
}

// IsInvariant returns whether err is an invariant violation.
func IsInvariant(err error) bool {
	var i *InvariantError
	return errors.As(err, &i)
}

// ReasonOf returns the revert reason of err, or empty if err is not a revert.
func ReasonOf(err error) string {
	var r *RevertError
	if errors.As(err, &r) {
		return r.Reason()
	}
	return ""
}
