// Copyright (c) 2025 The ProveNet developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stf

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/provenet/ledger/fee"
	"github.com/provenet/ledger/ledger"
	"github.com/provenet/ledger/state"
	"github.com/provenet/ledger/tx"
	"github.com/provenet/ledger/verifier"
)

// steps of a clear.
const (
	stepRequest = "request"
	stepBid     = "bid"
	stepSettle  = "settle"
	stepExecute = "execute"
	stepFulfill = "fulfill"
	stepVerify  = "verify"
)

// clearing carries what the validated messages of a clear established so far.
type clearing struct {
	e *env
	c *tx.Clear

	requester ledger.Address
	requestID ledger.Bytes32
	request   tx.RequestMessage
	vault     ledger.Address
	prover    *state.Prover
	bid       tx.BidMessage
	execute   tx.ExecuteMessage
	cost      *uint256.Int
	verifier  verifier.Verifier
}

func (cl *clearing) checkRequestID(step string, id ledger.Bytes32) error {
	if id != cl.requestID {
		return revertStep(step, ReasonRequestIDMismatch, "%v, want %v", id, cl.requestID)
	}
	return nil
}

// clear settles an auctioned request. Each step validates one message and
// the first failure rejects the clear.
func (f *STF) clear(e *env, c *tx.Clear) (*outcome, error) {
	cl := &clearing{e: e, c: c}

	steps := []func() error{
		func() error { return f.openRequest(cl) },
		cl.openBid,
		cl.openSettle,
		cl.openExecute,
		cl.checkProof,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return cl.settle()
}

func (f *STF) openRequest(cl *clearing) error {
	signer, err := open(stepRequest, cl.c.Request, &cl.request, cl.e.globals.Domain, nil)
	if err != nil {
		return err
	}
	cl.requester = signer
	cl.requestID = tx.RequestID(cl.c.Request.Body, signer)

	if cl.e.state.IsRequestConsumed(cl.requestID) {
		return revertStep(stepRequest, ReasonDuplicateRequest, "%v", cl.requestID)
	}
	if len(cl.request.Whitelist) > ledger.MaxWhitelistLen {
		return revertStep(stepRequest, ReasonMalformedBody, "whitelist of %v provers", len(cl.request.Whitelist))
	}
	if cl.request.Deadline != 0 && cl.e.timestamp > cl.request.Deadline {
		return revertStep(stepRequest, ReasonDeadlinePassed, "deadline %v, now %v", cl.request.Deadline, cl.e.timestamp)
	}
	v, err := f.verifiers.Lookup(cl.request.Mode)
	if err != nil {
		return revertStep(stepRequest, ReasonUnsupportedMode, "%v", err)
	}
	cl.verifier = v
	if cl.request.MaxPricePerPGU == nil {
		cl.request.MaxPricePerPGU = new(uint256.Int)
	}
	return nil
}

func (cl *clearing) openBid() error {
	_, err := open(stepBid, cl.c.Bid, &cl.bid, cl.e.globals.Domain, func(signer ledger.Address) error {
		p, ok := cl.e.state.GetProver(cl.bid.Prover)
		if !ok {
			return revertStep(stepBid, ReasonUnknownProver, "%v", cl.bid.Prover)
		}
		cl.vault, cl.prover = cl.bid.Prover, p
		return expectSigner(stepBid, p.Signer)(signer)
	})
	if err != nil {
		return err
	}
	if err := cl.checkRequestID(stepBid, cl.bid.RequestID); err != nil {
		return err
	}
	if cl.bid.PricePerPGU == nil {
		cl.bid.PricePerPGU = new(uint256.Int)
	}
	if cl.bid.PricePerPGU.Gt(cl.request.MaxPricePerPGU) {
		return revertStep(stepBid, ReasonPriceTooHigh, "price %v, max %v", cl.bid.PricePerPGU, cl.request.MaxPricePerPGU)
	}
	if !cl.request.Whitelisted(cl.vault) {
		return revertStep(stepBid, ReasonNotWhitelisted, "%v", cl.vault)
	}
	return nil
}

func (cl *clearing) openSettle() error {
	var msg tx.SettleMessage
	_, err := open(stepSettle, cl.c.Settle, &msg, cl.e.globals.Domain, func(signer ledger.Address) error {
		if cl.request.Auctioneer != cl.e.globals.Auctioneer {
			return revertStep(stepSettle, ReasonAuctioneerMismatch, "request auctioneer %v, ledger auctioneer %v",
				cl.request.Auctioneer, cl.e.globals.Auctioneer)
		}
		return expectSigner(stepSettle, cl.request.Auctioneer)(signer)
	})
	if err != nil {
		return err
	}
	if err := cl.checkRequestID(stepSettle, msg.RequestID); err != nil {
		return err
	}
	if msg.Prover != cl.vault || msg.PricePerPGU == nil || !msg.PricePerPGU.Eq(cl.bid.PricePerPGU) {
		return revertStep(stepSettle, ReasonSettleMismatch, "settled %v at %v, bid %v at %v",
			msg.Prover, msg.PricePerPGU, cl.vault, cl.bid.PricePerPGU)
	}
	return nil
}

func (cl *clearing) openExecute() error {
	_, err := open(stepExecute, cl.c.Execute, &cl.execute, cl.e.globals.Domain, expectSigner(stepExecute, cl.request.Executor))
	if err != nil {
		return err
	}
	if err := cl.checkRequestID(stepExecute, cl.execute.RequestID); err != nil {
		return err
	}

	price := cl.bid.PricePerPGU
	switch cl.execute.Status {
	case tx.ExecutionUnexecutable:
		cl.cost = fee.Punishment(cl.execute.PunishmentAmount, price, cl.request.GasLimit)
	case tx.ExecutionExecuted:
		if cl.execute.PGUs > cl.request.GasLimit {
			return revertStep(stepExecute, ReasonPGUsExceeded, "pgus %v, limit %v", cl.execute.PGUs, cl.request.GasLimit)
		}
		if cl.request.CycleLimit != 0 && cl.execute.Cycles > cl.request.CycleLimit {
			return revertStep(stepExecute, ReasonCyclesExceeded, "cycles %v, limit %v", cl.execute.Cycles, cl.request.CycleLimit)
		}
		if !cl.request.PublicValuesHash.IsZero() && cl.execute.PublicValuesHash != cl.request.PublicValuesHash {
			return revertStep(stepExecute, ReasonPublicValues, "executed %v, requested %v",
				cl.execute.PublicValuesHash, cl.request.PublicValuesHash)
		}
		cost, err := fee.Cost(price, cl.execute.PGUs)
		if err != nil {
			return revertStep(stepExecute, ReasonCostOverflow, "%v", err)
		}
		cl.cost = cost
	default:
		return revertStep(stepExecute, ReasonInvalidStatus, "%v", cl.execute.Status)
	}

	if balance := cl.e.state.GetBalance(cl.requester); cl.cost.Gt(balance) {
		return revertStep(stepExecute, ReasonInsufficientBalance, "cost %v, balance %v", cl.cost, balance)
	}
	return nil
}

// checkProof verifies the proof of an executed request through the verifier of the
// request mode. Unexecutable requests have no proof.
func (cl *clearing) checkProof() error {
	if cl.execute.Status != tx.ExecutionExecuted {
		return nil
	}
	v := cl.verifier

	var fulfill tx.FulfillMessage
	if _, err := open(stepFulfill, cl.c.Fulfill, &fulfill, cl.e.globals.Domain, expectSigner(stepFulfill, cl.prover.Signer)); err != nil {
		return err
	}
	if err := cl.checkRequestID(stepFulfill, fulfill.RequestID); err != nil {
		return err
	}

	claim := &verifier.Claim{
		Mode:             cl.request.Mode,
		RequestID:        cl.requestID,
		VKHash:           cl.request.VKHash,
		PublicValuesHash: cl.execute.PublicValuesHash,
		Proof:            fulfill.Proof,
	}

	if v.Attested() {
		var verify tx.VerifyMessage
		if _, err := open(stepVerify, cl.c.Verify, &verify, cl.e.globals.Domain, expectSigner(stepVerify, cl.e.globals.Verifier)); err != nil {
			return err
		}
		if err := cl.checkRequestID(stepVerify, verify.RequestID); err != nil {
			return err
		}
		claim.AttestedHash = &verify.PublicValuesHash
	}

	if err := v.Verify(claim); err != nil {
		if errors.Is(err, verifier.ErrAttestationMismatch) {
			return revertStep(stepVerify, ReasonPublicValues, "%v", err)
		}
		return revertStep(stepFulfill, ReasonInvalidProof, "%v", err)
	}
	return nil
}

// settle debits the requester and distributes the cost.
func (cl *clearing) settle() (*outcome, error) {
	st, g := cl.e.state, cl.e.globals

	split, err := fee.SplitCost(cl.cost, g.ProtocolFeeBips, cl.prover.StakerFeeBips)
	if err != nil {
		return nil, invariantCause(err, "fee split of %v", cl.requestID)
	}
	if err := st.SubBalance(cl.requester, cl.cost); err != nil {
		return nil, revertStep(stepExecute, ReasonInsufficientBalance, "%v", err)
	}
	if err := credit(st, g.Treasury, split.ProtocolFee); err != nil {
		return nil, err
	}
	if err := credit(st, cl.vault, split.StakerReward); err != nil {
		return nil, err
	}
	if err := credit(st, cl.prover.Owner, split.OwnerReward); err != nil {
		return nil, err
	}
	st.ConsumeRequest(cl.requestID)

	out := &outcome{
		data: mustEncode(&tx.Settlement{
			RequestID:    cl.requestID,
			Requester:    cl.requester,
			Prover:       cl.vault,
			Cost:         cl.cost,
			ProtocolFee:  split.ProtocolFee,
			StakerReward: split.StakerReward,
			OwnerReward:  split.OwnerReward,
		}),
	}
	if !split.StakerReward.IsZero() {
		out.action = &tx.Action{
			Type:    tx.ActionReward,
			Account: cl.vault,
			Amount:  split.StakerReward,
		}
	}
	return out, nil
}
