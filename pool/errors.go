package pool

import "errors"

var (
	// ErrInvalidAmount is returned for zero trade inputs, or a sell
	// exceeding the supply ever issued by the curve.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidParty is returned when the trader or caller identity is
	// missing.
	ErrInvalidParty = errors.New("invalid party")
	// ErrInsufficientBalance is returned when the engine cannot deliver
	// any positive output from its own reserve, or cannot fill the
	// trade whole.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrSlippageTooHigh is returned when the computed output violates
	// the caller specified minimum.
	ErrSlippageTooHigh = errors.New("slippage too high")
	// ErrTradingClosed is returned for any trade attempted after
	// graduation.
	ErrTradingClosed = errors.New("trading closed")
	// ErrAlreadyGraduated guards the one-way graduation latch.
	ErrAlreadyGraduated = errors.New("already graduated")
	// ErrNotCreator is returned when a withdrawal is attempted by
	// anyone but the engine creator.
	ErrNotCreator = errors.New("only the creator may withdraw")
	// ErrNoWithdrawableFunds is returned when the creator withdrawal
	// balance is empty.
	ErrNoWithdrawableFunds = errors.New("no withdrawable funds")
	// ErrLPTokensStillLocked is returned for LP withdrawals before the
	// unlock time.
	ErrLPTokensStillLocked = errors.New("lp tokens still locked")
	// ErrNoLPTokensToWithdraw is returned when no liquidity position
	// was ever locked, or it has already been withdrawn.
	ErrNoLPTokensToWithdraw = errors.New("no locked liquidity to withdraw")
)
