package paywall

import (
	"errors"
	"fmt"
)

// The four failure categories of the engine. Every error returned by a
// Service method wraps exactly one of these, so callers can classify with
// errors.Is. All four are synchronous and non-retryable: the failed
// operation performed no mutation.
var (
	// ErrUnauthorized is a capability/identifier mismatch.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation is malformed input: a broken price ordering, a fee rate
	// above its cap, a zero-amount deposit.
	ErrValidation = errors.New("invalid input")

	// ErrInsufficientFunds is a payment below the required amount or a
	// withdrawal exceeding the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrStateMismatch is a cross-reference mismatch between credentials,
	// articles and publications, or a missing record.
	ErrStateMismatch = errors.New("state mismatch")
)

// Code is a machine-readable error code.
type Code string

const (
	CodeCapMismatch        Code = "CAP_MISMATCH"
	CodeNotOwner           Code = "NOT_OWNER"
	CodeNameEmpty          Code = "NAME_EMPTY"
	CodePriceOrdering      Code = "PRICE_ORDERING"
	CodeUnknownTier        Code = "UNKNOWN_TIER"
	CodeFreeTierDisabled   Code = "FREE_TIER_DISABLED"
	CodeFreePaymentNonZero Code = "FREE_PAYMENT_NON_ZERO"
	CodePaymentBelowPrice  Code = "PAYMENT_BELOW_PRICE"
	CodeFeeRateTooHigh     Code = "FEE_RATE_TOO_HIGH"
	CodeZeroDeposit        Code = "ZERO_DEPOSIT"
	CodeWithdrawExceeds    Code = "WITHDRAW_EXCEEDS_BALANCE"
	CodeRoyaltyRateTooHigh Code = "ROYALTY_RATE_TOO_HIGH"
	CodeRoyaltyNotCovered  Code = "ROYALTY_NOT_COVERED"
	CodeRoyaltyOverpaid    Code = "ROYALTY_OVERPAID"
	CodeNoRoyaltyRule      Code = "NO_ROYALTY_RULE"
	CodeWrongPublication   Code = "WRONG_PUBLICATION"
	CodeNotFound           Code = "NOT_FOUND"
)

// Error is a categorized engine error. It unwraps to its category sentinel
// so errors.Is(err, ErrValidation) etc. works across the API boundary.
type Error struct {
	Code     Code
	category error
	msg      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.msg)
}

func (e *Error) Unwrap() error { return e.category }

func errUnauthorized(code Code, format string, args ...any) *Error {
	return &Error{Code: code, category: ErrUnauthorized, msg: fmt.Sprintf(format, args...)}
}

func errValidation(code Code, format string, args ...any) *Error {
	return &Error{Code: code, category: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func errFunds(code Code, format string, args ...any) *Error {
	return &Error{Code: code, category: ErrInsufficientFunds, msg: fmt.Sprintf(format, args...)}
}

func errMismatch(code Code, format string, args ...any) *Error {
	return &Error{Code: code, category: ErrStateMismatch, msg: fmt.Sprintf(format, args...)}
}
