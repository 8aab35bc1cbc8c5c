package apperr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind is the coarse category a caller branches on
type Kind string

const (
	KindValidation          Kind = "validation"
	KindInsufficientBalance Kind = "insufficient_balance"
	KindUnauthorized        Kind = "unauthorized"
	KindCodeInvalid         Kind = "code_invalid"
	KindPersistence         Kind = "persistence"
)

// Reason is the fine-grained, machine-readable cause within a Kind
type Reason string

const (
	ReasonGamblingDisabled    Reason = "gambling_disabled"
	ReasonBetBelowMin         Reason = "bet_below_min"
	ReasonBetAboveMax         Reason = "bet_above_max"
	ReasonInvalidParameter    Reason = "invalid_parameter"
	ReasonInsufficientBalance Reason = "insufficient_balance"
	ReasonWrongChannel        Reason = "wrong_channel"
	ReasonNotBanker           Reason = "not_banker"
	ReasonNotAdmin            Reason = "not_admin"
	ReasonNotRoundOwner       Reason = "not_round_owner"
	ReasonCodeNotFound        Reason = "code_not_found"
	ReasonCodeDisabled        Reason = "code_disabled"
	ReasonCodeExpired         Reason = "code_expired"
	ReasonCodeAlreadyClaimed  Reason = "code_already_claimed"
	ReasonCodeExhausted       Reason = "code_exhausted"
	ReasonCodeAlreadyExists   Reason = "code_already_exists"
	ReasonDailyCooldown       Reason = "daily_cooldown"
	ReasonRateLimited         Reason = "rate_limited"
	ReasonRoundNotFound       Reason = "round_not_found"
	ReasonRoundFinished       Reason = "round_finished"
	ReasonPersistence         Reason = "persistence"
)

// AppError is the error type returned across the ledger core boundary
type AppError struct {
	Kind      Kind
	Reason    Reason
	Message   string
	Retryable bool
	// RetryAfter is set on cooldown and rate limit errors
	RetryAfter time.Duration
	cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches another AppError by reason so sentinels work with errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Reason == t.Reason
}

func newError(kind Kind, reason Reason, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a validation error with the given reason
func Validation(reason Reason, format string, args ...any) *AppError {
	return newError(KindValidation, reason, format, args...)
}

// InvalidParameter is a validation error for malformed input
func InvalidParameter(format string, args ...any) *AppError {
	return Validation(ReasonInvalidParameter, format, args...)
}

// Cooldown is a validation error that tells the caller when to try again
func Cooldown(reason Reason, wait time.Duration, format string, args ...any) *AppError {
	err := Validation(reason, format, args...)
	err.RetryAfter = wait
	return err
}

// InsufficientBalance reports that the available balance cannot cover an amount
func InsufficientBalance(available, required int64) *AppError {
	return newError(KindInsufficientBalance, ReasonInsufficientBalance,
		"insufficient balance: have %d, need %d", available, required)
}

// Unauthorized builds an authorization failure with the given reason
func Unauthorized(reason Reason, format string, args ...any) *AppError {
	return newError(KindUnauthorized, reason, format, args...)
}

// CodeInvalid builds a redemption failure with the given reason
func CodeInvalid(reason Reason, format string, args ...any) *AppError {
	return newError(KindCodeInvalid, reason, format, args...)
}

// Persistence wraps a storage failure. Transient database errors are marked retryable.
func Persistence(op string, cause error) *AppError {
	return &AppError{
		Kind:      KindPersistence,
		Reason:    ReasonPersistence,
		Message:   fmt.Sprintf("persistence failure during %s", op),
		Retryable: isTransient(cause),
		cause:     cause,
	}
}

// Sentinels for errors.Is checks
var (
	ErrRoundNotFound = newError(KindValidation, ReasonRoundNotFound, "round not found")
	ErrRoundFinished = newError(KindValidation, ReasonRoundFinished, "round already finished")
)

// KindOf returns the kind of err, or "" if it is not an AppError
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// ReasonOf returns the reason of err, or "" if it is not an AppError
func ReasonOf(err error) Reason {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ""
}

// AsPersistence passes AppErrors through and wraps anything else as a
// persistence failure.
func AsPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return Persistence(op, err)
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}
