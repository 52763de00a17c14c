package models

import (
	"errors"
	"fmt"
)

// Domain error sentinels. Services return these (usually wrapped with
// context via fmt.Errorf and %w) and the transport layer matches them with
// errors.Is to pick a status code.
var (
	// ErrNotFound means a referenced group, transaction, membership or
	// user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotMember means the caller has no membership in the group.
	ErrNotMember = errors.New("you are not a member of this group")

	// ErrNotAdmin means the caller is a member but lacks admin rights.
	ErrNotAdmin = errors.New("admin rights required")

	// ErrAlreadyMember means a join was attempted with an existing membership.
	ErrAlreadyMember = errors.New("you are already a member of this group")

	// ErrLastAdmin means the sole admin tried to leave while other members
	// remain. Promote another admin first.
	ErrLastAdmin = errors.New("cannot leave as the only admin; promote another admin first")

	// ErrInsufficientFunds means a withdrawal amount exceeds the group's
	// current balance.
	ErrInsufficientFunds = errors.New("the group does not have enough funds for this withdrawal")

	// ErrNotWithdrawal means a decision was attempted on a deposit.
	ErrNotWithdrawal = errors.New("transaction is not a withdrawal request")

	// ErrAlreadyDecided means a decision was attempted on a withdrawal that
	// is no longer pending. Decisions apply at most once.
	ErrAlreadyDecided = errors.New("withdrawal request has already been decided")

	// ErrDuplicate means an insert violated a uniqueness constraint
	// (username, email, or the (user, group) membership pair).
	ErrDuplicate = errors.New("already exists")
)

// ValidationError reports malformed input: a non-positive amount, a negative
// target, a missing required field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Validationf builds a ValidationError for the given field.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
