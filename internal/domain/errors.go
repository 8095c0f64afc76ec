package domain

import "errors"

var (
	// ErrAlreadyReacted: the requested reaction already exists.
	ErrAlreadyReacted = errors.New("reaction already exists")
	// ErrNoReactionToCancel: cancel requested but no reaction row exists.
	ErrNoReactionToCancel = errors.New("no reaction to cancel")
	// ErrReactionMismatch: cancel requested for the opposite reaction kind.
	ErrReactionMismatch = errors.New("reaction kind does not match cancel request")
	// ErrTargetNotFound: the post or comment does not exist.
	ErrTargetNotFound = errors.New("target not found")
)

// IsBusinessError reports whether err is one of the expected, user-facing
// rejection reasons rather than an infrastructure failure. Business errors
// carry no retry semantics.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrAlreadyReacted) ||
		errors.Is(err, ErrNoReactionToCancel) ||
		errors.Is(err, ErrReactionMismatch) ||
		errors.Is(err, ErrTargetNotFound)
}
