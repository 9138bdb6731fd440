package errors

import (
	"errors"
	"fmt"
)

// Failure shapes recognised by the auth core. Route handlers map these to
// HTTP status codes; anything outside this set is treated as an internal error.
var (
	// Credential failures (all surface as 401, sub-cause never disclosed)
	ErrInvalidCredential = errors.New("invalid credential")
	ErrRevokedCredential = errors.New("revoked credential")
	ErrMissingSubject    = errors.New("credential subject no longer exists")

	// Authorization failure (403)
	ErrForbidden = errors.New("forbidden")

	// Storage failure (500, never silently absorbed)
	ErrStorageFailure = errors.New("storage failure")

	// Repository-level sentinel: lookup found no row
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Storage marks err as a storage failure while keeping the original cause
// in the chain. Returns nil for nil.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
