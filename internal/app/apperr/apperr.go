// Package apperr holds error kinds shared across application handlers.
package apperr

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable marks infrastructure faults from the storage
// collaborators. It is not client-correctable and is never retried by the
// core; callers log it and answer with a generic failure.
var ErrStorageUnavailable = errors.New("app: storage unavailable")

// Storage wraps err as a storage fault while keeping the cause visible to
// errors.Is/As chains.
func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
