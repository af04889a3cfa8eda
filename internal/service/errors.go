package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing recipes, users and relations. Deleting a
	// favorite/cart/subscribe row that does not exist surfaces this, never
	// a silent success.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers relations that already exist (favorite, cart,
	// subscribe duplicates).
	ErrConflict = errors.New("already exists")

	// ErrPermissionDenied is returned when the acting user is neither the
	// object's owner nor an administrator.
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError reports malformed or duplicate input with a message meant
// for the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
