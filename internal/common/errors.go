// Package common defines the sentinel errors shared by the stub server's
// services and its HTTP layer. Callers should use errors.Is to match them.
package common

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactive           = errors.New("account is deactivated")
	ErrRevoked            = errors.New("token has been revoked")
)

// ValidationError carries a message meant for the API client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// ValidationMessage returns the client-facing message of a validation error.
func ValidationMessage(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}
