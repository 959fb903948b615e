package session

import (
	"errors"

	"github.com/vitortiger/utm-tracker-saas/internal/client/api"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionChanged is returned when the session was replaced or ended
	// while a request was in flight; its result was discarded.
	ErrSessionChanged = errors.New("session changed during request")
)

type Op string

const (
	OpLogin         Op = "login"
	OpRegister      Op = "register"
	OpUpdateProfile Op = "update profile"
)

var defaultMessages = map[Op]string{
	OpLogin:         "Login failed",
	OpRegister:      "Registration failed",
	OpUpdateProfile: "Profile update failed",
}

// Failure is returned by Login, Register and UpdateProfile. Message is
// suitable for showing to the user as-is.
type Failure struct {
	Op      Op
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

func newFailure(op Op, err error) *Failure {
	msg := api.MessageOf(err)
	if msg == "" {
		msg = defaultMessages[op]
	}
	return &Failure{Op: op, Message: msg, Err: err}
}
