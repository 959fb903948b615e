package session

import "github.com/vitortiger/utm-tracker-saas/internal/client/models"

type State int

const (
	StateUninitialized State = iota
	StateVerifying
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the session. User must be treated as
// read-only.
type Snapshot struct {
	User    *models.User
	Loading bool
	State   State
}

// IsAuthenticated reports whether a user is present. While the state is
// Verifying this reflects the cached user, not a confirmed session.
func (s Snapshot) IsAuthenticated() bool {
	return s.User != nil
}
