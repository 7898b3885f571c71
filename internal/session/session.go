// Package session provides the identity collaborator handed to strategies.
package session

import (
	"os/user"

	"github.com/google/uuid"
)

// Session is the narrow identity contract consumed by the router.
type Session interface {
	UserID() string
	IsAuthenticated() bool
}

// Manager is the default Session: the OS user for this process plus a
// per-process session ID.
type Manager struct {
	userID    string
	sessionID string
}

// New returns a Manager for the current OS user. When the user cannot be
// resolved a random identifier is used instead.
func New() *Manager {
	id := uuid.NewString()
	userID := ""
	if u, err := user.Current(); err == nil {
		userID = u.Username
	}
	if userID == "" {
		userID = "user-" + id[:8]
	}
	return &Manager{userID: userID, sessionID: id}
}

// NewWithUser returns a Manager with a fixed user ID.
func NewWithUser(userID string) *Manager {
	return &Manager{userID: userID, sessionID: uuid.NewString()}
}

func (m *Manager) UserID() string { return m.userID }

// ID returns the per-process session identifier.
func (m *Manager) ID() string { return m.sessionID }

// IsAuthenticated always reports true; there is no identity system yet.
func (m *Manager) IsAuthenticated() bool { return true }
