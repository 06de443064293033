// Package auth tracks the dashboard session state. Credentials come from a
// static username to bcrypt-hash map in the service config; the only output
// is a boolean authenticated signal that interested parties can subscribe to.
package auth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/logger"
	"github.com/Coolgrey6/bigyellowjacket-clean-sub001/pkg/models"
)

// ErrInvalidCredentials is returned for unknown users and wrong passwords
// alike so a caller cannot probe which usernames exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Sessions holds the current authentication state and notifies subscribers
// when it changes.
type Sessions struct {
	users  map[string]string
	logger logger.Logger

	mu            sync.Mutex
	authenticated bool
	username      string
	subscribers   map[int]chan bool
	nextID        int
}

// NewSessions builds a session tracker from the configured local users.
// A nil config means no user can ever log in.
func NewSessions(cfg *models.AuthConfig, log logger.Logger) *Sessions {
	users := make(map[string]string)

	if cfg != nil {
		for name, hash := range cfg.Users {
			users[name] = hash
		}
	}

	return &Sessions{
		users:       users,
		logger:      log,
		subscribers: make(map[int]chan bool),
	}
}

// Login verifies the password against the stored bcrypt hash and marks the
// session authenticated. Logging in while already authenticated switches the
// recorded user without re-notifying subscribers.
func (s *Sessions) Login(username, password string) error {
	storedHash, ok := s.users[username]
	if !ok {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.username = username

	if !s.authenticated {
		s.authenticated = true
		s.notifyLocked(true)
	}

	s.logger.Info().Str("user", username).Msg("Session authenticated")

	return nil
}

// Logout ends the session. Logging out while unauthenticated is a no-op.
func (s *Sessions) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authenticated {
		return
	}

	s.logger.Info().Str("user", s.username).Msg("Session ended")

	s.authenticated = false
	s.username = ""
	s.notifyLocked(false)
}

// Authenticated reports the current session state.
func (s *Sessions) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.authenticated
}

// Subscribe registers for state-change notifications. Delivery keeps only
// the latest value: a slow subscriber sees the newest state, not the full
// history. The cancel func releases the subscription.
func (s *Sessions) Subscribe() (<-chan bool, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan bool, 1)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}

	return ch, cancel
}

// notifyLocked pushes the new state to every subscriber, displacing any
// undelivered older value. Callers hold s.mu, so the post-drain send cannot
// race another sender.
func (s *Sessions) notifyLocked(state bool) {
	for _, ch := range s.subscribers {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}
