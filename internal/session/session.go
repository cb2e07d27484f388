// Package session holds the injected identity context. The pager and the
// task synchronizer receive a *Session in their constructors instead of
// reading ambient global auth state; sign-in and sign-out are surfaced as
// change notifications so dependents can reset themselves.
package session

import (
	"os"
	"os/user"
	"sync"
)

// Change describes a sign-in or sign-out. An empty UserID means signed out.
type Change struct {
	UserID string
}

// Session tracks the current user id and notifies watchers on change.
type Session struct {
	mu       sync.RWMutex
	userID   string
	watchers []chan Change
}

// New creates a signed-out session.
func New() *Session {
	return &Session{}
}

// CurrentUserID returns the signed-in user's id, or "" when signed out.
func (s *Session) CurrentUserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// SignIn sets the current user and notifies watchers.
func (s *Session) SignIn(userID string) {
	s.setUser(userID)
}

// SignOut clears the current user and notifies watchers.
func (s *Session) SignOut() {
	s.setUser("")
}

func (s *Session) setUser(userID string) {
	s.mu.Lock()
	if s.userID == userID {
		s.mu.Unlock()
		return
	}
	s.userID = userID
	watchers := make([]chan Change, len(s.watchers))
	copy(watchers, s.watchers)
	s.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- Change{UserID: userID}:
		default:
		}
	}
}

// Changes returns a channel receiving a Change per sign-in/sign-out.
// The channel is buffered; a watcher that falls behind loses intermediate
// transitions but always observes the latest one eventually.
func (s *Session) Changes() <-chan Change {
	ch := make(chan Change, 4)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()
	return ch
}

// DefaultUserID returns a stable identity for local single-user use.
// It tries the OS user first, then the USER environment variable, then a
// fixed fallback so the value is never empty.
func DefaultUserID() string {
	if current, err := user.Current(); err == nil && current.Username != "" {
		return current.Username
	}
	if username := os.Getenv("USER"); username != "" {
		return username
	}
	return "local"
}
