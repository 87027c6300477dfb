// Package session holds the client's authentication state: one explicit
// object with a set/clear/read lifecycle instead of ambient globals. Every
// API call site reads the token from here, and everything that caches
// server-derived state registers an OnClear hook so a logout or a rejected
// token drops that state in the same step.
package session

import "sync"

// Session is the process-wide authentication context. The zero value is a
// logged-out session; use New to allocate one.
type Session struct {
	mu      sync.RWMutex
	token   string
	email   string
	onClear []func()
}

func New() *Session {
	return &Session{}
}

// Set installs the bearer token and the account it belongs to.
func (s *Session) Set(token, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.email = email
}

// Clear drops the token and runs every registered OnClear hook, in
// registration order. Safe to call on an already cleared session; hooks run
// each time.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.email = ""
	hooks := make([]func(), len(s.onClear))
	copy(hooks, s.onClear)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Email returns the account the current token belongs to.
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Active reports whether a token is present.
func (s *Session) Active() bool {
	return s.Token() != ""
}

// OnClear registers fn to run whenever the session is cleared. Used to purge
// cached query state so nothing derived from an old login survives into the
// next one.
func (s *Session) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClear = append(s.onClear, fn)
}
