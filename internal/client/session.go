package client

import "sync"

// State is what a session persists: the token and its mirrored user
// profile, written and cleared together.
type State struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Store persists session state between runs. Implementations must treat
// Save and Clear as whole-slot operations; there is no partial update.
type Store interface {
	Load() (*State, error)
	Save(State) error
	Clear() error
}

// Session holds at most one token at a time. It is an explicit object
// injected into the Client rather than ambient global state, so multiple
// concurrent sessions can exist in tests. All methods are safe for
// concurrent use; once purged, no new request observes the old token.
type Session struct {
	mu    sync.RWMutex
	state *State
	store Store
}

// NewSession constructs a Session, restoring any persisted state.
func NewSession(store Store) (*Session, error) {
	s := &Session{store: store}
	if store != nil {
		state, err := store.Load()
		if err != nil {
			return nil, err
		}
		s.state = state
	}
	return s, nil
}

// Token returns the held token, if any.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil || s.state.Token == "" {
		return "", false
	}
	return s.state.Token, true
}

// User returns the mirrored user profile, if any.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil
	}
	return s.state.User
}

// Set replaces the session state and persists it.
func (s *Session) Set(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = &State{Token: token, User: user}
	if s.store != nil {
		return s.store.Save(*s.state)
	}
	return nil
}

// Clear discards the token and profile, in memory and in the store. Used
// for logout and for the purge-on-401 rule; both are purely client-side,
// consistent with stateless tokens.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = nil
	if s.store != nil {
		return s.store.Clear()
	}
	return nil
}
