package identity

import (
	"context"
	"sync"
)

// Session holds the signed-in identity for a process. Sign-in and sign-out
// happen outside the client; the client only reads the current value.
type Session struct {
	mu      sync.RWMutex
	current *Identity
	source  CredentialSource
}

// compile-time assertion
var _ Provider = (*Session)(nil)

// NewSession creates a signed-out session that mints credentials with source.
func NewSession(source CredentialSource) *Session {
	return &Session{source: source}
}

// SignIn makes id the current identity.
func (s *Session) SignIn(id Identity) error {
	if id.ID == "" {
		return ErrEmptyID
	}
	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()
	return nil
}

// SignOut clears the current identity.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// CurrentIdentity returns a copy of the current identity, or nil.
func (s *Session) CurrentIdentity(_ context.Context) *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	id := *s.current
	return &id
}

// FetchCredential asks the credential source for a fresh token.
func (s *Session) FetchCredential(ctx context.Context, id Identity) (string, error) {
	return fetch(ctx, s.source, id)
}
