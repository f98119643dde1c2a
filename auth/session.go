// Package auth supplies the signed-in identity to the storefront clients and
// notifies them when it changes.
package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoIdentity   = errors.New("sign in required")
	ErrInvalidToken = errors.New("invalid session token")
)

type Identity struct {
	ID    string
	Email string
}

// Listener is called after every sign-in or sign-out. ok is false when the
// session has no identity.
type Listener func(id Identity, ok bool)

type Provider interface {
	Current() (Identity, bool)
	Subscribe(fn Listener) (cancel func())
}

type listener struct {
	id int
	fn Listener
}

// Session is an in-memory Provider backed by a bearer token.
type Session struct {
	mu        sync.Mutex
	identity  Identity
	token     string
	signedIn  bool
	listeners []listener
	nextID    int
}

func NewSession() *Session {
	return &Session{}
}

// SignIn reads the identity from the token's claims and makes it current.
// The signature is checked by the server on every request, not here.
func (s *Session) SignIn(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	id := Identity{ID: sub}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}

	s.mu.Lock()
	s.identity = id
	s.token = token
	s.signedIn = true
	s.mu.Unlock()

	s.notify(id, true)
	return id, nil
}

func (s *Session) SignOut() {
	s.mu.Lock()
	s.identity = Identity{}
	s.token = ""
	s.signedIn = false
	s.mu.Unlock()

	s.notify(Identity{}, false)
}

func (s *Session) Current() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.signedIn
}

// Token returns the bearer token of the current session, or "".
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// notify runs listeners in registration order on the caller's goroutine.
func (s *Session) notify(id Identity, ok bool) {
	s.mu.Lock()
	listeners := make([]listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(id, ok)
	}
}
