// Package session holds the authenticated identity for the current client
// session and mediates which operations are reachable.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
)

type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Session is what a successful sign-in yields.
type Session struct {
	User         domain.User
	IDToken      string
	RefreshToken string
	ExpiresIn    time.Duration
}

// Provider is the identity backend the gate talks to. It is injected so
// tests can use a double instead of a live Firebase project.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, userID string) error
}

// AuthError wraps a provider failure during login. Bad credentials and
// network failures both land here; the caller surfaces it and the gate
// drops back to unauthenticated.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("authentication failed: %v", e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// Gate is the session state machine:
//
//	Unauthenticated -> Authenticating -> Authenticated
//	Authenticated   -> Unauthenticated (logout)
//
// Authenticating is per-attempt: it resolves to Authenticated on success or
// back to Unauthenticated on failure. There is no retry policy; every
// attempt is user-initiated and independent.
type Gate struct {
	mu        sync.RWMutex
	provider  Provider
	state     State
	sess      *Session
	listeners []func(*domain.User)
}

func NewGate(p Provider) *Gate {
	return &Gate{provider: p}
}

// Login runs one authentication attempt. While an attempt is in flight the
// gate reports StateAuthenticating.
func (g *Gate) Login(ctx context.Context, email, password string) error {
	g.mu.Lock()
	if g.state == StateAuthenticating {
		g.mu.Unlock()
		return &AuthError{Err: fmt.Errorf("login already in progress")}
	}
	g.state = StateAuthenticating
	g.mu.Unlock()

	sess, err := g.provider.SignIn(ctx, email, password)

	g.mu.Lock()
	if err != nil {
		g.state = StateUnauthenticated
		g.sess = nil
		g.mu.Unlock()
		return &AuthError{Err: err}
	}
	g.state = StateAuthenticated
	g.sess = sess
	listeners := append([]func(*domain.User){}, g.listeners...)
	user := sess.User
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(&user)
	}
	return nil
}

// Logout clears the session. The provider call is best-effort: its error is
// logged and swallowed, and local state is cleared regardless, so local and
// provider session state can diverge when the provider call fails.
func (g *Gate) Logout(ctx context.Context) {
	g.mu.Lock()
	sess := g.sess
	g.state = StateUnauthenticated
	g.sess = nil
	listeners := append([]func(*domain.User){}, g.listeners...)
	g.mu.Unlock()

	if sess != nil {
		if err := g.provider.SignOut(ctx, sess.User.ID); err != nil {
			log.Printf("[warn] operation=logout error=%v", err)
		}
	}

	for _, fn := range listeners {
		fn(nil)
	}
}

// Current returns the authenticated user, or nil.
func (g *Gate) Current() *domain.User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.sess == nil {
		return nil
	}
	u := g.sess.User
	return &u
}

// Session returns the live session, or nil.
func (g *Gate) Session() *Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.sess == nil {
		return nil
	}
	s := *g.sess
	return &s
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// OnChange registers a listener invoked after every completed transition:
// with the user on login, with nil on logout. Listeners run synchronously on
// the goroutine that triggered the transition.
func (g *Gate) OnChange(fn func(*domain.User)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}
