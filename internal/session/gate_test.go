package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
	"github.com/kazoku-nikki/family-diary-backend/internal/session"
)

type fakeProvider struct {
	mu         sync.Mutex
	signInErr  error
	signOutErr error
	signOuts   []string
	block      chan struct{} // when set, SignIn waits on it
}

func (p *fakeProvider) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	if p.block != nil {
		<-p.block
	}
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	return &session.Session{
		User:    domain.User{ID: "u1", Email: email, DisplayName: "テスト"},
		IDToken: "token-123",
	}, nil
}

func (p *fakeProvider) SignOut(ctx context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOuts = append(p.signOuts, userID)
	return p.signOutErr
}

func TestLoginSuccess(t *testing.T) {
	p := &fakeProvider{}
	g := session.NewGate(p)

	assert.Equal(t, session.StateUnauthenticated, g.State())
	assert.Nil(t, g.Current())

	require.NoError(t, g.Login(context.Background(), "mom@example.com", "secret"))

	assert.Equal(t, session.StateAuthenticated, g.State())
	require.NotNil(t, g.Current())
	assert.Equal(t, "u1", g.Current().ID)
	assert.Equal(t, "token-123", g.Session().IDToken)
}

func TestLoginFailureDropsBack(t *testing.T) {
	p := &fakeProvider{signInErr: errors.New("INVALID_PASSWORD")}
	g := session.NewGate(p)

	err := g.Login(context.Background(), "mom@example.com", "wrong")
	var aerr *session.AuthError
	require.ErrorAs(t, err, &aerr)

	assert.Equal(t, session.StateUnauthenticated, g.State())
	assert.Nil(t, g.Current())
	assert.Nil(t, g.Session())
}

func TestLoginRejectsConcurrentAttempt(t *testing.T) {
	p := &fakeProvider{block: make(chan struct{})}
	g := session.NewGate(p)

	done := make(chan error, 1)
	go func() { done <- g.Login(context.Background(), "a@example.com", "pw") }()

	// Wait for the first attempt to be in flight.
	require.Eventually(t, func() bool {
		return g.State() == session.StateAuthenticating
	}, time.Second, 5*time.Millisecond)

	err := g.Login(context.Background(), "b@example.com", "pw")
	var aerr *session.AuthError
	require.ErrorAs(t, err, &aerr)

	close(p.block)
	require.NoError(t, <-done)
	assert.Equal(t, session.StateAuthenticated, g.State())
}

func TestLogoutClearsStateEvenWhenProviderFails(t *testing.T) {
	p := &fakeProvider{signOutErr: errors.New("network down")}
	g := session.NewGate(p)
	require.NoError(t, g.Login(context.Background(), "mom@example.com", "secret"))

	g.Logout(context.Background())

	assert.Equal(t, session.StateUnauthenticated, g.State())
	assert.Nil(t, g.Current())
	assert.Equal(t, []string{"u1"}, p.signOuts)
}

func TestLogoutWithoutSessionSkipsProvider(t *testing.T) {
	p := &fakeProvider{}
	g := session.NewGate(p)

	g.Logout(context.Background())
	assert.Empty(t, p.signOuts)
}

func TestOnChangeNotifications(t *testing.T) {
	p := &fakeProvider{}
	g := session.NewGate(p)

	var got []*domain.User
	g.OnChange(func(u *domain.User) { got = append(got, u) })

	require.NoError(t, g.Login(context.Background(), "mom@example.com", "secret"))
	g.Logout(context.Background())

	require.Len(t, got, 2)
	require.NotNil(t, got[0])
	assert.Equal(t, "u1", got[0].ID)
	assert.Nil(t, got[1])
}

func TestFailedLoginDoesNotNotify(t *testing.T) {
	p := &fakeProvider{signInErr: errors.New("boom")}
	g := session.NewGate(p)

	calls := 0
	g.OnChange(func(*domain.User) { calls++ })

	_ = g.Login(context.Background(), "mom@example.com", "wrong")
	assert.Equal(t, 0, calls)
}
