package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
	"github.com/kazoku-nikki/family-diary-backend/internal/session"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "password123"
)

// DemoProvider serves local development without a Firebase project. It
// accepts the demo credentials printed on the login screen and nothing else.
type DemoProvider struct{}

func NewDemoProvider() *DemoProvider { return &DemoProvider{} }

func (p *DemoProvider) SignIn(_ context.Context, email, password string) (*session.Session, error) {
	if email != demoEmail || password != demoPassword {
		return nil, fmt.Errorf("invalid credentials")
	}
	return &session.Session{
		User: domain.User{
			ID:          "demo-user",
			Email:       demoEmail,
			DisplayName: "デモユーザー",
		},
		IDToken:   "demo-token",
		ExpiresIn: time.Hour,
	}, nil
}

func (p *DemoProvider) SignOut(context.Context, string) error { return nil }
