package auth

import (
	"context"
	"time"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/kazoku-nikki/family-diary-backend/internal/auth/identity"
	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
	"github.com/kazoku-nikki/family-diary-backend/internal/session"
)

// FirebaseProvider implements session.Provider on top of a live Firebase
// project: Identity Toolkit for the password exchange, the Admin SDK for
// revocation on sign-out.
type FirebaseProvider struct {
	identity *identity.Client
	admin    *fbauth.Client
}

func NewFirebaseProvider(id *identity.Client, admin *fbauth.Client) *FirebaseProvider {
	return &FirebaseProvider{identity: id, admin: admin}
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	res, err := p.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		ID:          res.UserID,
		Email:       res.Email,
		DisplayName: res.DisplayName,
	}

	// The sign-in response has no photo; fill it from the user record when
	// the lookup succeeds. Best-effort, skipped without an admin client.
	if p.admin != nil {
		if rec, err := p.admin.GetUser(ctx, res.UserID); err == nil {
			user.AvatarURL = rec.PhotoURL
			if user.DisplayName == "" {
				user.DisplayName = rec.DisplayName
			}
		}
	}

	// The Identity Toolkit reports the token lifetime in seconds.
	return &session.Session{
		User:         user,
		IDToken:      res.IDToken,
		RefreshToken: res.RefreshToken,
		ExpiresIn:    time.Duration(res.ExpiresIn) * time.Second,
	}, nil
}

func (p *FirebaseProvider) SignOut(ctx context.Context, userID string) error {
	return p.admin.RevokeRefreshTokens(ctx, userID)
}
