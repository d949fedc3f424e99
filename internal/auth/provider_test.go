package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazoku-nikki/family-diary-backend/internal/auth/identity"
)

func TestFirebaseProviderSignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"localId":      "uid-1",
			"email":        "mom@example.com",
			"displayName":  "お母さん",
			"idToken":      "id-token",
			"refreshToken": "refresh-token",
			"expiresIn":    "3600",
		})
	}))
	defer srv.Close()

	id := identity.NewClient("test-key")
	id.BaseURL = srv.URL

	p := NewFirebaseProvider(id, nil)
	sess, err := p.SignIn(context.Background(), "mom@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "uid-1", sess.User.ID)
	assert.Equal(t, "mom@example.com", sess.User.Email)
	assert.Equal(t, "お母さん", sess.User.DisplayName)
	assert.Equal(t, "id-token", sess.IDToken)
	assert.Equal(t, "refresh-token", sess.RefreshToken)
	// The toolkit reports seconds; the session carries a Duration.
	assert.Equal(t, time.Hour, sess.ExpiresIn)
}

func TestFirebaseProviderSignInFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 400, "message": "INVALID_PASSWORD"},
		})
	}))
	defer srv.Close()

	id := identity.NewClient("test-key")
	id.BaseURL = srv.URL

	p := NewFirebaseProvider(id, nil)
	_, err := p.SignIn(context.Background(), "mom@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_PASSWORD")
}
