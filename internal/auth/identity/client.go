// Package identity is a thin client for the Identity Toolkit REST API.
// The Admin SDK verifies tokens but cannot exchange an email and password
// for one, so sign-in goes through the same endpoint the web SDK uses.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

type Client struct {
	// BaseURL is exported so tests can point the client at a local server.
	BaseURL string

	apiKey string
	hc     *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

type SignInResult struct {
	UserID       string
	Email        string
	DisplayName  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithPassword exchanges the credentials for Firebase tokens. The
// API reports bad credentials as distinct messages (EMAIL_NOT_FOUND,
// INVALID_PASSWORD, INVALID_LOGIN_CREDENTIALS); all surface as errors here.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*SignInResult, error) {
	body, err := json.Marshal(signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal sign-in request: %w", err)
	}

	url := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", c.BaseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity toolkit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Error.Message == "" {
			return nil, fmt.Errorf("identity toolkit status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("identity toolkit: %s", er.Error.Message)
	}

	var sr signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode sign-in response: %w", err)
	}

	expires, _ := strconv.Atoi(sr.ExpiresIn)
	return &SignInResult{
		UserID:       sr.LocalID,
		Email:        sr.Email,
		DisplayName:  sr.DisplayName,
		IDToken:      sr.IDToken,
		RefreshToken: sr.RefreshToken,
		ExpiresIn:    expires,
	}, nil
}
