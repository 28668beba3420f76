package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/calcthie/calcthie/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const (
	localKeySession = "calcthie_auth"
	maxErrorBytes   = 1 << 10
)

// Authenticator exchanges an identity provider token for a backend session
// and keeps that session in the local cache.
type Authenticator struct {
	httpClient *http.Client
	baseURL    string
	local      domain.LocalStore
	now        func() time.Time
}

// NewAuthenticator creates an authenticator for the backend at baseURL
func NewAuthenticator(baseURL string, timeout time.Duration, local domain.LocalStore) *Authenticator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Authenticator{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		local:      local,
		now:        time.Now,
	}
}

type signInRequest struct {
	GoogleToken string `json:"googleToken"`
}

type signInResponse struct {
	Token string `json:"token"`
	User  struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	} `json:"user"`
}

// SignIn posts providerToken to the backend and stores the resulting session
func (a *Authenticator) SignIn(ctx context.Context, providerToken string) (*domain.Session, error) {
	if strings.TrimSpace(providerToken) == "" {
		return nil, fmt.Errorf("%w: provider token is required", domain.ErrInvalidRequest)
	}

	payload, err := json.Marshal(signInRequest{GoogleToken: providerToken})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign-in request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/auth/google", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sign-in request: %v", domain.ErrRemoteStoreFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: provider token rejected", domain.ErrNotAuthenticated)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return nil, fmt.Errorf("%w: sign-in returned %d: %s", domain.ErrRemoteStoreFailure, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var body signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode sign-in response: %v", domain.ErrRemoteStoreFailure, err)
	}
	if body.Token == "" || body.User.ID == "" {
		return nil, fmt.Errorf("%w: sign-in response is missing token or user", domain.ErrRemoteStoreFailure)
	}

	session := &domain.Session{
		UserID:  body.User.ID,
		Email:   body.User.Email,
		Name:    body.User.Name,
		Picture: body.User.Picture,
		Token:   body.Token,
	}
	if expiresAt, ok := TokenExpiry(body.Token); ok {
		session.ExpiresAt = expiresAt
	}

	if err := a.local.Save(ctx, localKeySession, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	log.Printf("[Auth] Successfully authenticated user: %s", session.Email)
	return session, nil
}

// Restore returns the stored session, or nil when nobody is signed in.
// An expired session is cleared and reported as ErrSessionExpired.
func (a *Authenticator) Restore(ctx context.Context) (*domain.Session, error) {
	var session domain.Session
	found, err := a.local.Load(ctx, localKeySession, &session)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !found || session.Token == "" || session.UserID == "" {
		return nil, nil
	}

	if session.Expired(a.now()) {
		if err := a.local.Remove(ctx, localKeySession); err != nil {
			log.Printf("[Auth] WARNING: failed to clear expired session: %v", err)
		}
		return nil, domain.ErrSessionExpired
	}
	return &session, nil
}

// SignOut forgets the stored session
func (a *Authenticator) SignOut(ctx context.Context) error {
	if err := a.local.Remove(ctx, localKeySession); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The backend verifies tokens; the client only needs to know when to stop using one.
func TokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
