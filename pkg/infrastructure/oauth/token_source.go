package oauth

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrNoToken is returned when no access token has been acquired yet.
	ErrNoToken = errors.New("oauth: no access token")
	// ErrNoRefreshToken is returned by ForceRefresh when no refresh token is held.
	ErrNoRefreshToken = errors.New("oauth: no refresh token")
)

// Token represents the OAuth token structure we care about
type Token struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// Valid reports whether the token carries an access token.
// Expiry is informational only; nothing refreshes proactively.
func (t *Token) Valid() bool {
	return t != nil && t.AccessToken != ""
}

// TokenSource returns a valid token.
// It is safe for concurrent use by multiple goroutines.
type TokenSource interface {
	Token(context.Context) (*Token, error)
	ForceRefresh(context.Context) (*Token, error)
}

// Refresher exchanges a refresh token for a new token.
type Refresher func(ctx context.Context, refreshToken string) (*Token, error)

// CredentialStore holds the process's single Strava credential in memory.
// It is written by the auth callback and the manual refresh endpoint and read
// by sync passes.
type CredentialStore struct {
	mu        sync.Mutex
	token     *Token
	refresher Refresher
}

func NewCredentialStore(refresher Refresher) *CredentialStore {
	return &CredentialStore{refresher: refresher}
}

// Set replaces the held credential. A nil token clears it.
func (s *CredentialStore) Set(tok *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok == nil {
		s.token = nil
		return
	}
	cp := *tok
	s.token = &cp
}

func (s *CredentialStore) Token(_ context.Context) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.token.Valid() {
		return nil, ErrNoToken
	}
	cp := *s.token
	return &cp, nil
}

// ForceRefresh runs the refresh grant with the held refresh token and stores the
// result. Strava may rotate the refresh token; when the response omits one the
// previous refresh token is kept.
func (s *CredentialStore) ForceRefresh(ctx context.Context) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil || s.token.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	if s.refresher == nil {
		return nil, errors.New("oauth: no refresher configured")
	}

	fresh, err := s.refresher(ctx, s.token.RefreshToken)
	if err != nil {
		return nil, err
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = s.token.RefreshToken
	}

	cp := *fresh
	s.token = &cp
	return fresh, nil
}

// StaticTokenSource serves a fixed access token, e.g. one supplied on the command line.
type StaticTokenSource struct {
	tok Token
}

func NewStaticTokenSource(accessToken string) *StaticTokenSource {
	return &StaticTokenSource{tok: Token{AccessToken: accessToken}}
}

func (s *StaticTokenSource) Token(_ context.Context) (*Token, error) {
	if !s.tok.Valid() {
		return nil, ErrNoToken
	}
	cp := s.tok
	return &cp, nil
}

func (s *StaticTokenSource) ForceRefresh(_ context.Context) (*Token, error) {
	return nil, ErrNoRefreshToken
}
