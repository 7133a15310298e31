package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	StravaAuthURL  = "https://www.strava.com/oauth/authorize"
	StravaTokenURL = "https://www.strava.com/oauth/token"

	// ScopeActivityWrite is the only scope the uploader asks for.
	ScopeActivityWrite = "activity:write"
)

// ProviderConfig holds the Strava application credentials.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// AuthURL and TokenURL default to Strava's endpoints.
	AuthURL  string
	TokenURL string
}

// Provider performs the authorization-code and refresh-token grants against Strava.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewProvider builds a Provider. httpClient may be nil.
func NewProvider(cfg ProviderConfig, httpClient *http.Client) *Provider {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = StravaAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = StravaTokenURL
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{ScopeActivityWrite},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

// AuthCodeURL returns the authorize URL the user is redirected to.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "auto"))
}

// Exchange trades an authorization code for a token.
func (p *Provider) Exchange(ctx context.Context, code string) (*Token, error) {
	if code == "" {
		return nil, errors.New("oauth: empty authorization code")
	}
	tok, err := p.config.Exchange(p.withClient(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("oauth: code exchange failed: %w", err)
	}
	return fromOAuth2(tok), nil
}

// Refresh runs the refresh-token grant. It matches the Refresher signature.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	src := p.config.TokenSource(p.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("oauth: refresh failed: %w", err)
	}
	return fromOAuth2(tok), nil
}

func (p *Provider) withClient(ctx context.Context) context.Context {
	if p.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// fromOAuth2 converts the library token. Strava returns both expires_in and
// expires_at; expires_at wins when present.
func fromOAuth2(tok *oauth2.Token) *Token {
	out := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
	switch v := tok.Extra("expires_at").(type) {
	case float64:
		out.Expiry = time.Unix(int64(v), 0)
	case int64:
		out.Expiry = time.Unix(v, 0)
	}
	return out
}
