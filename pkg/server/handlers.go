package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/kevinnayar/mmftostrava/pkg/infrastructure/oauth"
)

// tokenResponse is returned by the callback and refresh endpoints.
type tokenResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt,omitempty"`
	SyncQueued   bool   `json:"syncQueued"`
}

func newTokenResponse(message string, tok *oauth.Token, queued bool) tokenResponse {
	resp := tokenResponse{
		Message:      message,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		SyncQueued:   queued,
	}
	if !tok.Expiry.IsZero() {
		resp.ExpiresAt = tok.Expiry.Unix()
	}
	return resp
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAuthRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.auth.AuthCodeURL(""), http.StatusFound)
}

// handleAuthCallback completes the grant, stores the credential and queues a sync.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if denied := q.Get("error"); denied != "" {
		s.errorResponse(w, http.StatusBadRequest, "authorization denied: "+denied)
		return
	}
	code := q.Get("code")
	if code == "" {
		s.errorResponse(w, http.StatusBadRequest, "missing code")
		return
	}

	tok, err := s.auth.Exchange(r.Context(), code)
	if err != nil {
		s.logger.Error("Token exchange failed", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "token exchange failed")
		return
	}

	s.credentials.Set(tok)
	queued := s.syncer.Trigger()
	s.logger.Info("Strava authorized", "sync_queued", queued, "expires_at", tok.Expiry.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusOK, newTokenResponse("Authorization successful", tok, queued))
}

// handleRefresh runs the refresh grant on demand and queues a sync.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	tok, err := s.credentials.ForceRefresh(r.Context())
	if errors.Is(err, oauth.ErrNoRefreshToken) {
		s.errorResponse(w, http.StatusUnauthorized, "no refresh token; authorize first")
		return
	}
	if err != nil {
		s.logger.Error("Token refresh failed", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "token refresh failed")
		return
	}

	queued := s.syncer.Trigger()
	s.jsonResponse(w, http.StatusOK, newTokenResponse("Token refreshed", tok, queued))
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, _ *http.Request) {
	out, ok := s.syncer.LastOutcome()
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "no sync has run yet")
		return
	}
	s.jsonResponse(w, http.StatusOK, out)
}
