package server

import (
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/ghub-api/internal/errors"
	"github.com/rs/zerolog"
)

// SteamAuthURLHandler starts a login and returns the session id with the Steam URL
func (s *Server) SteamAuthURLHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := s.auth.StartLogin()
		if err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("failed to start steam login")
			writeJSONError(w, apperrors.Reason(err), apperrors.HTTPStatus(err))
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, start)
	}
}

// SteamStartHandler starts a login and sends the browser straight to Steam
func (s *Server) SteamStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := s.auth.StartLogin()
		if err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("failed to start steam login")
			http.Error(w, apperrors.Reason(err), apperrors.HTTPStatus(err))
			return
		}
		http.Redirect(w, r, start.AuthURL, http.StatusFound)
	}
}

// SteamCallbackHandler receives the OpenID assertion and redirects to the completion page
func (s *Server) SteamCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.auth.HandleCallback(r.Context(), r.URL.Query())
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Str("session_id", result.SessionID).Msg("steam callback rejected")
		}
		http.Redirect(w, r, result.RedirectURL, http.StatusFound)
	}
}

// SessionStatusHandler answers the client's poll for a login attempt
func (s *Server) SessionStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := s.auth.GetStatus(r.PathValue("sessionId"))
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		writeJSON(w, http.StatusOK, status)
	}
}

// ValidateTokenHandler validates an access token from ?token= or a Bearer header
func (s *Server) ValidateTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawToken := r.URL.Query().Get("token")
		if rawToken == "" {
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				rawToken = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if rawToken == "" {
			writeJSONError(w, "token is required", http.StatusBadRequest)
			return
		}

		introspection, err := s.tokens.ValidateAccessToken(rawToken)
		if err != nil {
			zerolog.Ctx(r.Context()).Debug().Err(err).Msg("token validation failed")
			writeJSON(w, apperrors.HTTPStatus(err), introspection)
			return
		}
		writeJSON(w, http.StatusOK, introspection)
	}
}
