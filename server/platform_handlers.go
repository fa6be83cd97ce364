package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jrsteele09/ghub-api/platforms"
)

// PlatformsHandler serves one view of the platform catalog
func (s *Server) PlatformsHandler(view func() platforms.List) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, view())
	}
}

// PlatformByIDHandler serves a single platform or a 404
func (s *Server) PlatformByIDHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		platform, err := s.platforms.ByID(id)
		if errors.Is(err, platforms.ErrPlatformNotFound) {
			writeJSONError(w, fmt.Sprintf("platform with id '%s' not found", id), http.StatusNotFound)
			return
		}
		if err != nil {
			writeJSONError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, platform)
	}
}

// HealthHandler reports liveness
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
