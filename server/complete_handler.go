package server

import (
	"net/http"

	"github.com/jrsteele09/ghub-api/auth"
	"github.com/rs/zerolog"
)

// CompletePageData contains data for rendering the completion page
type CompletePageData struct {
	AppName   string
	Platform  string
	Success   bool
	SessionID string
	Error     string
}

// AuthCompleteHandler renders the page the browser lands on when a login finishes
func (s *Server) AuthCompleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		data := CompletePageData{
			AppName:   s.config.GetAppName(),
			Platform:  q.Get("platform"),
			Success:   q.Get("status") == "success",
			SessionID: q.Get("session_id"),
			Error:     q.Get("error"),
		}
		if data.Platform == "" {
			data.Platform = auth.PlatformSteam
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.completePage.Execute(w, data); err != nil {
			zerolog.Ctx(r.Context()).Err(err).Msg("failed to render completion page")
		}
	}
}
