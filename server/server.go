package server

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/jrsteele09/ghub-api/auth"
	"github.com/jrsteele09/ghub-api/internal/config"
	"github.com/jrsteele09/ghub-api/platforms"
	"github.com/jrsteele09/ghub-api/token"
	"github.com/rs/zerolog/log"
)

// TokenValidator checks access tokens handed out after a Steam login
type TokenValidator interface {
	ValidateAccessToken(rawToken string) (*token.Introspection, error)
}

// Dependencies holds the services the HTTP layer fronts
type Dependencies struct {
	Auth      *auth.SteamAuthService
	Tokens    TokenValidator
	Platforms *platforms.Catalog
	Metrics   http.Handler // Optional Prometheus scrape endpoint
}

type Server struct {
	env          string // Environment (e.g., "DEV", "PROD")
	mux          *http.ServeMux
	routes       []string
	config       config.Config
	auth         *auth.SteamAuthService
	tokens       TokenValidator
	platforms    *platforms.Catalog
	metrics      http.Handler
	completePage *template.Template
}

func New(config config.Config, deps Dependencies) (*Server, error) {
	if deps.Auth == nil {
		return nil, errors.New("[Server New] auth service is required")
	}
	if deps.Tokens == nil {
		return nil, errors.New("[Server New] token validator is required")
	}
	if deps.Platforms == nil {
		deps.Platforms = platforms.NewDefaultCatalog()
	}

	completePage, err := ParseTemplate("complete.html")
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse completion page: %w", err)
	}

	s := &Server{
		env:          config.GetEnv(),
		mux:          http.NewServeMux(),
		config:       config,
		auth:         deps.Auth,
		tokens:       deps.Tokens,
		platforms:    deps.Platforms,
		metrics:      deps.Metrics,
		completePage: completePage,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%s] %s", colouredMethod(method), path)
}

func colouredMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}
