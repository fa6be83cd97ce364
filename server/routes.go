package server

import (
	"net/http"
)

// PreflightHandler answers CORS preflights; the headers come from CorsMiddleware
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) initRoutes() {
	// Steam login API
	s.RegisterRouteHandler("POST "+RouteSteamAuthURL, ChainMiddleware(s.SteamAuthURLHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSteamStatus, ChainMiddleware(s.SessionStatusHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSessionStatus, ChainMiddleware(s.SessionStatusHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSteamValidate, ChainMiddleware(s.ValidateTokenHandler(), s.APIMiddleware()...))

	// Browser facing steps of the login
	s.RegisterRouteHandler("GET "+RouteSteamStart, ChainMiddleware(s.SteamStartHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteSteamCallback, ChainMiddleware(s.SteamCallbackHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthComplete, ChainMiddleware(s.AuthCompleteHandler(), s.HTMLMiddleWare()...))

	// Platform catalog
	s.RegisterRouteHandler("GET "+RoutePlatforms, ChainMiddleware(s.PlatformsHandler(s.platforms.All), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RoutePlatformsEnabled, ChainMiddleware(s.PlatformsHandler(s.platforms.Enabled), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RoutePlatformsAvailable, ChainMiddleware(s.PlatformsHandler(s.platforms.Available), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RoutePlatformByID, ChainMiddleware(s.PlatformByIDHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))
	if s.metrics != nil {
		s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics)
	}

	// CORS preflight for the JSON API
	s.RegisterRouteFunc("OPTIONS /", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
}
