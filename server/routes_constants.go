package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Steam login
	RouteSteamAuthURL  = "/auth/steam/url"
	RouteSteamStart    = "/auth/steam/start"
	RouteSteamCallback = "/auth/steam/callback"
	RouteSteamStatus   = "/auth/steam/status/{sessionId}"
	RouteSessionStatus = "/auth/status/{sessionId}"
	RouteSteamValidate = "/auth/steam/validate"
	RouteAuthComplete  = "/auth/complete"

	// Platform catalog
	RoutePlatforms          = "/platforms"
	RoutePlatformsEnabled   = "/platforms/enabled"
	RoutePlatformsAvailable = "/platforms/available"
	RoutePlatformByID       = "/platforms/{id}"

	// Operations
	RouteHealth  = "/health"
	RouteMetrics = "/metrics"
)
