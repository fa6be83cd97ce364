package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/ghub-api/auth"
	"github.com/jrsteele09/ghub-api/internal/config"
	"github.com/jrsteele09/ghub-api/internal/logging"
	"github.com/jrsteele09/ghub-api/metrics"
	"github.com/jrsteele09/ghub-api/openid"
	"github.com/jrsteele09/ghub-api/platforms"
	"github.com/jrsteele09/ghub-api/server"
	"github.com/jrsteele09/ghub-api/sessions"
	"github.com/jrsteele09/ghub-api/steam"
	"github.com/jrsteele09/ghub-api/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	logging.Setup(c.GetEnv(), c.GetLogLevel())
	displayAppname(c.GetAppName())

	if c.GetSteamCallbackURL() == "" {
		log.Warn().Msg("STEAM_CALLBACK_URL not set, steam logins will fail until it is configured")
	}
	if c.GetSteamAPIKey() == "" {
		log.Warn().Msg("STEAM_API_KEY not set, steam profile lookups will fail")
	}

	store := sessions.NewInMemoryStore(sessions.WithTTL(c.GetSessionTTL()))
	store.StartSweeper(c.GetSessionSweepInterval())
	defer func() { _ = store.Close() }()

	tokens, err := token.NewManager(c)
	if err != nil {
		return err
	}

	var (
		recorder       metrics.Recorder = metrics.NewNoopRecorder()
		metricsHandler http.Handler
	)
	if c.GetMetricsEnabled() {
		prom := metrics.NewPrometheusRecorder()
		prom.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "ghub_steam_sessions",
			Help: "Login sessions currently held in memory",
		}, func() float64 { return float64(store.Len()) }))
		recorder, metricsHandler = prom, prom.Handler()
	}

	httpClient := &http.Client{Timeout: c.GetHTTPClientTimeout()}
	authService, err := auth.NewSteamAuthService(auth.Dependencies{
		Sessions: store,
		Verifier: openid.NewHTTPVerifier(c.GetSteamOpenIDURL(), httpClient, c.GetHTTPClientTimeout()),
		Profiles: steam.NewClient(c.GetSteamAPIURL(), c.GetSteamAPIKey(), httpClient, c.GetHTTPClientTimeout()),
		Issuer:   tokens,
	}, c, auth.WithMetrics(recorder))
	if err != nil {
		return err
	}

	handler, err := server.New(c, server.Dependencies{
		Auth:      authService,
		Tokens:    tokens,
		Platforms: platforms.NewDefaultCatalog(),
		Metrics:   metricsHandler,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return listenAndServe(httpServer)
	})
	g.Go(func() error {
		<-ctx.Done()
		return shutdown(httpServer)
	})
	return g.Wait()
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
