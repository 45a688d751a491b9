// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

// Package main is the entry point for the Homeshelf server.
//
// Homeshelf turns Jellyfin collections and playlists into custom home-screen
// sections. It registers each configured section with the home-screen plugin
// hosted on the Jellyfin server and answers the plugin's result callbacks
// with per-user, per-configuration item lists.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, YAML file, environment (Koanf v2)
//  2. Jellyfin client: circuit-breaker wrapped REST client
//  3. Library cache: warm per-user collection/playlist snapshots
//  4. Section service: resolve, filter, sort, and limit section results
//  5. HTTP server: plugin result callbacks plus health and metrics endpoints
//  6. Supervisor tree: suture-managed cache warm-up, registration, and HTTP
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (JELLYFIN_URL, JELLYFIN_API_KEY, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// Sections themselves can only come from the config file; the file is
// watched and registrations are re-synced on change.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the HTTP server
// drains in-flight requests (10s timeout) and background services stop with
// the supervisor tree.
//
// # Example Usage
//
//	export JELLYFIN_URL=http://localhost:8096
//	export JELLYFIN_API_KEY=your-api-key
//	./homeshelf
//
// Behind a reverse proxy, advertise the externally reachable base URL so the
// plugin's callbacks land here:
//
//	export PUBLIC_URL=https://homeshelf.example.com
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/kverran/homeshelf/internal/api"
	"github.com/kverran/homeshelf/internal/cache"
	"github.com/kverran/homeshelf/internal/config"
	"github.com/kverran/homeshelf/internal/jellyfin"
	"github.com/kverran/homeshelf/internal/logging"
	"github.com/kverran/homeshelf/internal/metrics"
	"github.com/kverran/homeshelf/internal/models"
	"github.com/kverran/homeshelf/internal/registry"
	"github.com/kverran/homeshelf/internal/sections"
	"github.com/kverran/homeshelf/internal/supervisor"
	"github.com/kverran/homeshelf/internal/supervisor/services"
)

// version is set at build time via -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("jellyfin_url", cfg.Jellyfin.URL).
		Int("sections", len(cfg.Sections)).
		Bool("registration_enabled", cfg.HomeScreen.Enabled).
		Msg("Starting Homeshelf")

	// Jellyfin client with circuit breaker so a dead upstream fails fast
	// instead of piling up blocked callbacks.
	client := jellyfin.NewCircuitBreakerClient(
		jellyfin.NewClient(cfg.Jellyfin.URL, cfg.Jellyfin.APIKey, cfg.Jellyfin.Timeout),
	)
	if err := client.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Failed to connect to Jellyfin (will retry)")
	} else {
		logging.Info().Msg("Connected to Jellyfin")
	}

	// Section definitions are replaced wholesale on config reload; everything
	// downstream reads them through this provider.
	var sectionsMu sync.RWMutex
	definitions := cfg.Sections
	currentSections := func() []models.SectionDefinition {
		sectionsMu.RLock()
		defer sectionsMu.RUnlock()
		return slices.Clone(definitions)
	}

	// Library cache and the section result machinery.
	libraryCache := cache.NewLibraryCache(cfg.Cache.TTL)
	store := sections.NewCachedLibraryStore(client, libraryCache)
	resolver := sections.NewResolver(store)
	pipeline := sections.NewPipeline(sections.UserScopedVisibility{}, client)
	sectionService := sections.NewService(client, resolver, pipeline, currentSections)

	// HTTP surface.
	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled

	handler := api.NewHandler(sectionService, client, currentSections, libraryCache.Stats, version)
	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	announcer := registry.NewAnnouncer(registry.Options{
		HomeScreenURL:     cfg.HomeScreenURL(),
		APIKey:            cfg.Jellyfin.APIKey,
		ResultsBaseURL:    cfg.ResultsBaseURL(),
		ReadyAttempts:     cfg.HomeScreen.ReadyAttempts,
		ReadyInterval:     cfg.HomeScreen.ReadyInterval,
		RegisterPerSecond: cfg.HomeScreen.RegisterPerSecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Cache.WarmupEnabled {
		// Re-warm at half the TTL so snapshots never expire on the request
		// path.
		tree.AddBackgroundService(services.NewWarmupService(client, store, cfg.Cache.TTL/2))
		logging.Info().Dur("ttl", cfg.Cache.TTL).Msg("Cache warm-up service added")
	}

	var registryService *services.RegistryService
	if cfg.HomeScreen.Enabled {
		registryService = services.NewRegistryService(announcer, currentSections)
		tree.AddBackgroundService(registryService)
		logging.Info().
			Str("home_screen_url", cfg.HomeScreenURL()).
			Str("results_base_url", cfg.ResultsBaseURL()).
			Msg("Section registration service added")
	} else {
		logging.Info().Msg("Section registration disabled")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Reload sections when the config file changes; registration re-syncs
	// the delta.
	if path := config.FindConfigFile(); path != "" {
		watchErr := config.WatchConfigFile(path, func() {
			reloaded, err := config.Load()
			if err != nil {
				logging.Warn().Err(err).Msg("Config reload failed, keeping previous configuration")
				return
			}

			sectionsMu.Lock()
			definitions = reloaded.Sections
			sectionsMu.Unlock()

			logging.SetLevelString(reloaded.Logging.Level)
			logging.Info().Int("sections", len(reloaded.Sections)).Msg("Configuration reloaded")

			if registryService != nil {
				registryService.Trigger()
			}
		})
		if watchErr != nil {
			logging.Warn().Err(watchErr).Str("path", path).Msg("Config file watch failed")
		}
	}

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.AppUptime.Set(time.Since(startTime).Seconds())
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain the error channel so shutdown errors are not lost.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Homeshelf stopped")
}
