// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package registry

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/kverran/homeshelf/internal/logging"
	"github.com/kverran/homeshelf/internal/metrics"
	"github.com/kverran/homeshelf/internal/models"
)

const (
	readyEndpoint    = "/HomeScreen/Ready"
	registerEndpoint = "/HomeScreen/RegisterSection"
)

// Options configures an Announcer.
type Options struct {
	// HomeScreenURL is the base URL of the Jellyfin server hosting the
	// home-screen plugin.
	HomeScreenURL string
	// APIKey authenticates registration calls.
	APIKey string
	// ResultsBaseURL is this service's externally reachable base URL,
	// advertised as the prefix of every section's results endpoint.
	ResultsBaseURL string

	// ReadyAttempts and ReadyInterval bound the readiness probe loop.
	ReadyAttempts int
	ReadyInterval time.Duration

	// RegisterPerSecond paces registration calls; zero means unpaced.
	RegisterPerSecond float64

	// Timeout applies per HTTP call.
	Timeout time.Duration
}

// Announcer registers sections with the home-screen plugin and tracks what
// has been registered so reloads replay only the delta.
type Announcer struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	resultsBaseURL string
	attempts       int
	interval       time.Duration
	limiter        *rate.Limiter

	mu         sync.Mutex
	registered []models.SectionDefinition
}

// NewAnnouncer creates an announcer from opts, filling unset fields with
// working defaults.
func NewAnnouncer(opts Options) *Announcer {
	if opts.ReadyAttempts <= 0 {
		opts.ReadyAttempts = 60
	}
	if opts.ReadyInterval <= 0 {
		opts.ReadyInterval = 5 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RegisterPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RegisterPerSecond), 1)
	}

	return &Announcer{
		httpClient:     &http.Client{Timeout: opts.Timeout},
		baseURL:        strings.TrimSuffix(opts.HomeScreenURL, "/"),
		apiKey:         opts.APIKey,
		resultsBaseURL: strings.TrimSuffix(opts.ResultsBaseURL, "/"),
		attempts:       opts.ReadyAttempts,
		interval:       opts.ReadyInterval,
		limiter:        limiter,
	}
}

// WaitReady probes the home-screen plugin until it answers, or until the
// attempt budget runs out. The plugin routinely takes a while to come up
// after a Jellyfin restart, so the default budget is generous.
func (a *Announcer) WaitReady(ctx context.Context) error {
	var lastErr error

	for attempt := 1; attempt <= a.attempts; attempt++ {
		metrics.RegistrationReadinessProbes.Inc()

		if err := a.probe(ctx); err == nil {
			logging.Info().Int("attempt", attempt).Msg("Home screen plugin is ready")
			return nil
		} else {
			lastErr = err
			logging.Debug().
				Err(err).
				Int("attempt", attempt).
				Int("max_attempts", a.attempts).
				Msg("Home screen plugin not ready yet")
		}

		if attempt < a.attempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(a.interval):
			}
		}
	}

	return fmt.Errorf("home screen plugin not ready after %d attempts: %w", a.attempts, lastErr)
}

func (a *Announcer) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+readyEndpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create readiness request: %w", err)
	}
	req.Header.Set("X-Emby-Token", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("readiness probe failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("readiness probe returned status %d", resp.StatusCode)
	}
	return nil
}

// Sync reconciles the desired section set against what is already registered
// and replays the delta. Removed sections cannot be unregistered (the plugin
// has no endpoint for it); they are logged and stay visible until the next
// Jellyfin restart.
func (a *Announcer) Sync(ctx context.Context, desired []models.SectionDefinition) error {
	a.mu.Lock()
	current := a.registered
	a.mu.Unlock()

	diff := Reconcile(current, desired)
	if diff.Empty() {
		logging.Debug().Msg("Section registrations already up to date")
		return nil
	}

	for _, s := range diff.Register {
		if err := a.register(ctx, s); err != nil {
			return err
		}
	}
	for _, s := range diff.Update {
		if err := a.register(ctx, s); err != nil {
			return err
		}
	}
	for _, s := range diff.Unregister {
		logging.Warn().
			Str("unique_id", s.UniqueID).
			Str("display_text", s.DisplayText).
			Msg("Section removed from configuration; it stays registered until Jellyfin restarts")
	}

	a.mu.Lock()
	a.registered = slices.Clone(desired)
	a.mu.Unlock()
	metrics.SectionsRegistered.Set(float64(len(desired)))

	logging.Info().
		Int("registered", len(diff.Register)).
		Int("updated", len(diff.Update)).
		Int("removed", len(diff.Unregister)).
		Msg("Section registrations reconciled")
	return nil
}

// Registered returns a copy of the currently registered section set.
func (a *Announcer) Registered() []models.SectionDefinition {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.registered)
}

func (a *Announcer) register(ctx context.Context, def models.SectionDefinition) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	err := a.postRegistration(ctx, a.payloadFor(def))
	metrics.RecordRegistration("register", err)
	if err != nil {
		return fmt.Errorf("registering section %q: %w", def.UniqueID, err)
	}

	logging.Info().
		Str("unique_id", def.UniqueID).
		Str("display_text", def.DisplayText).
		Str("kind", string(def.Kind)).
		Msg("Section registered with home screen")
	return nil
}

func (a *Announcer) payloadFor(def models.SectionDefinition) models.RegisterSectionPayload {
	endpoint := a.resultsBaseURL + "/CollectionSections/Collection"
	if def.Kind == models.SectionKindPlaylist {
		endpoint = a.resultsBaseURL + "/CollectionSections/Playlist"
	}

	return models.RegisterSectionPayload{
		ID:          def.UniqueID,
		DisplayText: def.DisplayText,
		// One section instance per definition; the per-user item limit is a
		// view preference, not a registration property.
		Limit:           1,
		AdditionalData:  def.EntityName,
		ResultsEndpoint: endpoint,
	}
}

func (a *Announcer) postRegistration(ctx context.Context, payload models.RegisterSectionPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode registration payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+registerEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create registration request: %w", err)
	}
	req.Header.Set("X-Emby-Token", a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("registration request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("registration returned status %d", resp.StatusCode)
	}
	return nil
}
