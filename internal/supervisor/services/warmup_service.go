// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package services

import (
	"context"
	"time"

	"github.com/kverran/homeshelf/internal/logging"
	"github.com/kverran/homeshelf/internal/metrics"
	"github.com/kverran/homeshelf/internal/models"
)

// UserLister enumerates Jellyfin users; implemented by the Jellyfin client.
type UserLister interface {
	GetUsers(ctx context.Context) ([]models.JellyfinUser, error)
}

// LibraryWarmer populates a user's library cache entries; implemented by
// sections.CachedLibraryStore.
type LibraryWarmer interface {
	Warm(ctx context.Context, userID string) error
}

// WarmupService fills the library cache for every user at startup and
// re-warms on an interval so entries never expire on the request path.
// Warm-up failures are logged, not fatal: requests fall back to direct
// upstream reads for users that are not cached.
type WarmupService struct {
	users    UserLister
	warmer   LibraryWarmer
	interval time.Duration
	name     string
}

// NewWarmupService creates the warm-up service. interval is the re-warm
// period; zero uses 5 minutes.
func NewWarmupService(users UserLister, warmer LibraryWarmer, interval time.Duration) *WarmupService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &WarmupService{
		users:    users,
		warmer:   warmer,
		interval: interval,
		name:     "cache-warmup",
	}
}

// Serve implements suture.Service: one immediate warm-up pass, then one per
// interval until the context is canceled.
func (s *WarmupService) Serve(ctx context.Context) error {
	s.warmAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.warmAll(ctx)
		}
	}
}

func (s *WarmupService) warmAll(ctx context.Context) {
	start := time.Now()

	users, err := s.users.GetUsers(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Cache warm-up skipped: user listing failed")
		return
	}

	cached := 0
	for _, user := range users {
		if ctx.Err() != nil {
			return
		}
		if err := s.warmer.Warm(ctx, user.ID); err != nil {
			logging.Warn().
				Err(err).
				Str("user_id", user.ID).
				Msg("Cache warm-up failed for user")
			continue
		}
		cached++
	}

	metrics.WarmupDuration.Observe(time.Since(start).Seconds())
	metrics.WarmupUsersCached.Set(float64(cached))

	logging.Info().
		Int("users", len(users)).
		Int("cached", cached).
		Dur("duration", time.Since(start)).
		Msg("Library cache warmed")
}

// String implements fmt.Stringer.
func (s *WarmupService) String() string {
	return s.name
}
