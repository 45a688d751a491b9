// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package api

import (
	"context"
	"time"

	"github.com/kverran/homeshelf/internal/cache"
	"github.com/kverran/homeshelf/internal/models"
)

// SectionService resolves section results; implemented by sections.Service.
type SectionService interface {
	Collection(ctx context.Context, userID, entityName string, userConfig map[string]interface{}) (*models.SectionResult, error)
	Playlist(ctx context.Context, userID, entityName string, userConfig map[string]interface{}) (*models.SectionResult, error)
}

// Pinger reports upstream connectivity; implemented by the Jellyfin client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	sections    SectionService
	upstream    Pinger
	definitions func() []models.SectionDefinition
	cacheStats  func() cache.Stats
	version     string
	startTime   time.Time
}

// NewHandler creates the handler set. definitions returns the currently
// configured sections (it is called per request so config reloads show up
// without restarting), cacheStats reads the warm cache counters.
func NewHandler(
	sections SectionService,
	upstream Pinger,
	definitions func() []models.SectionDefinition,
	cacheStats func() cache.Stats,
	version string,
) *Handler {
	return &Handler{
		sections:    sections,
		upstream:    upstream,
		definitions: definitions,
		cacheStats:  cacheStats,
		version:     version,
		startTime:   time.Now(),
	}
}
