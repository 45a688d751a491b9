// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/kverran/homeshelf/internal/models"
)

const upstreamProbeTimeout = 5 * time.Second

// HealthLive reports process liveness; it never touches upstream.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]interface{}{"status": "alive"},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady reports whether the service can serve section results, which
// requires Jellyfin to answer.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), upstreamProbeTimeout)
	defer cancel()

	if err := h.upstream.Ping(ctx); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status: "error",
			Data:   map[string]interface{}{"status": "not_ready"},
			Metadata: models.Metadata{
				Timestamp: time.Now(),
			},
			Error: &models.APIError{
				Code:    "UPSTREAM_ERROR",
				Message: "Jellyfin is not reachable",
			},
		})
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]interface{}{"status": "ready"},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// Health reports overall service health with upstream, cache and section
// details. Jellyfin being down degrades the status without failing the
// endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), upstreamProbeTimeout)
	defer cancel()

	status := "healthy"
	jellyfinConnected := true
	if err := h.upstream.Ping(ctx); err != nil {
		status = "degraded"
		jellyfinConnected = false
	}

	stats := h.cacheStats()

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status":         status,
			"version":        h.version,
			"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
			"jellyfin": map[string]interface{}{
				"connected": jellyfinConnected,
			},
			"cache": map[string]interface{}{
				"keys":   stats.TotalKeys,
				"hits":   stats.Hits,
				"misses": stats.Misses,
			},
			"sections": len(h.definitions()),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
