// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kverran/homeshelf/internal/jellyfin"
	"github.com/kverran/homeshelf/internal/logging"
	"github.com/kverran/homeshelf/internal/metrics"
	"github.com/kverran/homeshelf/internal/models"
)

type sectionResolveFunc func(ctx context.Context, userID, entityName string, userConfig map[string]interface{}) (*models.SectionResult, error)

// CollectionResults answers the home-screen plugin's results callback for a
// collection-backed section.
func (h *Handler) CollectionResults(w http.ResponseWriter, r *http.Request) {
	h.sectionResults(w, r, models.SectionKindCollection, h.sections.Collection)
}

// PlaylistResults answers the results callback for a playlist-backed section.
func (h *Handler) PlaylistResults(w http.ResponseWriter, r *http.Request) {
	h.sectionResults(w, r, models.SectionKindPlaylist, h.sections.Playlist)
}

func (h *Handler) sectionResults(w http.ResponseWriter, r *http.Request, kind models.SectionKind, resolve sectionResolveFunc) {
	start := time.Now()

	var req models.SectionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		metrics.RecordSectionRequest(string(kind), "bad_request", time.Since(start), 0)
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		metrics.RecordSectionRequest(string(kind), "bad_request", time.Since(start), 0)
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	result, err := resolve(r.Context(), req.UserID, req.AdditionalData, req.UserConfiguration)
	if err != nil {
		if errors.Is(err, jellyfin.ErrUserNotFound) {
			metrics.RecordSectionRequest(string(kind), "invalid_user", time.Since(start), 0)
			respondError(w, http.StatusBadRequest, "INVALID_USER", "Unknown user", err)
			return
		}
		metrics.RecordSectionRequest(string(kind), "upstream_error", time.Since(start), 0)
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Jellyfin request failed", err)
		return
	}

	outcome := "ok"
	if result.TotalRecordCount == 0 {
		outcome = "empty"
	}
	metrics.RecordSectionRequest(string(kind), outcome, time.Since(start), result.TotalRecordCount)

	logging.Ctx(r.Context()).Debug().
		Str("kind", string(kind)).
		Str("entity", sanitizeLogValue(req.AdditionalData)).
		Int("items", result.TotalRecordCount).
		Dur("duration", time.Since(start)).
		Msg("Section results served")

	respondContract(w, http.StatusOK, result)
}

// Sections lists the configured section definitions.
func (h *Handler) Sections(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defs := h.definitions()
	if defs == nil {
		defs = []models.SectionDefinition{}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   defs,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
