// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package models

import (
	"time"
)

// APIResponse is the standard wrapper for the service's own endpoints
// (health, section introspection). The section results endpoints do NOT use
// this wrapper: their shape is dictated by the home-screen plugin contract
// (see SectionResult).
//
// Status is "success" or "error"; Error is populated only for "error".
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a structured error payload.
//
// Codes in use: VALIDATION_ERROR, INVALID_USER, UPSTREAM_ERROR,
// RATE_LIMIT_EXCEEDED, NOT_FOUND, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
