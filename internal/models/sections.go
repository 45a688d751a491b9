// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package models

// SectionKind distinguishes what backs a home-screen section.
type SectionKind string

const (
	// SectionKindCollection backs a section with a library collection
	// (BoxSet); results are the collection's first-level children.
	SectionKindCollection SectionKind = "Collection"

	// SectionKindPlaylist backs a section with a playlist; episode entries
	// collapse to their series and duplicates are dropped.
	SectionKindPlaylist SectionKind = "Playlist"
)

// SectionDefinition describes one configured home-screen section. Definitions
// come from configuration and are replaced wholesale on reload.
type SectionDefinition struct {
	UniqueID    string      `json:"uniqueId" koanf:"unique_id" validate:"required"`
	DisplayText string      `json:"displayText" koanf:"display_text" validate:"required"`
	// EntityName is matched case-sensitively against collection or playlist
	// names in the library.
	EntityName  string      `json:"entityName" koanf:"entity_name" validate:"required"`
	Kind        SectionKind `json:"kind" koanf:"kind" validate:"required,oneof=Collection Playlist"`
	Description string      `json:"description,omitempty" koanf:"description"`

	// Per-section view defaults, applied when the request's userConfiguration
	// omits a key (or fails to parse). Zero values fall through to the
	// built-in defaults.
	DefaultSortOrder       string `json:"defaultSortOrder,omitempty" koanf:"default_sort_order" validate:"omitempty,oneof=Default DateAdded Alphabetical Random CommunityRating PremiereDate RecentlyWatched"`
	DefaultSortDirection   string `json:"defaultSortDirection,omitempty" koanf:"default_sort_direction" validate:"omitempty,oneof=Ascending Descending"`
	DefaultWatchedHandling string `json:"defaultWatchedItemsHandling,omitempty" koanf:"default_watched_items_handling" validate:"omitempty,oneof=Show Hide"`
	DefaultItemLimit       int    `json:"defaultItemLimit,omitempty" koanf:"default_item_limit" validate:"omitempty,min=1,max=100"`
}

// SectionRequest is the body the home-screen plugin posts to the results
// endpoints. UserConfiguration is deliberately loose: the plugin forwards
// whatever per-user settings it holds, and anything unparseable falls back
// to defaults.
type SectionRequest struct {
	UserID            string                 `json:"userId" validate:"required"`
	AdditionalData    string                 `json:"additionalData" validate:"required"`
	UserConfiguration map[string]interface{} `json:"userConfiguration,omitempty"`
}

// SectionResult is the response shape the home-screen plugin expects; it is
// part of the plugin contract and must not be wrapped in APIResponse.
type SectionResult struct {
	Items            []JellyfinItem `json:"items"`
	TotalRecordCount int            `json:"totalRecordCount"`
}

// EmptySectionResult returns a result with zero items (and a non-nil slice,
// so the JSON field is [] rather than null).
func EmptySectionResult() *SectionResult {
	return &SectionResult{Items: []JellyfinItem{}}
}

// RegisterSectionPayload is the registration document posted to the
// home-screen plugin for each configured section.
type RegisterSectionPayload struct {
	ID              string `json:"id"`
	DisplayText     string `json:"displayText"`
	Limit           int    `json:"limit"`
	AdditionalData  string `json:"additionalData"`
	ResultsEndpoint string `json:"resultsEndpoint"`
}
