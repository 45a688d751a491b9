// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package sections

import (
	"github.com/goccy/go-json"

	"github.com/kverran/homeshelf/internal/logging"
	"github.com/kverran/homeshelf/internal/models"
)

// Sort orders the pipeline understands. Anything else behaves as
// SortOrderDefault.
const (
	SortOrderDefault         = "Default"
	SortOrderDateAdded       = "DateAdded"
	SortOrderAlphabetical    = "Alphabetical"
	SortOrderRandom          = "Random"
	SortOrderCommunityRating = "CommunityRating"
	SortOrderPremiereDate    = "PremiereDate"
	SortOrderRecentlyWatched = "RecentlyWatched"
)

// Sort directions. Descending is the default and means the fully assembled
// sequence is reversed, whatever the sort order produced.
const (
	SortAscending  = "Ascending"
	SortDescending = "Descending"
)

// Watched-item handling modes.
const (
	WatchedShow = "Show"
	WatchedHide = "Hide"
)

// DefaultItemLimit caps a section when the user has not chosen a limit.
const DefaultItemLimit = 32

// UserSectionConfig is the per-user view preference set the home-screen
// plugin forwards with each results request.
type UserSectionConfig struct {
	SortOrder            string `json:"sortOrder"`
	SortDirection        string `json:"sortDirection"`
	WatchedItemsHandling string `json:"watchedItemsHandling"`
	ItemLimit            int    `json:"itemLimit"`
}

// DefaultUserConfig returns the preference set used when the plugin sends
// nothing, or sends something unusable.
func DefaultUserConfig() UserSectionConfig {
	return UserSectionConfig{
		SortOrder:            SortOrderDefault,
		SortDirection:        SortDescending,
		WatchedItemsHandling: WatchedShow,
		ItemLimit:            DefaultItemLimit,
	}
}

// SectionDefaults builds the preference set a section starts from: the
// built-in defaults overridden by whatever per-section defaults the
// definition carries. A nil definition yields the built-ins unchanged.
func SectionDefaults(def *models.SectionDefinition) UserSectionConfig {
	cfg := DefaultUserConfig()
	if def == nil {
		return cfg
	}
	if def.DefaultSortOrder != "" {
		cfg.SortOrder = def.DefaultSortOrder
	}
	if def.DefaultSortDirection != "" {
		cfg.SortDirection = def.DefaultSortDirection
	}
	if def.DefaultWatchedHandling != "" {
		cfg.WatchedItemsHandling = def.DefaultWatchedHandling
	}
	if def.DefaultItemLimit > 0 {
		cfg.ItemLimit = def.DefaultItemLimit
	}
	return cfg
}

// ParseUserConfiguration converts the loose userConfiguration document into a
// typed config seeded from base (the section's defaults). Keys that are
// present override base; missing keys keep it. Any shape the document cannot
// be coerced into (wrong types, fractional limits) drops the whole document
// and falls back to base, so a misbehaving client degrades to the section's
// stock view instead of an error.
func ParseUserConfiguration(base UserSectionConfig, raw map[string]interface{}) UserSectionConfig {
	cfg := base
	if len(raw) == 0 {
		return cfg
	}

	data, err := json.Marshal(raw)
	if err != nil {
		logging.Debug().Err(err).Msg("Unusable user configuration, using section defaults")
		return base
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		logging.Debug().Err(err).Msg("Unusable user configuration, using section defaults")
		return base
	}
	return cfg
}
