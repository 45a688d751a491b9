// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kverran/homeshelf/internal/models"
)

func TestParseUserConfiguration(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
		want UserSectionConfig
	}{
		{
			name: "nil document uses defaults",
			raw:  nil,
			want: DefaultUserConfig(),
		},
		{
			name: "empty document uses defaults",
			raw:  map[string]interface{}{},
			want: DefaultUserConfig(),
		},
		{
			name: "full document overrides everything",
			raw: map[string]interface{}{
				"sortOrder":            "Alphabetical",
				"sortDirection":        "Ascending",
				"watchedItemsHandling": "Hide",
				"itemLimit":            10,
			},
			want: UserSectionConfig{
				SortOrder:            SortOrderAlphabetical,
				SortDirection:        SortAscending,
				WatchedItemsHandling: WatchedHide,
				ItemLimit:            10,
			},
		},
		{
			name: "partial document keeps defaults for missing keys",
			raw: map[string]interface{}{
				"sortOrder": "DateAdded",
			},
			want: UserSectionConfig{
				SortOrder:            SortOrderDateAdded,
				SortDirection:        SortDescending,
				WatchedItemsHandling: WatchedShow,
				ItemLimit:            DefaultItemLimit,
			},
		},
		{
			name: "unknown keys are ignored",
			raw: map[string]interface{}{
				"itemLimit": 5,
				"theme":     "dark",
			},
			want: UserSectionConfig{
				SortOrder:            SortOrderDefault,
				SortDirection:        SortDescending,
				WatchedItemsHandling: WatchedShow,
				ItemLimit:            5,
			},
		},
		{
			name: "wrong type drops the whole document",
			raw: map[string]interface{}{
				"sortOrder": "Alphabetical",
				"itemLimit": "ten",
			},
			want: DefaultUserConfig(),
		},
		{
			name: "fractional limit drops the whole document",
			raw: map[string]interface{}{
				"itemLimit": 12.5,
			},
			want: DefaultUserConfig(),
		},
		{
			name: "unrecognized sort order passes through",
			raw: map[string]interface{}{
				"sortOrder": "Zigzag",
			},
			want: UserSectionConfig{
				SortOrder:            "Zigzag",
				SortDirection:        SortDescending,
				WatchedItemsHandling: WatchedShow,
				ItemLimit:            DefaultItemLimit,
			},
		},
		{
			name: "integral float limit is accepted",
			raw: map[string]interface{}{
				"itemLimit": float64(7),
			},
			want: UserSectionConfig{
				SortOrder:            SortOrderDefault,
				SortDirection:        SortDescending,
				WatchedItemsHandling: WatchedShow,
				ItemLimit:            7,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseUserConfiguration(DefaultUserConfig(), tt.raw))
		})
	}
}

func TestParseUserConfigurationSeedsFromBase(t *testing.T) {
	base := UserSectionConfig{
		SortOrder:            SortOrderDateAdded,
		SortDirection:        SortAscending,
		WatchedItemsHandling: WatchedHide,
		ItemLimit:            12,
	}

	t.Run("empty document keeps the base", func(t *testing.T) {
		assert.Equal(t, base, ParseUserConfiguration(base, nil))
	})

	t.Run("present keys override, missing keys keep the base", func(t *testing.T) {
		got := ParseUserConfiguration(base, map[string]interface{}{
			"sortOrder": "Alphabetical",
		})
		assert.Equal(t, UserSectionConfig{
			SortOrder:            SortOrderAlphabetical,
			SortDirection:        SortAscending,
			WatchedItemsHandling: WatchedHide,
			ItemLimit:            12,
		}, got)
	})

	t.Run("unusable document falls back to the base, not the built-ins", func(t *testing.T) {
		got := ParseUserConfiguration(base, map[string]interface{}{
			"itemLimit": "lots",
		})
		assert.Equal(t, base, got)
	})
}

func TestSectionDefaults(t *testing.T) {
	t.Run("nil definition yields the built-ins", func(t *testing.T) {
		assert.Equal(t, DefaultUserConfig(), SectionDefaults(nil))
	})

	t.Run("empty definition yields the built-ins", func(t *testing.T) {
		assert.Equal(t, DefaultUserConfig(), SectionDefaults(&models.SectionDefinition{}))
	})

	t.Run("definition defaults override the built-ins field by field", func(t *testing.T) {
		def := &models.SectionDefinition{
			DefaultSortOrder:       SortOrderDateAdded,
			DefaultWatchedHandling: WatchedHide,
		}
		got := SectionDefaults(def)
		assert.Equal(t, UserSectionConfig{
			SortOrder:            SortOrderDateAdded,
			SortDirection:        SortDescending,
			WatchedItemsHandling: WatchedHide,
			ItemLimit:            DefaultItemLimit,
		}, got)
	})

	t.Run("fully specified definition wins everywhere", func(t *testing.T) {
		def := &models.SectionDefinition{
			DefaultSortOrder:       SortOrderAlphabetical,
			DefaultSortDirection:   SortAscending,
			DefaultWatchedHandling: WatchedHide,
			DefaultItemLimit:       7,
		}
		got := SectionDefaults(def)
		assert.Equal(t, UserSectionConfig{
			SortOrder:            SortOrderAlphabetical,
			SortDirection:        SortAscending,
			WatchedItemsHandling: WatchedHide,
			ItemLimit:            7,
		}, got)
	})
}

func TestDefaultUserConfig(t *testing.T) {
	cfg := DefaultUserConfig()
	assert.Equal(t, SortOrderDefault, cfg.SortOrder)
	assert.Equal(t, SortDescending, cfg.SortDirection)
	assert.Equal(t, WatchedShow, cfg.WatchedItemsHandling)
	assert.Equal(t, DefaultItemLimit, cfg.ItemLimit)
}
