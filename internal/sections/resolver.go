// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package sections

import (
	"context"
	"fmt"

	"github.com/kverran/homeshelf/internal/logging"
	"github.com/kverran/homeshelf/internal/models"
)

// Resolver turns a section's entity name into the raw candidate items for a
// user, before any filtering or sorting.
type Resolver struct {
	library LibraryStore
}

// NewResolver creates a resolver over the given library store.
func NewResolver(library LibraryStore) *Resolver {
	return &Resolver{library: library}
}

// ResolveCollection returns the first-level children of the collection with
// the given name. found is false when no collection matches; that is not an
// error, the section just renders empty.
func (r *Resolver) ResolveCollection(ctx context.Context, userID, name string) (items []models.JellyfinItem, found bool, err error) {
	collections, err := r.library.GetCollections(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("listing collections: %w", err)
	}

	collection := findByName(collections, name)
	if collection == nil {
		return nil, false, nil
	}

	children, err := r.library.GetCollectionChildren(ctx, userID, collection.ID)
	if err != nil {
		return nil, false, fmt.Errorf("listing collection children: %w", err)
	}
	return children, true, nil
}

// ResolvePlaylist returns the playlist's entries with episodes collapsed to
// their series. Each series appears once, at the position of its first
// episode; non-episode entries dedupe by their own ID.
func (r *Resolver) ResolvePlaylist(ctx context.Context, userID, name string) (items []models.JellyfinItem, found bool, err error) {
	playlists, err := r.library.GetPlaylists(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("listing playlists: %w", err)
	}

	playlist := findByName(playlists, name)
	if playlist == nil {
		return nil, false, nil
	}

	entries, err := r.library.GetPlaylistItems(ctx, userID, playlist.ID)
	if err != nil {
		return nil, false, fmt.Errorf("listing playlist items: %w", err)
	}
	return r.collapseSeries(ctx, userID, entries), true, nil
}

// collapseSeries maps each episode entry to its series and drops duplicates,
// preserving first-occurrence order. A failed series lookup keeps the episode
// itself rather than losing the entry.
func (r *Resolver) collapseSeries(ctx context.Context, userID string, entries []models.JellyfinItem) []models.JellyfinItem {
	seen := make(map[string]struct{}, len(entries))
	series := make(map[string]*models.JellyfinItem)
	out := make([]models.JellyfinItem, 0, len(entries))

	for i := range entries {
		entry := entries[i]

		key := entry.ID
		if entry.IsEpisode() && entry.SeriesID != "" {
			key = entry.SeriesID
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if key == entry.ID {
			out = append(out, entry)
			continue
		}

		rep, cached := series[key]
		if !cached {
			var err error
			rep, err = r.library.GetItem(ctx, userID, key)
			if err != nil {
				logging.Ctx(ctx).Warn().
					Err(err).
					Str("series_id", key).
					Str("episode_id", entry.ID).
					Msg("Series lookup failed, keeping episode entry")
				rep = nil
			}
			series[key] = rep
		}
		if rep == nil {
			out = append(out, entry)
			continue
		}
		out = append(out, *rep)
	}
	return out
}

// findByName returns the first item whose name matches exactly. Matching is
// case-sensitive: "Favorites" and "favorites" are different entities.
func findByName(items []models.JellyfinItem, name string) *models.JellyfinItem {
	for i := range items {
		if items[i].Name == name {
			return &items[i]
		}
	}
	return nil
}
