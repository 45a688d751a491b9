// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package sections

import (
	"context"

	"github.com/kverran/homeshelf/internal/cache"
	"github.com/kverran/homeshelf/internal/models"
)

var _ LibraryStore = (*CachedLibraryStore)(nil)

// CachedLibraryStore reads collection and playlist listings through the warm
// library cache. A miss falls through to the upstream store and populates the
// cache, so requests never wait on the startup warm-up. Children, playlist
// entries and single items always go upstream; only the listings are cached.
type CachedLibraryStore struct {
	LibraryStore
	cache *cache.LibraryCache
}

// NewCachedLibraryStore wraps store with the given library cache.
func NewCachedLibraryStore(store LibraryStore, c *cache.LibraryCache) *CachedLibraryStore {
	return &CachedLibraryStore{LibraryStore: store, cache: c}
}

// GetCollections returns the cached collections listing, reading through on a
// miss.
func (s *CachedLibraryStore) GetCollections(ctx context.Context, userID string) ([]models.JellyfinItem, error) {
	if items, ok := s.cache.Collections(userID); ok {
		return items, nil
	}

	items, err := s.LibraryStore.GetCollections(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetCollections(userID, items)
	return items, nil
}

// GetPlaylists returns the cached playlists listing, reading through on a
// miss.
func (s *CachedLibraryStore) GetPlaylists(ctx context.Context, userID string) ([]models.JellyfinItem, error) {
	if items, ok := s.cache.Playlists(userID); ok {
		return items, nil
	}

	items, err := s.LibraryStore.GetPlaylists(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetPlaylists(userID, items)
	return items, nil
}

// Warm fetches both listings for the user straight from upstream and stores
// them, refreshing any cached copy.
func (s *CachedLibraryStore) Warm(ctx context.Context, userID string) error {
	collections, err := s.LibraryStore.GetCollections(ctx, userID)
	if err != nil {
		return err
	}
	playlists, err := s.LibraryStore.GetPlaylists(ctx, userID)
	if err != nil {
		return err
	}

	s.cache.SetCollections(userID, collections)
	s.cache.SetPlaylists(userID, playlists)
	return nil
}
