// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package cache

import (
	"time"

	"github.com/kverran/homeshelf/internal/metrics"
	"github.com/kverran/homeshelf/internal/models"
)

const libraryCacheName = "library"

// LibraryCache holds each user's visible collections and playlists, warmed
// at startup and read through on the request path. It is an injected
// component; callers always fall back to the upstream library when a user is
// not cached yet.
type LibraryCache struct {
	cache *Cache
}

// NewLibraryCache creates a library cache whose snapshots expire after ttl.
func NewLibraryCache(ttl time.Duration) *LibraryCache {
	return &LibraryCache{cache: New(ttl)}
}

func collectionsKey(userID string) string { return "collections:" + userID }
func playlistsKey(userID string) string   { return "playlists:" + userID }

// Collections returns the cached collections visible to the user.
func (l *LibraryCache) Collections(userID string) ([]models.JellyfinItem, bool) {
	return l.get(collectionsKey(userID))
}

// SetCollections stores the user's visible collections.
func (l *LibraryCache) SetCollections(userID string, items []models.JellyfinItem) {
	l.set(collectionsKey(userID), items)
}

// Playlists returns the cached playlists visible to the user.
func (l *LibraryCache) Playlists(userID string) ([]models.JellyfinItem, bool) {
	return l.get(playlistsKey(userID))
}

// SetPlaylists stores the user's visible playlists.
func (l *LibraryCache) SetPlaylists(userID string, items []models.JellyfinItem) {
	l.set(playlistsKey(userID), items)
}

// InvalidateUser drops both snapshots for the user.
func (l *LibraryCache) InvalidateUser(userID string) {
	l.cache.Delete(collectionsKey(userID))
	l.cache.Delete(playlistsKey(userID))
	l.updateSizeGauge()
}

// Clear drops all snapshots.
func (l *LibraryCache) Clear() {
	l.cache.Clear()
	l.updateSizeGauge()
}

// Stats exposes the underlying cache counters.
func (l *LibraryCache) Stats() Stats {
	return l.cache.GetStats()
}

func (l *LibraryCache) get(key string) ([]models.JellyfinItem, bool) {
	v, ok := l.cache.Get(key)
	if !ok {
		metrics.RecordCacheMiss(libraryCacheName)
		return nil, false
	}

	items, ok := v.([]models.JellyfinItem)
	if !ok {
		metrics.RecordCacheMiss(libraryCacheName)
		return nil, false
	}

	metrics.RecordCacheHit(libraryCacheName)
	return items, true
}

func (l *LibraryCache) set(key string, items []models.JellyfinItem) {
	l.cache.Set(key, items)
	l.updateSizeGauge()
}

func (l *LibraryCache) updateSizeGauge() {
	metrics.CacheSize.WithLabelValues(libraryCacheName).Set(float64(l.cache.GetStats().TotalKeys))
}
