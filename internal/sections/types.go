// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

/*
Package sections resolves configured home-screen sections into item lists.

A section names a collection or playlist; resolving it walks the user's
library, applies the per-user view preferences (watched filtering, sort
order, direction, limit) and produces the result document the home-screen
plugin renders.
*/

package sections

import (
	"context"

	"github.com/kverran/homeshelf/internal/models"
)

// LibraryStore is the slice of the Jellyfin API the resolver needs. Both the
// direct client and its circuit-breaker wrapper satisfy it.
type LibraryStore interface {
	GetCollections(ctx context.Context, userID string) ([]models.JellyfinItem, error)
	GetCollectionChildren(ctx context.Context, userID, collectionID string) ([]models.JellyfinItem, error)
	GetPlaylists(ctx context.Context, userID string) ([]models.JellyfinItem, error)
	GetPlaylistItems(ctx context.Context, userID, playlistID string) ([]models.JellyfinItem, error)
	GetItem(ctx context.Context, userID, itemID string) (*models.JellyfinItem, error)
}

// WatchStateStore answers per-item playback state questions for a user. Used
// when an item arrives without inline user data.
type WatchStateStore interface {
	GetItemUserData(ctx context.Context, userID, itemID string) (*models.JellyfinUserData, error)
}

// UserDirectory validates that a user exists before a section is resolved.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*models.JellyfinUser, error)
}

// VisibilityOracle decides whether a user may see an item. The pipeline
// applies it to every candidate regardless of sort or filter settings.
type VisibilityOracle interface {
	IsVisible(ctx context.Context, userID string, item *models.JellyfinItem) bool
}

// UserScopedVisibility is the default oracle. All library reads go through
// user-scoped endpoints, so Jellyfin has already enforced library access by
// the time items reach the pipeline.
type UserScopedVisibility struct{}

// IsVisible always reports true; upstream queries are user-scoped.
func (UserScopedVisibility) IsVisible(context.Context, string, *models.JellyfinItem) bool {
	return true
}
