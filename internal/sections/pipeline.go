// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package sections

import (
	"context"
	"math/rand/v2"
	"slices"
	"sort"
	"time"

	"github.com/kverran/homeshelf/internal/logging"
	"github.com/kverran/homeshelf/internal/metrics"
	"github.com/kverran/homeshelf/internal/models"
)

// Pipeline applies the per-user view preferences to resolved candidates, in
// fixed stage order: visibility, watched filtering, sort, direction, limit.
type Pipeline struct {
	visibility VisibilityOracle
	watchState WatchStateStore

	// shuffle is swappable so tests can pin the Random order.
	shuffle func(n int, swap func(i, j int))
}

// NewPipeline creates a pipeline over the given collaborators.
func NewPipeline(visibility VisibilityOracle, watchState WatchStateStore) *Pipeline {
	return &Pipeline{
		visibility: visibility,
		watchState: watchState,
		shuffle:    rand.Shuffle,
	}
}

// Apply runs the candidate items through every stage and returns the final
// sequence. The input slice is not modified.
func (p *Pipeline) Apply(ctx context.Context, userID string, items []models.JellyfinItem, cfg UserSectionConfig) []models.JellyfinItem {
	out := make([]models.JellyfinItem, 0, len(items))
	for i := range items {
		if p.visibility.IsVisible(ctx, userID, &items[i]) {
			out = append(out, items[i])
		}
	}

	if cfg.WatchedItemsHandling == WatchedHide {
		out = p.filterWatched(ctx, userID, out)
	}

	p.sortItems(ctx, userID, out, cfg.SortOrder)

	// Descending reverses the assembled sequence wholesale. Every sort order
	// above produces ascending output, so one reversal covers them all, and
	// pass-through orders (Default, Random) flip too.
	if cfg.SortDirection != SortAscending {
		slices.Reverse(out)
	}

	if cfg.ItemLimit > 0 && len(out) > cfg.ItemLimit {
		out = out[:cfg.ItemLimit]
	}
	return out
}

// filterWatched drops items the user has played. A failed watch-state lookup
// counts the item as unplayed so a degraded upstream hides nothing it
// shouldn't.
func (p *Pipeline) filterWatched(ctx context.Context, userID string, items []models.JellyfinItem) []models.JellyfinItem {
	out := items[:0]
	for i := range items {
		if !p.isPlayed(ctx, userID, &items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

func (p *Pipeline) isPlayed(ctx context.Context, userID string, item *models.JellyfinItem) bool {
	if item.UserData != nil {
		return item.UserData.Played
	}

	data, err := p.watchState.GetItemUserData(ctx, userID, item.ID)
	if err != nil {
		metrics.WatchStateFailures.Inc()
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("item_id", item.ID).
			Msg("Watch state lookup failed, treating item as unplayed")
		return false
	}
	return data.Played
}

func (p *Pipeline) lastPlayed(ctx context.Context, userID string, item *models.JellyfinItem) time.Time {
	if item.UserData != nil {
		return item.LastPlayedAt()
	}

	data, err := p.watchState.GetItemUserData(ctx, userID, item.ID)
	if err != nil {
		metrics.WatchStateFailures.Inc()
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("item_id", item.ID).
			Msg("Watch state lookup failed, treating item as never played")
		return time.Time{}
	}
	if data.LastPlayedDate == nil {
		return time.Time{}
	}
	return *data.LastPlayedDate
}

// sortItems orders items ascending by the requested key, in place. Unknown
// keys behave as Default and leave the resolver's order untouched. Absent
// values sort first: missing ratings count as zero, missing dates as the
// zero time.
func (p *Pipeline) sortItems(ctx context.Context, userID string, items []models.JellyfinItem, sortOrder string) {
	switch sortOrder {
	case SortOrderDateAdded:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt().Before(items[j].CreatedAt())
		})
	case SortOrderAlphabetical:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].DisplaySortName() < items[j].DisplaySortName()
		})
	case SortOrderRandom:
		p.shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
	case SortOrderCommunityRating:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Rating() < items[j].Rating()
		})
	case SortOrderPremiereDate:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].PremieredAt().Before(items[j].PremieredAt())
		})
	case SortOrderRecentlyWatched:
		keys := make([]time.Time, len(items))
		for i := range items {
			keys[i] = p.lastPlayed(ctx, userID, &items[i])
		}
		sort.Stable(&keyedItems{items: items, keys: keys})
	default:
		// Default and anything unrecognized: resolver order stands.
	}
}

// keyedItems pairs items with precomputed sort keys so the key lookups (which
// may hit the watch-state store) run once per item, not once per comparison.
type keyedItems struct {
	items []models.JellyfinItem
	keys  []time.Time
}

func (k *keyedItems) Len() int { return len(k.items) }

func (k *keyedItems) Less(i, j int) bool { return k.keys[i].Before(k.keys[j]) }

func (k *keyedItems) Swap(i, j int) {
	k.items[i], k.items[j] = k.items[j], k.items[i]
	k.keys[i], k.keys[j] = k.keys[j], k.keys[i]
}
