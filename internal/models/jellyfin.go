// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// JellyfinUser represents a Jellyfin user account.
type JellyfinUser struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// JellyfinUserData is the per-user playback state attached to an item when
// the query is user-scoped.
type JellyfinUserData struct {
	Played         bool       `json:"Played"`
	PlayCount      int        `json:"PlayCount,omitempty"`
	IsFavorite     bool       `json:"IsFavorite,omitempty"`
	LastPlayedDate *time.Time `json:"LastPlayedDate,omitempty"`
}

// JellyfinItem represents a library item as returned by the /Users/{id}/Items
// family of endpoints. Only the fields the pipeline needs are typed; Raw keeps
// the full upstream document so responses pass item metadata through
// untouched.
type JellyfinItem struct {
	ID              string            `json:"Id"`
	Name            string            `json:"Name"`
	SortName        string            `json:"SortName,omitempty"`
	Type            string            `json:"Type"`
	DateCreated     *time.Time        `json:"DateCreated,omitempty"`
	PremiereDate    *time.Time        `json:"PremiereDate,omitempty"`
	CommunityRating *float64          `json:"CommunityRating,omitempty"`
	SeriesID        string            `json:"SeriesId,omitempty"`
	SeriesName      string            `json:"SeriesName,omitempty"`
	UserData        *JellyfinUserData `json:"UserData,omitempty"`

	// Raw is the undecoded upstream JSON for this item. It is what gets
	// serialized back to the home-screen client, so fields this service
	// never interprets still survive the round trip.
	Raw RawItem `json:"-"`
}

// RawItem is an opaque, already-encoded JSON document.
type RawItem []byte

// MarshalJSON returns the stored document verbatim.
func (r RawItem) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON stores a copy of the raw document.
func (r *RawItem) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// UnmarshalJSON decodes the typed fields and keeps the original document
// in Raw.
func (i *JellyfinItem) UnmarshalJSON(data []byte) error {
	type alias JellyfinItem
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*i = JellyfinItem(a)
	i.Raw = append(RawItem(nil), data...)
	return nil
}

// MarshalJSON returns the original upstream document when one was captured,
// so untyped fields survive; otherwise the typed fields are encoded.
func (i JellyfinItem) MarshalJSON() ([]byte, error) {
	if len(i.Raw) > 0 {
		return i.Raw, nil
	}
	type alias JellyfinItem
	return json.Marshal(alias(i))
}

// JellyfinItemsPage is the envelope Jellyfin wraps item queries in.
type JellyfinItemsPage struct {
	Items            []JellyfinItem `json:"Items"`
	TotalRecordCount int            `json:"TotalRecordCount"`
}

// IsEpisode reports whether the item is a series episode.
func (i *JellyfinItem) IsEpisode() bool {
	return i.Type == "Episode"
}

// DisplaySortName returns SortName when present, else the display name.
func (i *JellyfinItem) DisplaySortName() string {
	if i.SortName != "" {
		return i.SortName
	}
	return i.Name
}

// Rating returns the community rating, 0 when absent.
func (i *JellyfinItem) Rating() float64 {
	if i.CommunityRating == nil {
		return 0
	}
	return *i.CommunityRating
}

// CreatedAt returns DateCreated, the zero time when absent.
func (i *JellyfinItem) CreatedAt() time.Time {
	if i.DateCreated == nil {
		return time.Time{}
	}
	return *i.DateCreated
}

// PremieredAt returns PremiereDate, the zero time when absent.
func (i *JellyfinItem) PremieredAt() time.Time {
	if i.PremiereDate == nil {
		return time.Time{}
	}
	return *i.PremiereDate
}

// LastPlayedAt returns the user's last-played timestamp, the zero time when
// absent or when no user data is attached.
func (i *JellyfinItem) LastPlayedAt() time.Time {
	if i.UserData == nil || i.UserData.LastPlayedDate == nil {
		return time.Time{}
	}
	return *i.UserData.LastPlayedDate
}
