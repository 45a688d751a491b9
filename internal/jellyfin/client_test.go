// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package jellyfin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// ============================================================================
// Test helpers
// ============================================================================

func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func checkStringEqual(t *testing.T, name, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", name, got, want)
	}
}

func checkIntEqual(t *testing.T, name string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", name, got, want)
	}
}

func checkTrue(t *testing.T, name string, cond bool) {
	t.Helper()
	if !cond {
		t.Errorf("%s: expected true", name)
	}
}

func verifyAuthHeaders(t *testing.T, r *http.Request) {
	t.Helper()
	checkStringEqual(t, "X-Emby-Token", r.Header.Get("X-Emby-Token"), "test-api-key")
	checkStringEqual(t, "X-Emby-Client", r.Header.Get("X-Emby-Client"), "Homeshelf")
}

// ============================================================================
// Constructor Tests
// ============================================================================

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantURL string
	}{
		{
			name:    "basic URL",
			baseURL: "http://localhost:8096",
			wantURL: "http://localhost:8096",
		},
		{
			name:    "URL with trailing slash",
			baseURL: "http://localhost:8096/",
			wantURL: "http://localhost:8096",
		},
		{
			name:    "HTTPS URL",
			baseURL: "https://jellyfin.example.com/",
			wantURL: "https://jellyfin.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.baseURL, "key", 0)
			checkStringEqual(t, "baseURL", client.baseURL, tt.wantURL)
			checkTrue(t, "default timeout", client.httpClient.Timeout == 30*time.Second)
		})
	}
}

// ============================================================================
// User Tests
// ============================================================================

func TestGetUsers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/Users")
		checkStringEqual(t, "method", r.Method, "GET")
		verifyAuthHeaders(t, r)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(usersResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-api-key", 0)
	users, err := client.GetUsers(context.Background())

	checkNoError(t, err)
	checkIntEqual(t, "len(users)", len(users), 2)
	checkStringEqual(t, "users[0].ID", users[0].ID, "user-abc")
	checkStringEqual(t, "users[0].Name", users[0].Name, "alice")
}

const usersResponse = `[
	{"Id": "user-abc", "Name": "alice"},
	{"Id": "user-def", "Name": "bob"}
]`

func TestGetUserNotFound(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"404 maps to ErrUserNotFound", http.StatusNotFound},
		{"400 maps to ErrUserNotFound", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(server.URL, "test-api-key", 0)
			_, err := client.GetUser(context.Background(), "nope")

			if !errors.Is(err, ErrUserNotFound) {
				t.Fatalf("expected ErrUserNotFound, got %v", err)
			}
		})
	}
}

func TestGetUserServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-api-key", 0)
	_, err := client.GetUser(context.Background(), "user-abc")

	if err == nil || errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected plain upstream error, got %v", err)
	}
}

// ============================================================================
// Library Tests
// ============================================================================

func TestGetCollections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/Users/user-abc/Items")
		q := r.URL.Query()
		checkStringEqual(t, "IncludeItemTypes", q.Get("IncludeItemTypes"), "BoxSet")
		checkStringEqual(t, "Recursive", q.Get("Recursive"), "true")
		verifyAuthHeaders(t, r)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(collectionsResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-api-key", 0)
	items, err := client.GetCollections(context.Background(), "user-abc")

	checkNoError(t, err)
	checkIntEqual(t, "len(items)", len(items), 2)
	checkStringEqual(t, "items[0].Name", items[0].Name, "Favorites")
	checkStringEqual(t, "items[0].Type", items[0].Type, "BoxSet")
}

const collectionsResponse = `{
	"Items": [
		{"Id": "col-1", "Name": "Favorites", "Type": "BoxSet"},
		{"Id": "col-2", "Name": "Halloween", "Type": "BoxSet"}
	],
	"TotalRecordCount": 2
}`

func TestGetCollectionChildrenNotRecursive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		checkStringEqual(t, "ParentId", q.Get("ParentId"), "col-1")
		// First-level children only: a collection of series must yield the
		// series, not every episode.
		checkStringEqual(t, "Recursive", q.Get("Recursive"), "")
		checkStringEqual(t, "EnableUserData", q.Get("EnableUserData"), "true")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(childrenResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-api-key", 0)
	items, err := client.GetCollectionChildren(context.Background(), "user-abc", "col-1")

	checkNoError(t, err)
	checkIntEqual(t, "len(items)", len(items), 1)
	checkStringEqual(t, "items[0].Name", items[0].Name, "Inception")
}

const childrenResponse = `{
	"Items": [
		{
			"Id": "item-1",
			"Name": "Inception",
			"Type": "Movie",
			"DateCreated": "2024-01-15T10:30:00.0000000Z",
			"CommunityRating": 8.4,
			"UserData": {"Played": true, "LastPlayedDate": "2024-02-01T20:00:00.0000000Z"}
		}
	],
	"TotalRecordCount": 1
}`

func TestGetCollectionChildrenParsesFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(childrenResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-api-key", 0)
	items, err := client.GetCollectionChildren(context.Background(), "user-abc", "col-1")

	checkNoError(t, err)
	item := items[0]
	checkTrue(t, "DateCreated parsed", !item.CreatedAt().IsZero())
	checkTrue(t, "CommunityRating parsed", item.Rating() == 8.4)
	checkTrue(t, "UserData.Played", item.UserData != nil && item.UserData.Played)
	checkTrue(t, "Raw captured", len(item.Raw) > 0)
}

func TestGetPlaylistItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/Playlists/pl-1/Items")
		checkStringEqual(t, "UserId", r.URL.Query().Get("UserId"), "user-abc")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(playlistItemsResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-api-key", 0)
	items, err := client.GetPlaylistItems(context.Background(), "user-abc", "pl-1")

	checkNoError(t, err)
	checkIntEqual(t, "len(items)", len(items), 2)
	checkStringEqual(t, "items[0].Type", items[0].Type, "Episode")
	checkStringEqual(t, "items[0].SeriesId", items[0].SeriesID, "series-1")
}

const playlistItemsResponse = `{
	"Items": [
		{"Id": "ep-1", "Name": "Pilot", "Type": "Episode", "SeriesId": "series-1", "SeriesName": "The Show"},
		{"Id": "movie-1", "Name": "The Matrix", "Type": "Movie"}
	],
	"TotalRecordCount": 2
}`

func TestGetItemUserData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/Users/user-abc/Items/item-1")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Id": "item-1", "Name": "Inception", "UserData": {"Played": true}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-api-key", 0)
	data, err := client.GetItemUserData(context.Background(), "user-abc", "item-1")

	checkNoError(t, err)
	checkTrue(t, "Played", data.Played)
}

func TestGetItemUserDataMissingUserData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Id": "item-1", "Name": "Inception"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-api-key", 0)
	data, err := client.GetItemUserData(context.Background(), "user-abc", "item-1")

	checkNoError(t, err)
	checkTrue(t, "zero value user data", !data.Played && data.LastPlayedDate == nil)
}

// ============================================================================
// Error Path Tests
// ============================================================================

func TestUpstreamErrorIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-api-key", 0)
	_, err := client.GetCollections(context.Background(), "user-abc")

	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); !strings.Contains(got, "502") || !strings.Contains(got, "upstream exploded") {
		t.Errorf("error should carry status and body, got %q", got)
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/System/Ping")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-api-key", 0)
	checkNoError(t, client.Ping(context.Background()))
}
