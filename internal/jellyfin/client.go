// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

/*
client.go - Jellyfin REST API client

Implements the library lookups the section pipeline needs: users,
user-visible collections and playlists, their members, and per-item watch
state.

API Reference: https://api.jellyfin.org/
*/

package jellyfin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/kverran/homeshelf/internal/metrics"
	"github.com/kverran/homeshelf/internal/models"
)

// ErrUserNotFound reports that the requested user does not exist upstream.
var ErrUserNotFound = errors.New("jellyfin user not found")

// itemFields are the extra item fields requested on every item query; the
// pipeline sorts on them.
const itemFields = "DateCreated,SortName,PremiereDate,CommunityRating"

// ClientInterface defines the Jellyfin operations used by the service.
// Both Client and CircuitBreakerClient implement it.
type ClientInterface interface {
	Ping(ctx context.Context) error
	GetUsers(ctx context.Context) ([]models.JellyfinUser, error)
	GetUser(ctx context.Context, userID string) (*models.JellyfinUser, error)
	GetCollections(ctx context.Context, userID string) ([]models.JellyfinItem, error)
	GetCollectionChildren(ctx context.Context, userID, collectionID string) ([]models.JellyfinItem, error)
	GetPlaylists(ctx context.Context, userID string) ([]models.JellyfinItem, error)
	GetPlaylistItems(ctx context.Context, userID, playlistID string) ([]models.JellyfinItem, error)
	GetItem(ctx context.Context, userID, itemID string) (*models.JellyfinItem, error)
	GetItemUserData(ctx context.Context, userID, itemID string) (*models.JellyfinUserData, error)
}

var _ ClientInterface = (*Client)(nil)

// Client talks to the Jellyfin REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Jellyfin API client.
//
//   - baseURL: Jellyfin server URL (e.g. http://localhost:8096)
//   - apiKey: API key from Admin Dashboard > API Keys
//   - timeout: per-request timeout (zero uses 30s)
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ping tests connectivity to the Jellyfin server.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.doRequest(ctx, "/System/Ping", nil)
	if err != nil {
		return fmt.Errorf("jellyfin ping failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jellyfin ping returned status %d", resp.StatusCode)
	}
	return nil
}

// GetUsers retrieves all users.
func (c *Client) GetUsers(ctx context.Context) ([]models.JellyfinUser, error) {
	start := time.Now()
	users, err := c.getUsers(ctx)
	metrics.RecordUpstreamRequest("get_users", time.Since(start), err)
	return users, err
}

func (c *Client) getUsers(ctx context.Context) ([]models.JellyfinUser, error) {
	resp, err := c.doRequest(ctx, "/Users", nil)
	if err != nil {
		return nil, fmt.Errorf("jellyfin users request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("jellyfin users", resp)
	}

	var users []models.JellyfinUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a single user, returning ErrUserNotFound for unknown or
// malformed user IDs.
func (c *Client) GetUser(ctx context.Context, userID string) (*models.JellyfinUser, error) {
	start := time.Now()
	user, err := c.getUser(ctx, userID)
	metrics.RecordUpstreamRequest("get_user", time.Since(start), err)
	return user, err
}

func (c *Client) getUser(ctx context.Context, userID string) (*models.JellyfinUser, error) {
	resp, err := c.doRequest(ctx, "/Users/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("jellyfin user request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	default:
		return nil, statusError("jellyfin user", resp)
	}

	var user models.JellyfinUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin user: %w", err)
	}
	return &user, nil
}

// GetCollections retrieves the collections (BoxSets) visible to the user.
// Querying through /Users/{id}/Items means Jellyfin applies the user's
// library access rules.
func (c *Client) GetCollections(ctx context.Context, userID string) ([]models.JellyfinItem, error) {
	start := time.Now()
	items, err := c.getItemsPage(ctx, userID, url.Values{
		"IncludeItemTypes": {"BoxSet"},
		"Recursive":        {"true"},
		"Fields":           {itemFields},
	})
	metrics.RecordUpstreamRequest("get_collections", time.Since(start), err)
	return items, err
}

// GetCollectionChildren retrieves the first-level children of a collection.
// The query is deliberately not recursive: a collection of series yields the
// series themselves, not every episode.
func (c *Client) GetCollectionChildren(ctx context.Context, userID, collectionID string) ([]models.JellyfinItem, error) {
	start := time.Now()
	items, err := c.getItemsPage(ctx, userID, url.Values{
		"ParentId":       {collectionID},
		"Fields":         {itemFields},
		"EnableUserData": {"true"},
	})
	metrics.RecordUpstreamRequest("get_collection_children", time.Since(start), err)
	return items, err
}

// GetPlaylists retrieves the playlists visible to the user.
func (c *Client) GetPlaylists(ctx context.Context, userID string) ([]models.JellyfinItem, error) {
	start := time.Now()
	items, err := c.getItemsPage(ctx, userID, url.Values{
		"IncludeItemTypes": {"Playlist"},
		"Recursive":        {"true"},
		"Fields":           {itemFields},
	})
	metrics.RecordUpstreamRequest("get_playlists", time.Since(start), err)
	return items, err
}

// GetPlaylistItems retrieves a playlist's entries in playlist order.
func (c *Client) GetPlaylistItems(ctx context.Context, userID, playlistID string) ([]models.JellyfinItem, error) {
	start := time.Now()
	items, err := c.getPlaylistItems(ctx, userID, playlistID)
	metrics.RecordUpstreamRequest("get_playlist_items", time.Since(start), err)
	return items, err
}

func (c *Client) getPlaylistItems(ctx context.Context, userID, playlistID string) ([]models.JellyfinItem, error) {
	endpoint := "/Playlists/" + url.PathEscape(playlistID) + "/Items"
	query := url.Values{
		"UserId":         {userID},
		"Fields":         {itemFields},
		"EnableUserData": {"true"},
	}

	resp, err := c.doRequest(ctx, endpoint, query)
	if err != nil {
		return nil, fmt.Errorf("jellyfin playlist items request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("jellyfin playlist items", resp)
	}

	var page models.JellyfinItemsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin playlist items: %w", err)
	}
	return page.Items, nil
}

// GetItem retrieves one item scoped to the user, with user data attached.
func (c *Client) GetItem(ctx context.Context, userID, itemID string) (*models.JellyfinItem, error) {
	start := time.Now()
	item, err := c.getItem(ctx, userID, itemID)
	metrics.RecordUpstreamRequest("get_item", time.Since(start), err)
	return item, err
}

func (c *Client) getItem(ctx context.Context, userID, itemID string) (*models.JellyfinItem, error) {
	endpoint := "/Users/" + url.PathEscape(userID) + "/Items/" + url.PathEscape(itemID)

	resp, err := c.doRequest(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("jellyfin item request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("jellyfin item", resp)
	}

	var item models.JellyfinItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin item: %w", err)
	}
	return &item, nil
}

// GetItemUserData retrieves the user's playback state for one item.
func (c *Client) GetItemUserData(ctx context.Context, userID, itemID string) (*models.JellyfinUserData, error) {
	item, err := c.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserData == nil {
		return &models.JellyfinUserData{}, nil
	}
	return item.UserData, nil
}

// getItemsPage queries /Users/{id}/Items with the given parameters.
func (c *Client) getItemsPage(ctx context.Context, userID string, query url.Values) ([]models.JellyfinItem, error) {
	endpoint := "/Users/" + url.PathEscape(userID) + "/Items"

	resp, err := c.doRequest(ctx, endpoint, query)
	if err != nil {
		return nil, fmt.Errorf("jellyfin items request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("jellyfin items", resp)
	}

	var page models.JellyfinItemsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode jellyfin items: %w", err)
	}
	return page.Items, nil
}

// doRequest performs an authenticated GET against the Jellyfin API.
func (c *Client) doRequest(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Emby-Token", c.apiKey)
	req.Header.Set("X-Emby-Client", "Homeshelf")
	req.Header.Set("X-Emby-Device-Name", "Homeshelf")
	req.Header.Set("X-Emby-Device-Id", "homeshelf")
	req.Header.Set("X-Emby-Client-Version", "1.0.0")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// statusError formats a non-200 upstream response into an error.
func statusError(operation string, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body)", operation, resp.StatusCode)
	}
	return fmt.Errorf("%s returned status %d: %s", operation, resp.StatusCode, string(body))
}
