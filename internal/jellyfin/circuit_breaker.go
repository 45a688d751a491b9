// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package jellyfin

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/kverran/homeshelf/internal/logging"
	"github.com/kverran/homeshelf/internal/metrics"
	"github.com/kverran/homeshelf/internal/models"
)

var _ ClientInterface = (*CircuitBreakerClient)(nil)

// CircuitBreakerClient wraps Client with a circuit breaker so a down or
// degraded Jellyfin server sheds load fast instead of stacking up timeouts.
//
// The breaker uses real time for its interval and timeout windows.
type CircuitBreakerClient struct {
	client ClientInterface
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient wraps client with breaker settings:
// max 3 requests half-open, 1 minute measurement window, 2 minutes before
// recovery is attempted, opening at a 60% failure rate over at least 10
// requests.
func NewCircuitBreakerClient(client ClientInterface) *CircuitBreakerClient {
	cbName := "jellyfin-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening Jellyfin circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().
				Str("from", fromStr).
				Str("to", toStr).
				Msg("[CIRCUIT BREAKER] Jellyfin state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Jellyfin request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	return result, nil
}

// Ping tests connectivity with breaker protection.
func (cbc *CircuitBreakerClient) Ping(ctx context.Context) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.Ping(ctx)
	})
	return err
}

// GetUsers retrieves all users with breaker protection.
func (cbc *CircuitBreakerClient) GetUsers(ctx context.Context) ([]models.JellyfinUser, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetUsers(ctx)
	})
	if err != nil {
		return nil, err
	}
	users, ok := result.([]models.JellyfinUser)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for GetUsers")
	}
	return users, nil
}

// GetUser retrieves one user with breaker protection. ErrUserNotFound passes
// through unwrapped so callers can classify it.
func (cbc *CircuitBreakerClient) GetUser(ctx context.Context, userID string) (*models.JellyfinUser, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	user, ok := result.(*models.JellyfinUser)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for GetUser")
	}
	return user, nil
}

// GetCollections retrieves the user's visible collections with breaker
// protection.
func (cbc *CircuitBreakerClient) GetCollections(ctx context.Context, userID string) ([]models.JellyfinItem, error) {
	return cbc.executeItems(func() (interface{}, error) {
		return cbc.client.GetCollections(ctx, userID)
	}, "GetCollections")
}

// GetCollectionChildren retrieves a collection's children with breaker
// protection.
func (cbc *CircuitBreakerClient) GetCollectionChildren(ctx context.Context, userID, collectionID string) ([]models.JellyfinItem, error) {
	return cbc.executeItems(func() (interface{}, error) {
		return cbc.client.GetCollectionChildren(ctx, userID, collectionID)
	}, "GetCollectionChildren")
}

// GetPlaylists retrieves the user's visible playlists with breaker
// protection.
func (cbc *CircuitBreakerClient) GetPlaylists(ctx context.Context, userID string) ([]models.JellyfinItem, error) {
	return cbc.executeItems(func() (interface{}, error) {
		return cbc.client.GetPlaylists(ctx, userID)
	}, "GetPlaylists")
}

// GetPlaylistItems retrieves a playlist's entries with breaker protection.
func (cbc *CircuitBreakerClient) GetPlaylistItems(ctx context.Context, userID, playlistID string) ([]models.JellyfinItem, error) {
	return cbc.executeItems(func() (interface{}, error) {
		return cbc.client.GetPlaylistItems(ctx, userID, playlistID)
	}, "GetPlaylistItems")
}

// GetItem retrieves one user-scoped item with breaker protection.
func (cbc *CircuitBreakerClient) GetItem(ctx context.Context, userID, itemID string) (*models.JellyfinItem, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetItem(ctx, userID, itemID)
	})
	if err != nil {
		return nil, err
	}
	item, ok := result.(*models.JellyfinItem)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for GetItem")
	}
	return item, nil
}

// GetItemUserData retrieves per-item watch state with breaker protection.
func (cbc *CircuitBreakerClient) GetItemUserData(ctx context.Context, userID, itemID string) (*models.JellyfinUserData, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetItemUserData(ctx, userID, itemID)
	})
	if err != nil {
		return nil, err
	}
	data, ok := result.(*models.JellyfinUserData)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for GetItemUserData")
	}
	return data, nil
}

func (cbc *CircuitBreakerClient) executeItems(fn func() (interface{}, error), method string) ([]models.JellyfinItem, error) {
	result, err := cbc.execute(fn)
	if err != nil {
		return nil, err
	}
	items, ok := result.([]models.JellyfinItem)
	if !ok {
		return nil, errors.New("circuit breaker: unexpected result type for " + method)
	}
	return items, nil
}

// State returns the current breaker state.
func (cbc *CircuitBreakerClient) State() gobreaker.State {
	return cbc.cb.State()
}

// Counts returns the current breaker counts.
func (cbc *CircuitBreakerClient) Counts() gobreaker.Counts {
	return cbc.cb.Counts()
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
