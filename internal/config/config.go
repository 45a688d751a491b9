// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

// Package config defines the Homeshelf configuration model and its layered
// loader (defaults, optional YAML file, environment variables).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kverran/homeshelf/internal/models"
	"github.com/kverran/homeshelf/internal/validation"
)

// Config is the root configuration.
type Config struct {
	Jellyfin   JellyfinConfig             `koanf:"jellyfin"`
	HomeScreen HomeScreenConfig           `koanf:"home_screen"`
	Server     ServerConfig               `koanf:"server"`
	Cache      CacheConfig                `koanf:"cache"`
	Security   SecurityConfig             `koanf:"security"`
	Logging    LoggingConfig              `koanf:"logging"`
	Sections   []models.SectionDefinition `koanf:"sections"`
}

// JellyfinConfig configures the upstream Jellyfin server connection.
type JellyfinConfig struct {
	URL     string        `koanf:"url" validate:"required,url"`
	APIKey  string        `koanf:"api_key" validate:"required"`
	Timeout time.Duration `koanf:"timeout"`
}

// HomeScreenConfig configures the registration handshake with the host
// home-screen plugin. URL defaults to the Jellyfin URL since the plugin is
// served from the same server.
type HomeScreenConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url" validate:"omitempty,url"`

	// ReadyAttempts and ReadyInterval bound the readiness probe loop run
	// before any registration is attempted.
	ReadyAttempts int           `koanf:"ready_attempts" validate:"gte=1"`
	ReadyInterval time.Duration `koanf:"ready_interval"`

	// RegisterPerSecond paces registration calls on reconciliation.
	RegisterPerSecond float64 `koanf:"register_per_second"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout time.Duration `koanf:"timeout"`

	// PublicURL is the base URL Jellyfin uses to call the results endpoints
	// back. Required whenever this service is not reachable from Jellyfin at
	// http://<host>:<port>.
	PublicURL   string `koanf:"public_url" validate:"omitempty,url"`
	Environment string `koanf:"environment" validate:"oneof=development production"`
}

// CacheConfig configures the warm library cache.
type CacheConfig struct {
	TTL           time.Duration `koanf:"ttl"`
	WarmupEnabled bool          `koanf:"warmup_enabled"`
}

// SecurityConfig configures rate limiting and CORS.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// HomeScreenURL returns the configured home-screen base URL, falling back to
// the Jellyfin URL.
func (c *Config) HomeScreenURL() string {
	if c.HomeScreen.URL != "" {
		return c.HomeScreen.URL
	}
	return c.Jellyfin.URL
}

// ResultsBaseURL returns the externally reachable base URL advertised in
// section registrations. Falls back to the listener address, substituting
// localhost for the wildcard host.
func (c *Config) ResultsBaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimSuffix(c.Server.PublicURL, "/")
	}

	host := c.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Server.Port)
}

// Validate checks the configuration, including every section definition.
// Section unique IDs must not repeat: registration with the home screen is
// keyed by them.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seen := make(map[string]struct{}, len(c.Sections))
	for i := range c.Sections {
		s := &c.Sections[i]
		if err := validation.ValidateStruct(s); err != nil {
			return fmt.Errorf("invalid section %q: %w", s.UniqueID, err)
		}
		if _, dup := seen[s.UniqueID]; dup {
			return fmt.Errorf("duplicate section unique_id %q", s.UniqueID)
		}
		seen[s.UniqueID] = struct{}{}
	}

	return nil
}
