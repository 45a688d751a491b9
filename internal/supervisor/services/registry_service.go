// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package services

import (
	"context"

	"github.com/kverran/homeshelf/internal/logging"
	"github.com/kverran/homeshelf/internal/models"
)

// Registrar performs the home-screen handshake; implemented by
// registry.Announcer.
type Registrar interface {
	WaitReady(ctx context.Context) error
	Sync(ctx context.Context, desired []models.SectionDefinition) error
}

// RegistryService runs the registration handshake under supervision: wait
// for the home-screen plugin, sync the configured sections, then stay alive
// re-syncing whenever Trigger fires (config reload). Any failure surfaces as
// a service error so suture restarts the handshake with backoff.
type RegistryService struct {
	registrar Registrar
	sections  func() []models.SectionDefinition
	trigger   chan struct{}
	name      string
}

// NewRegistryService creates the registration service. sections is called at
// each sync so it always sees the current configuration.
func NewRegistryService(registrar Registrar, sections func() []models.SectionDefinition) *RegistryService {
	return &RegistryService{
		registrar: registrar,
		sections:  sections,
		trigger:   make(chan struct{}, 1),
		name:      "section-registry",
	}
}

// Trigger requests a re-sync, coalescing with any pending request. Safe to
// call from any goroutine.
func (s *RegistryService) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Serve implements suture.Service.
func (s *RegistryService) Serve(ctx context.Context) error {
	if err := s.registrar.WaitReady(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	if err := s.registrar.Sync(ctx, s.sections()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.trigger:
			logging.Info().Msg("Re-syncing section registrations")
			if err := s.registrar.Sync(ctx, s.sections()); err != nil {
				return err
			}
		}
	}
}

// String implements fmt.Stringer.
func (s *RegistryService) String() string {
	return s.name
}
