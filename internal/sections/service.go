// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package sections

import (
	"context"
	"fmt"

	"github.com/kverran/homeshelf/internal/models"
)

// Service is the request-path entry point: given a section request it
// validates the user, resolves the backing entity and runs the pipeline.
type Service struct {
	users       UserDirectory
	resolver    *Resolver
	pipeline    *Pipeline
	definitions func() []models.SectionDefinition
}

// NewService wires a section service from its collaborators. definitions
// supplies the configured sections so per-section view defaults apply; it may
// be nil, in which case requests fall through to the built-in defaults.
func NewService(users UserDirectory, resolver *Resolver, pipeline *Pipeline, definitions func() []models.SectionDefinition) *Service {
	return &Service{
		users:       users,
		resolver:    resolver,
		pipeline:    pipeline,
		definitions: definitions,
	}
}

// Collection resolves a collection-backed section for the user. A missing
// collection yields an empty result; an unknown user or upstream failure
// yields an error.
func (s *Service) Collection(ctx context.Context, userID, entityName string, userConfig map[string]interface{}) (*models.SectionResult, error) {
	return s.resolve(ctx, userID, entityName, models.SectionKindCollection, userConfig, s.resolver.ResolveCollection)
}

// Playlist resolves a playlist-backed section for the user, with episode
// entries collapsed to their series.
func (s *Service) Playlist(ctx context.Context, userID, entityName string, userConfig map[string]interface{}) (*models.SectionResult, error) {
	return s.resolve(ctx, userID, entityName, models.SectionKindPlaylist, userConfig, s.resolver.ResolvePlaylist)
}

type resolveFunc func(ctx context.Context, userID, name string) ([]models.JellyfinItem, bool, error)

func (s *Service) resolve(ctx context.Context, userID, entityName string, kind models.SectionKind, userConfig map[string]interface{}, fn resolveFunc) (*models.SectionResult, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("validating user: %w", err)
	}

	candidates, found, err := fn(ctx, userID, entityName)
	if err != nil {
		return nil, err
	}
	if !found {
		return models.EmptySectionResult(), nil
	}

	cfg := ParseUserConfiguration(s.sectionDefaults(entityName, kind), userConfig)
	items := s.pipeline.Apply(ctx, userID, candidates, cfg)
	if items == nil {
		items = []models.JellyfinItem{}
	}

	return &models.SectionResult{
		Items:            items,
		TotalRecordCount: len(items),
	}, nil
}

// sectionDefaults finds the definition backing this request (the plugin
// sends back the entity name as additionalData) and returns its defaults.
func (s *Service) sectionDefaults(entityName string, kind models.SectionKind) UserSectionConfig {
	if s.definitions != nil {
		defs := s.definitions()
		for i := range defs {
			if defs[i].EntityName == entityName && defs[i].Kind == kind {
				return SectionDefaults(&defs[i])
			}
		}
	}
	return DefaultUserConfig()
}
