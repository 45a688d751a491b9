// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kverran/homeshelf/internal/models"
)

func def(id, name string) models.SectionDefinition {
	return models.SectionDefinition{
		UniqueID:    id,
		DisplayText: name,
		EntityName:  name,
		Kind:        models.SectionKindCollection,
	}
}

func uniqueIDs(defs []models.SectionDefinition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.UniqueID
	}
	return out
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name           string
		current        []models.SectionDefinition
		desired        []models.SectionDefinition
		wantRegister   []string
		wantUpdate     []string
		wantUnregister []string
	}{
		{
			name:         "everything is new on first sync",
			current:      nil,
			desired:      []models.SectionDefinition{def("a", "A"), def("b", "B")},
			wantRegister: []string{"a", "b"},
		},
		{
			name:    "identical sets need nothing",
			current: []models.SectionDefinition{def("a", "A")},
			desired: []models.SectionDefinition{def("a", "A")},
		},
		{
			name:       "changed definition becomes an update",
			current:    []models.SectionDefinition{def("a", "A")},
			desired:    []models.SectionDefinition{def("a", "A renamed")},
			wantUpdate: []string{"a"},
		},
		{
			name:           "removed definition becomes an unregister",
			current:        []models.SectionDefinition{def("a", "A"), def("b", "B")},
			desired:        []models.SectionDefinition{def("a", "A")},
			wantUnregister: []string{"b"},
		},
		{
			name:           "mixed delta",
			current:        []models.SectionDefinition{def("a", "A"), def("b", "B")},
			desired:        []models.SectionDefinition{def("b", "B v2"), def("c", "C")},
			wantRegister:   []string{"c"},
			wantUpdate:     []string{"b"},
			wantUnregister: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Reconcile(tt.current, tt.desired)
			assert.Equal(t, tt.wantRegister, idsOrNil(d.Register))
			assert.Equal(t, tt.wantUpdate, idsOrNil(d.Update))
			assert.Equal(t, tt.wantUnregister, idsOrNil(d.Unregister))
		})
	}
}

func idsOrNil(defs []models.SectionDefinition) []string {
	if len(defs) == 0 {
		return nil
	}
	return uniqueIDs(defs)
}

func TestDiffEmpty(t *testing.T) {
	assert.True(t, Diff{}.Empty())
	assert.False(t, Diff{Register: []models.SectionDefinition{def("a", "A")}}.Empty())
	assert.False(t, Diff{Unregister: []models.SectionDefinition{def("a", "A")}}.Empty())
}
