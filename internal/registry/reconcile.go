// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

/*
Package registry announces configured sections to the host home-screen
plugin: it waits for the plugin to come up, registers every section, and on
configuration reload diffs the old and new section sets so only the changes
are replayed.
*/

package registry

import (
	"github.com/kverran/homeshelf/internal/models"
)

// Diff is the outcome of reconciling two section sets, keyed by UniqueID.
type Diff struct {
	// Register holds sections present only in the new set.
	Register []models.SectionDefinition
	// Update holds sections present in both sets whose definition changed;
	// the home-screen plugin treats re-registration as an update.
	Update []models.SectionDefinition
	// Unregister holds sections present only in the old set.
	Unregister []models.SectionDefinition
}

// Empty reports whether the diff requires no registration calls.
func (d Diff) Empty() bool {
	return len(d.Register) == 0 && len(d.Update) == 0 && len(d.Unregister) == 0
}

// Reconcile diffs the currently registered sections against the desired set.
// It is a pure function; ordering within each bucket follows the input order.
func Reconcile(current, desired []models.SectionDefinition) Diff {
	currentByID := make(map[string]models.SectionDefinition, len(current))
	for _, s := range current {
		currentByID[s.UniqueID] = s
	}
	desiredIDs := make(map[string]struct{}, len(desired))

	var d Diff
	for _, s := range desired {
		desiredIDs[s.UniqueID] = struct{}{}

		old, exists := currentByID[s.UniqueID]
		switch {
		case !exists:
			d.Register = append(d.Register, s)
		case old != s:
			d.Update = append(d.Update, s)
		}
	}

	for _, s := range current {
		if _, wanted := desiredIDs[s.UniqueID]; !wanted {
			d.Unregister = append(d.Unregister, s)
		}
	}
	return d
}
