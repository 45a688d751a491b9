// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kverran/homeshelf/internal/models"
)

type fakeRegistrar struct {
	mu         sync.Mutex
	readyErr   error
	syncErr    error
	readyCalls int
	syncCalls  int
	lastSync   []models.SectionDefinition
	synced     chan struct{}
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{synced: make(chan struct{}, 8)}
}

func (f *fakeRegistrar) WaitReady(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readyCalls++
	return f.readyErr
}

func (f *fakeRegistrar) Sync(_ context.Context, desired []models.SectionDefinition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncCalls++
	f.lastSync = desired
	f.synced <- struct{}{}
	return f.syncErr
}

func (f *fakeRegistrar) counts() (ready, sync int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readyCalls, f.syncCalls
}

func waitSynced(t *testing.T, f *fakeRegistrar) {
	t.Helper()
	select {
	case <-f.synced:
	case <-time.After(2 * time.Second):
		t.Fatal("sync did not happen")
	}
}

func sectionDefs() []models.SectionDefinition {
	return []models.SectionDefinition{
		{UniqueID: "favorites", DisplayText: "Favorites", Kind: models.SectionKindCollection, EntityName: "Favorites"},
	}
}

func TestRegistryServiceSyncsAfterReady(t *testing.T) {
	registrar := newFakeRegistrar()
	svc := NewRegistryService(registrar, sectionDefs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitSynced(t, registrar)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop")
	}

	ready, syncs := registrar.counts()
	assert.Equal(t, 1, ready)
	assert.Equal(t, 1, syncs)
	assert.Equal(t, sectionDefs(), registrar.lastSync)
}

func TestRegistryServiceTriggerResyncs(t *testing.T) {
	registrar := newFakeRegistrar()
	svc := NewRegistryService(registrar, sectionDefs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitSynced(t, registrar)
	svc.Trigger()
	waitSynced(t, registrar)

	_, syncs := registrar.counts()
	assert.Equal(t, 2, syncs)
}

func TestRegistryServiceReadyFailureRestarts(t *testing.T) {
	registrar := newFakeRegistrar()
	registrar.readyErr = errors.New("plugin never became ready")
	svc := NewRegistryService(registrar, sectionDefs)

	err := svc.Serve(context.Background())
	require.ErrorIs(t, err, registrar.readyErr)

	_, syncs := registrar.counts()
	assert.Zero(t, syncs)
}

func TestRegistryServiceSyncFailureRestarts(t *testing.T) {
	registrar := newFakeRegistrar()
	registrar.syncErr = errors.New("register rejected")
	svc := NewRegistryService(registrar, sectionDefs)

	err := svc.Serve(context.Background())
	require.ErrorIs(t, err, registrar.syncErr)
}

func TestRegistryServiceCanceledWhileWaiting(t *testing.T) {
	registrar := newFakeRegistrar()
	registrar.readyErr = context.Canceled
	svc := NewRegistryService(registrar, sectionDefs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Serve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
