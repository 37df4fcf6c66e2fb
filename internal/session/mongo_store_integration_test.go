// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

//go:build integration

package session

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/tablepick/internal/testinfra"
)

func TestMongoStore_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := testinfra.NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	testinfra.CleanupContainer(t, container)

	client, err := ConnectMongo(ctx, container.URI)
	if err != nil {
		t.Fatalf("ConnectMongo() error = %v", err)
	}
	t.Cleanup(func() { client.Disconnect(context.Background()) }) //nolint:errcheck

	// Each subtest gets its own database so they can run in parallel.
	var n atomic.Int64
	testStoreContract(t, func(t *testing.T) Store {
		db := client.Database(fmt.Sprintf("tablepick_test_%d", n.Add(1)))
		store := NewMongoStore(db)
		if err := store.EnsureIndexes(context.Background()); err != nil {
			t.Fatalf("EnsureIndexes() error = %v", err)
		}
		return store
	})
}
