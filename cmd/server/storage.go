// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package main

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/tablepick/internal/config"
	"github.com/tomtom215/tablepick/internal/logging"
	"github.com/tomtom215/tablepick/internal/pool"
	"github.com/tomtom215/tablepick/internal/session"
)

// storage bundles the session store with the optional Badger handle that
// also backs pool snapshots.
type storage struct {
	sessions  session.Store
	snapshots pool.SnapshotStore
	badger    *badger.DB
	closers   []func(context.Context) error
}

// Close releases every backend in reverse order of opening.
func (s *storage) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			logging.Error().Err(err).Msg("Error closing storage")
		}
	}
}

// openStorage opens the configured backend.
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	st := &storage{}

	switch cfg.Storage.Backend {
	case config.BackendBadger:
		opts := badger.DefaultOptions(cfg.Storage.BadgerPath)
		if cfg.Storage.BadgerInMemory {
			opts = badger.DefaultOptions("").WithInMemory(true)
		}
		// Reduce logging verbosity
		opts.Logger = nil

		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open BadgerDB: %w", err)
		}
		st.badger = db
		st.sessions = session.NewBadgerStore(db)
		st.snapshots = pool.NewBadgerSnapshotStore(db, cfg.Pool.SnapshotTTL)
		st.closers = append(st.closers, func(context.Context) error { return db.Close() })

		logging.Info().
			Str("path", cfg.Storage.BadgerPath).
			Bool("in_memory", cfg.Storage.BadgerInMemory).
			Msg("Badger storage opened")

	case config.BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Storage.MongoTimeout)
		defer cancel()

		client, err := session.ConnectMongo(connectCtx, cfg.Storage.MongoURI)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, client.Disconnect)

		store := session.NewMongoStore(client.Database(cfg.Storage.MongoDatabase))
		if err := store.EnsureIndexes(connectCtx); err != nil {
			st.Close(ctx)
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		st.sessions = store

		logging.Info().
			Str("database", cfg.Storage.MongoDatabase).
			Msg("MongoDB storage connected")

	case config.BackendMemory:
		st.sessions = session.NewMemoryStore()
		logging.Warn().Msg("In-memory storage: sessions are lost on restart")

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return st, nil
}
