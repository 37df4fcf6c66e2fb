// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package pool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a key.
var ErrSnapshotNotFound = errors.New("pool: snapshot not found")

// snapshotKeyPrefix namespaces snapshots in a shared BadgerDB.
const snapshotKeyPrefix = "pool_snapshot:"

// SnapshotStore keeps the last good live pool per area.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, key string, res *PoolResult) error
	LoadSnapshot(ctx context.Context, key string) (*PoolResult, error)
}

// BadgerSnapshotStore implements SnapshotStore on BadgerDB.
type BadgerSnapshotStore struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerSnapshotStore creates a snapshot store. A positive ttl lets Badger
// expire stale snapshots; zero keeps them forever.
func NewBadgerSnapshotStore(db *badger.DB, ttl time.Duration) *BadgerSnapshotStore {
	return &BadgerSnapshotStore{db: db, ttl: ttl}
}

// SaveSnapshot stores res under key, replacing any previous snapshot.
func (s *BadgerSnapshotStore) SaveSnapshot(_ context.Context, key string, res *PoolResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(snapshotKeyPrefix+key), data)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("set snapshot: %w", err)
		}
		return nil
	})
}

// LoadSnapshot returns the snapshot under key or ErrSnapshotNotFound.
func (s *BadgerSnapshotStore) LoadSnapshot(_ context.Context, key string) (*PoolResult, error) {
	var res PoolResult

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSnapshotNotFound
		}
		if err != nil {
			return fmt.Errorf("get snapshot: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &res)
		})
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
