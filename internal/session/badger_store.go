// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/tablepick/internal/metrics"
)

// Key prefixes for BadgerDB storage
const (
	sessionKeyPrefix = "session:"
	codeKeyPrefix    = "session_code:"
	memberKeyPrefix  = "member:"
	voteKeyPrefix    = "vote:"
	profileKeyPrefix = "profile:"
)

// maxTxnRetries bounds retries of read-modify-write transactions that lose
// a conflict to a concurrent writer.
const maxTxnRetries = 5

// BadgerStore implements Store using BadgerDB. Every value is a JSON
// document; read-modify-write operations run in one transaction and are
// retried on badger.ErrConflict.
type BadgerStore struct {
	db *badger.DB

	// writeMu serializes write transactions within this process so hot
	// keys such as a popular restaurant's tally do not exhaust retries.
	writeMu sync.Mutex
}

// NewBadgerStore creates a BadgerDB-backed store. The caller owns db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func memberKey(sessionID, uid string) []byte {
	return []byte(memberKeyPrefix + sessionID + ":" + uid)
}

func voteKey(sessionID, restaurantID string) []byte {
	return []byte(voteKeyPrefix + sessionID + ":" + restaurantID)
}

// CreateSession stores the session and its code mapping.
func (b *BadgerStore) CreateSession(_ context.Context, s *Session) (err error) {
	defer observe("create_session", time.Now(), &err)

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return b.update(func(txn *badger.Txn) error {
		codeKey := []byte(codeKeyPrefix + s.Code)
		if _, err := txn.Get(codeKey); err == nil {
			return ErrCodeTaken
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check code: %w", err)
		}

		if err := txn.Set([]byte(sessionKeyPrefix+s.ID), data); err != nil {
			return fmt.Errorf("set session: %w", err)
		}
		if err := txn.Set(codeKey, []byte(s.ID)); err != nil {
			return fmt.Errorf("set code mapping: %w", err)
		}
		return nil
	})
}

// GetSession retrieves a session by ID.
func (b *BadgerStore) GetSession(_ context.Context, id string) (s *Session, err error) {
	defer observe("get_session", time.Now(), &err)

	err = b.db.View(func(txn *badger.Txn) error {
		var getErr error
		s, getErr = getSessionTxn(txn, id)
		return getErr
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetSessionByCode resolves a join code and loads its session.
func (b *BadgerStore) GetSessionByCode(_ context.Context, code string) (s *Session, err error) {
	defer observe("get_session_by_code", time.Now(), &err)

	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(codeKeyPrefix + code))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get code mapping: %w", err)
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("read code mapping: %w", err)
		}
		s, err = getSessionTxn(txn, string(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateSession applies fn to the stored session inside one transaction.
func (b *BadgerStore) UpdateSession(_ context.Context, id string, fn func(*Session) error) (s *Session, err error) {
	defer observe("update_session", time.Now(), &err)

	err = b.update(func(txn *badger.Txn) error {
		cur, err := getSessionTxn(txn, id)
		if err != nil {
			return err
		}
		if err := fn(cur); err != nil {
			return err
		}
		cur.Version++
		data, err := json.Marshal(cur)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		if err := txn.Set([]byte(sessionKeyPrefix+id), data); err != nil {
			return fmt.Errorf("set session: %w", err)
		}
		s = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// PutMember inserts or replaces a member.
func (b *BadgerStore) PutMember(_ context.Context, m *Member) (err error) {
	defer observe("put_member", time.Now(), &err)

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal member: %w", err)
	}
	return b.update(func(txn *badger.Txn) error {
		return txn.Set(memberKey(m.SessionID, m.UID), data)
	})
}

// ListMembers scans the member prefix of a session.
func (b *BadgerStore) ListMembers(_ context.Context, sessionID string) (members []Member, err error) {
	defer observe("list_members", time.Now(), &err)

	members = []Member{}
	err = b.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(memberKeyPrefix+sessionID+":"), func(val []byte) error {
			var m Member
			if err := json.Unmarshal(val, &m); err != nil {
				return fmt.Errorf("unmarshal member: %w", err)
			}
			members = append(members, m)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortMembers(members)
	return members, nil
}

// UpdateVote reads, applies and writes a tally in one transaction.
func (b *BadgerStore) UpdateVote(_ context.Context, sessionID, restaurantID, uid string, t VoteType, at time.Time) (v Vote, err error) {
	defer observe("update_vote", time.Now(), &err)

	key := voteKey(sessionID, restaurantID)
	err = b.update(func(txn *badger.Txn) error {
		cur := Vote{SessionID: sessionID, RestaurantID: restaurantID}
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return fmt.Errorf("get vote: %w", err)
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &cur)
			}); err != nil {
				return fmt.Errorf("unmarshal vote: %w", err)
			}
		}

		next := ApplyVote(cur, uid, t)
		next.SessionID = sessionID
		next.UpdatedAt = at
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal vote: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set vote: %w", err)
		}
		v = next
		return nil
	})
	return v, err
}

// ListVotes scans the vote prefix of a session.
func (b *BadgerStore) ListVotes(_ context.Context, sessionID string) (votes map[string]Vote, err error) {
	defer observe("list_votes", time.Now(), &err)

	votes = make(map[string]Vote)
	err = b.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(voteKeyPrefix+sessionID+":"), func(val []byte) error {
			var v Vote
			if err := json.Unmarshal(val, &v); err != nil {
				return fmt.Errorf("unmarshal vote: %w", err)
			}
			votes[v.RestaurantID] = cloneVote(v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return votes, nil
}

// PutProfile stores a user profile.
func (b *BadgerStore) PutProfile(_ context.Context, rec *UserRecord) (err error) {
	defer observe("put_profile", time.Now(), &err)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return b.update(func(txn *badger.Txn) error {
		return txn.Set([]byte(profileKeyPrefix+rec.UID), data)
	})
}

// GetProfile loads a user profile.
func (b *BadgerStore) GetProfile(_ context.Context, uid string) (rec *UserRecord, err error) {
	defer observe("get_profile", time.Now(), &err)

	var out UserRecord
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profileKeyPrefix + uid))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping reports whether the database is still open.
func (b *BadgerStore) Ping(context.Context) error {
	if b.db.IsClosed() {
		return errors.New("badger: database is closed")
	}
	return nil
}

func (b *BadgerStore) update(fn func(txn *badger.Txn) error) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	var err error
	for attempt := 0; attempt < maxTxnRetries; attempt++ {
		err = b.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func getSessionTxn(txn *badger.Txn, id string) (*Session, error) {
	item, err := txn.Get([]byte(sessionKeyPrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var s Session
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &s)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

func scanPrefix(txn *badger.Txn, prefix []byte, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

// observe records badger store metrics.
func observe(operation string, start time.Time, errp *error) {
	metrics.RecordStoreOperation("badger", operation, time.Since(start), backendError(*errp))
}

// backendError drops domain outcomes so only backend failures count as
// store errors.
func backendError(err error) error {
	for _, domain := range []error{
		ErrSessionNotFound, ErrProfileNotFound, ErrCodeTaken, ErrSessionClosed,
		ErrNotHost, ErrNotMember, ErrFinalizeNotAllowed,
	} {
		if errors.Is(err, domain) {
			return nil
		}
	}
	return err
}
