// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/tablepick/internal/metrics"
)

// Collection names used by MongoStore.
const (
	SessionsCollection = "sessions"
	MembersCollection  = "members"
	VotesCollection    = "votes"
	ProfilesCollection = "profiles"
)

// MongoStore implements Store on MongoDB.
//
// Sessions use optimistic concurrency on their version field. Votes are
// updated by a single upserting update pipeline so concurrent voters never
// lose each other's changes.
type MongoStore struct {
	db       *mongo.Database
	sessions *mongo.Collection
	members  *mongo.Collection
	votes    *mongo.Collection
	profiles *mongo.Collection
}

type memberDoc struct {
	ID     string `bson:"_id"`
	Member `bson:",inline"`
}

// NewMongoStore wraps db. Call EnsureIndexes once before serving.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		db:       db,
		sessions: db.Collection(SessionsCollection),
		members:  db.Collection(MembersCollection),
		votes:    db.Collection(VotesCollection),
		profiles: db.Collection(ProfilesCollection),
	}
}

// ConnectMongo opens a client with the stable server API and pings it.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique join code index and lookup indexes.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	if _, err := m.sessions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create sessions.code index: %w", err)
	}
	if _, err := m.members.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "joined_at", Value: 1}},
	}); err != nil {
		return fmt.Errorf("create members index: %w", err)
	}
	if _, err := m.votes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("create votes index: %w", err)
	}
	return nil
}

// CreateSession inserts a session. A duplicate join code returns ErrCodeTaken.
func (m *MongoStore) CreateSession(ctx context.Context, s *Session) (err error) {
	defer observeMongo("create_session", time.Now(), &err)

	if _, err := m.sessions.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCodeTaken
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession loads a session by id.
func (m *MongoStore) GetSession(ctx context.Context, id string) (s *Session, err error) {
	defer observeMongo("get_session", time.Now(), &err)
	return m.findSession(ctx, bson.M{"_id": id})
}

// GetSessionByCode loads a session by normalized join code.
func (m *MongoStore) GetSessionByCode(ctx context.Context, code string) (s *Session, err error) {
	defer observeMongo("get_session_by_code", time.Now(), &err)
	return m.findSession(ctx, bson.M{"code": code})
}

func (m *MongoStore) findSession(ctx context.Context, filter bson.M) (*Session, error) {
	var s Session
	if err := m.sessions.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &s, nil
}

// UpdateSession replaces the document only if its version is unchanged,
// retrying with a fresh read when another writer got there first.
func (m *MongoStore) UpdateSession(ctx context.Context, id string, fn func(*Session) error) (s *Session, err error) {
	defer observeMongo("update_session", time.Now(), &err)

	for attempt := 0; attempt < maxTxnRetries; attempt++ {
		cur, err := m.findSession(ctx, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		version := cur.Version
		if err := fn(cur); err != nil {
			return nil, err
		}
		cur.Version = version + 1

		res, err := m.sessions.ReplaceOne(ctx, bson.M{"_id": id, "version": version}, cur)
		if err != nil {
			return nil, fmt.Errorf("replace session: %w", err)
		}
		if res.MatchedCount == 1 {
			return cur, nil
		}
	}
	return nil, fmt.Errorf("update session %s: %w", id, ErrConflict)
}

// PutMember upserts a member keyed by session and uid.
func (m *MongoStore) PutMember(ctx context.Context, mem *Member) (err error) {
	defer observeMongo("put_member", time.Now(), &err)

	doc := memberDoc{ID: mem.SessionID + ":" + mem.UID, Member: *mem}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.members.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}
	return nil
}

// ListMembers returns the members of a session ordered by join time.
func (m *MongoStore) ListMembers(ctx context.Context, sessionID string) (members []Member, err error) {
	defer observeMongo("list_members", time.Now(), &err)

	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}, {Key: "uid", Value: 1}})
	cursor, err := m.members.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find members: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []memberDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}
	members = make([]Member, 0, len(docs))
	for _, d := range docs {
		members = append(members, d.Member)
	}
	return members, nil
}

// UpdateVote runs one upserting pipeline: strip uid from both lists, then
// append it to the list for t.
func (m *MongoStore) UpdateVote(ctx context.Context, sessionID, restaurantID, uid string, t VoteType, at time.Time) (v Vote, err error) {
	defer observeMongo("update_vote", time.Now(), &err)

	literal := bson.M{"$literal": uid}
	strip := func(field string) bson.M {
		return bson.M{"$filter": bson.M{
			"input": bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}},
			"cond":  bson.M{"$ne": bson.A{"$$this", literal}},
		}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"session_id":    sessionID,
			"restaurant_id": restaurantID,
			"updated_at":    at,
			"approvals":     strip("approvals"),
			"vetoes":        strip("vetoes"),
		}}},
	}
	switch t {
	case VoteApprove:
		pipeline = append(pipeline, bson.D{{Key: "$set", Value: bson.M{
			"approvals": bson.M{"$concatArrays": bson.A{"$approvals", bson.A{literal}}},
		}}})
	case VoteVeto:
		pipeline = append(pipeline, bson.D{{Key: "$set", Value: bson.M{
			"vetoes": bson.M{"$concatArrays": bson.A{"$vetoes", bson.A{literal}}},
		}}})
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	filter := bson.M{"_id": string(voteKey(sessionID, restaurantID))}
	if err := m.votes.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&v); err != nil {
		return Vote{}, fmt.Errorf("update vote: %w", err)
	}
	return v, nil
}

// ListVotes returns every tally of a session keyed by restaurant id.
func (m *MongoStore) ListVotes(ctx context.Context, sessionID string) (votes map[string]Vote, err error) {
	defer observeMongo("list_votes", time.Now(), &err)

	cursor, err := m.votes.Find(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return nil, fmt.Errorf("find votes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []Vote
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode votes: %w", err)
	}
	votes = make(map[string]Vote, len(docs))
	for _, v := range docs {
		votes[v.RestaurantID] = cloneVote(v)
	}
	return votes, nil
}

// PutProfile upserts a stored profile.
func (m *MongoStore) PutProfile(ctx context.Context, rec *UserRecord) (err error) {
	defer observeMongo("put_profile", time.Now(), &err)

	opts := options.Replace().SetUpsert(true)
	if _, err := m.profiles.ReplaceOne(ctx, bson.M{"_id": rec.UID}, rec, opts); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// GetProfile returns a stored profile or ErrProfileNotFound.
func (m *MongoStore) GetProfile(ctx context.Context, uid string) (rec *UserRecord, err error) {
	defer observeMongo("get_profile", time.Now(), &err)

	var out UserRecord
	if err := m.profiles.FindOne(ctx, bson.M{"_id": uid}).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &out, nil
}

// Ping checks the server connection.
func (m *MongoStore) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, nil)
}

func observeMongo(operation string, start time.Time, errp *error) {
	metrics.RecordStoreOperation("mongo", operation, time.Since(start), backendError(*errp))
}
