// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

/*
Package session manages group decision sessions: creation with a shareable
join code, membership with profile snapshots, per-restaurant votes, consensus
and finalization, plus storage of user profiles.

# Lifecycle

	CreateSession -> JoinSession* -> Recommend -> CastVote* -> Finalize

A session is "open" until finalized. Finalized sessions reject joins, votes,
context changes and a second finalize with ErrSessionClosed.

# Consensus

A restaurant reaches consensus when approvals >= ceil(members/2) and nobody
vetoed it. The host may finalize at any time; any other member only once the
chosen restaurant has consensus.

# Storage

Store has three implementations:
  - MemoryStore: mutex-guarded maps, for tests and single-process demos
  - BadgerStore: embedded BadgerDB, one JSON document per key
  - MongoStore: MongoDB collections sessions, members, votes, profiles

Vote updates are atomic per store: a mutex, a Badger transaction, or a single
MongoDB update pipeline.
*/
package session
