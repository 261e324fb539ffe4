// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package room implements the room lifecycle state machine, the member roster
and the vote ledger.

# Lifecycle

A room moves through:

	Lobby → VotingOpen → VotingFrozen → (revote) VotingOpen → …

with Ended reachable from any state and terminal. The states are persisted
as flags on the room row (is_active, voting_started, voting_frozen,
is_revote); voting_frozen and is_revote are never both true.

# Manager

Manager is the single entry point for all transitions:

	mgr := room.NewManager(db, cfg, broker)

	code, masterKey, err := mgr.CreateRoom(ctx)
	memberID, err := mgr.Join(ctx, code, "Alice")
	err = mgr.StartVoting(ctx, code, masterKey)
	err = mgr.CastVote(ctx, code, memberID, 5)
	err = mgr.SetDone(ctx, code, memberID, true)
	votes, err := mgr.Reveal(ctx, code, masterKey)
	stats, err := mgr.Stats(ctx, code)
	err = mgr.Revote(ctx, code, masterKey)
	err = mgr.EndSession(ctx, code, masterKey)

Master-only transitions (StartVoting, Reveal, Revote, EndSession) validate
the HMAC master key server-side; a client-side flag is never trusted.

# Atomicity

Reveal, Revote and CastVote wrap their multi-row reads and writes in one
transaction, so a crash mid-transition cannot leave votes cleared with
stale done flags or a frozen room with unrevealed votes. Concurrent casts
from the same member serialize on the UNIQUE(room_id, member_id) upsert.

# Errors

Business-rule failures are the sentinel errors in errors.go
(ErrRoomNotFound, ErrMemberNotFound, ErrNotScrumMaster,
ErrInvalidTransition, ErrInvalidVote, ErrSessionEnded), matched with
errors.Is at the HTTP boundary. Store failures are wrapped with %w and
surface as 500s. Nothing here retries; failures are local to the request.

# Change Feed

After every committed mutation the manager publishes the matching topic
(room, roster, votes) to the events broker, which feeds the SSE layer.
A nil broker disables notifications, which the tests use freely.
*/
package room
