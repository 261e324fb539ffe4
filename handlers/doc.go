// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the planning poker API.

# Handler Types

Each handler is a struct wrapping the room lifecycle manager:

  - RoomHandler: Room lifecycle and roster (create, status, join, rename, end)
  - VotingHandler: Vote casting, done flags, and round-state restore
  - ResultsHandler: Reveal, revote, and vote statistics
  - EventsHandler: Server-sent event streams of room changes

Handlers are created via constructor functions that accept *room.Manager:

	roomHandler := handlers.NewRoomHandler(manager)

# Room Lifecycle

Rooms progress Lobby → VotingOpen → VotingFrozen, with revote looping back
to VotingOpen and Ended terminal from anywhere:

	POST /rooms                      → CreateRoom (returns master_key)
	POST /rooms/{code}/voting/start  → StartVoting
	POST /rooms/{code}/voting/reveal → Reveal (freezes voting)
	POST /rooms/{code}/voting/revote → Revote (clears ledger, reopens)
	POST /rooms/{code}/end           → EndSession (terminal)

Scrum master operations require the X-Master-Key header.

# Member Flow

Members join with the shareable room code:

	POST /rooms/{code}/members              → JoinRoom (returns member_id)
	POST /rooms/{code}/members/{id}/vote    → CastVote
	POST /rooms/{code}/members/{id}/done    → SetDone
	GET  /rooms/{code}/members/{id}         → GetMemberState (reconnect restore)

# Change Feed

One SSE endpoint replaces per-concern polling:

	GET /rooms/{code}/events?topics=room,roster,votes → Stream

Each subscribed topic gets an initial snapshot and a fresh snapshot on
every change, with heartbeat comments every 15 seconds.

# Error Mapping

Manager errors translate to HTTP statuses in errors.go: 404 for unresolved
rooms and members, 403 for a bad master key, 409 for invalid transitions
and ended sessions, 400 for out-of-range votes, 500 for persistence
failures.
*/
package handlers
