// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the planning poker API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(manager, broker)

# Endpoints

Health:

	GET /health

Room lifecycle (scrum master, requires X-Master-Key except create):

	POST /rooms                      - Create room
	POST /rooms/{code}/voting/start  - Open voting
	POST /rooms/{code}/voting/reveal - Freeze voting, reveal votes
	POST /rooms/{code}/voting/revote - Clear ledger, reopen voting
	POST /rooms/{code}/end           - End session (terminal)

Roster and members (public, uses room code):

	POST /rooms/{code}/members           - Join room
	GET  /rooms/{code}/members           - List members with all-done flag
	GET  /rooms/{code}/members/{id}      - Member round state
	PUT  /rooms/{code}/members/{id}/name - Rename member
	POST /rooms/{code}/members/{id}/vote - Cast vote
	POST /rooms/{code}/members/{id}/done - Set done flag

Results (public):

	GET /rooms/{code}       - Room status
	GET /rooms/{code}/stats - Vote statistics

Change feed:

	GET /rooms/{code}/events - Server-sent event stream

# Handler Initialization

The router creates handler instances with dependency injection:

	roomHandler := handlers.NewRoomHandler(manager)
	votingHandler := handlers.NewVotingHandler(manager)
	resultsHandler := handlers.NewResultsHandler(manager)
	eventsHandler := handlers.NewEventsHandler(manager, broker)

All handlers receive the room lifecycle manager; the events handler also
receives the change broker.
*/
package router
