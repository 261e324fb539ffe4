// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/planning-poker/events"
	"github.com/danielhkuo/planning-poker/handlers"
	"github.com/danielhkuo/planning-poker/middleware"
	"github.com/danielhkuo/planning-poker/room"
)

func NewRouter(manager *room.Manager, broker *events.Broker) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(manager)
	votingHandler := handlers.NewVotingHandler(manager)
	resultsHandler := handlers.NewResultsHandler(manager)
	eventsHandler := handlers.NewEventsHandler(manager, broker)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Room lifecycle (scrum master operations)
	mux.HandleFunc("POST /rooms", middleware.WithLogging(roomHandler.CreateRoom))
	mux.HandleFunc("GET /rooms/{code}", middleware.WithLogging(roomHandler.GetStatus))
	mux.HandleFunc("POST /rooms/{code}/end", middleware.WithLogging(roomHandler.EndSession))
	mux.HandleFunc("POST /rooms/{code}/voting/start", middleware.WithLogging(votingHandler.StartVoting))
	mux.HandleFunc("POST /rooms/{code}/voting/reveal", middleware.WithLogging(resultsHandler.Reveal))
	mux.HandleFunc("POST /rooms/{code}/voting/revote", middleware.WithLogging(resultsHandler.Revote))

	// Roster and member operations (public)
	mux.HandleFunc("POST /rooms/{code}/members", middleware.WithLogging(roomHandler.JoinRoom))
	mux.HandleFunc("GET /rooms/{code}/members", middleware.WithLogging(roomHandler.ListMembers))
	mux.HandleFunc("GET /rooms/{code}/members/{id}", middleware.WithLogging(votingHandler.GetMemberState))
	mux.HandleFunc("PUT /rooms/{code}/members/{id}/name", middleware.WithLogging(roomHandler.RenameMember))
	mux.HandleFunc("POST /rooms/{code}/members/{id}/vote", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("POST /rooms/{code}/members/{id}/done", middleware.WithLogging(votingHandler.SetDone))

	// Results retrieval (public)
	mux.HandleFunc("GET /rooms/{code}/stats", middleware.WithLogging(resultsHandler.GetStats))

	// Change feed (SSE)
	mux.HandleFunc("GET /rooms/{code}/events", middleware.WithLogging(eventsHandler.Stream))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("planning-poker API v1"))
	})

	return mux
}
