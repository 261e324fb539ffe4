// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/planning-poker/middleware"
	"github.com/danielhkuo/planning-poker/models"
	"github.com/danielhkuo/planning-poker/room"
)

type ResultsHandler struct {
	manager *room.Manager
}

func NewResultsHandler(manager *room.Manager) *ResultsHandler {
	return &ResultsHandler{manager: manager}
}

// Reveal handles POST /rooms/{code}/voting/reveal
// Freezes voting and returns every cast vote with its member name.
// Idempotent while frozen: a repeat reveal returns the same ledger.
func (h *ResultsHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code is required")
		return
	}

	masterKey := r.Header.Get("X-Master-Key")
	votes, err := h.manager.Reveal(r.Context(), code, masterKey)
	if err != nil {
		respondError(w, err, "reveal votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RevealResponse{
		Success: true,
		Votes:   votes,
	})
}

// Revote handles POST /rooms/{code}/voting/revote
// Clears the ledger and reopens voting after a reveal.
func (h *ResultsHandler) Revote(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code is required")
		return
	}

	masterKey := r.Header.Get("X-Master-Key")
	if err := h.manager.Revote(r.Context(), code, masterKey); err != nil {
		respondError(w, err, "start revote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		Success: true,
		Message: "Revote started",
	})
}

// GetStats handles GET /rooms/{code}/stats
func (h *ResultsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code is required")
		return
	}

	stats, err := h.manager.Stats(r.Context(), code)
	if err != nil {
		respondError(w, err, "compute vote stats")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatsResponse{
		Success: true,
		Stats:   stats,
	})
}
