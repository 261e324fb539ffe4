// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/planning-poker/middleware"
	"github.com/danielhkuo/planning-poker/models"
	"github.com/danielhkuo/planning-poker/room"
)

type VotingHandler struct {
	manager *room.Manager
}

func NewVotingHandler(manager *room.Manager) *VotingHandler {
	return &VotingHandler{manager: manager}
}

// StartVoting handles POST /rooms/{code}/voting/start
func (h *VotingHandler) StartVoting(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code is required")
		return
	}

	masterKey := r.Header.Get("X-Master-Key")
	if err := h.manager.StartVoting(r.Context(), code, masterKey); err != nil {
		respondError(w, err, "start voting")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		Success: true,
		Message: "Voting started",
	})
}

// CastVote handles POST /rooms/{code}/members/{id}/vote
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	memberID := r.PathValue("id")
	if code == "" || memberID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code and member id are required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.manager.CastVote(r.Context(), code, memberID, req.VoteValue); err != nil {
		respondError(w, err, "cast vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		Success: true,
		Message: "Vote recorded",
	})
}

// SetDone handles POST /rooms/{code}/members/{id}/done
// Accepts {"done": bool} so a member can both mark and unmark readiness.
func (h *VotingHandler) SetDone(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	memberID := r.PathValue("id")
	if code == "" || memberID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code and member id are required")
		return
	}

	var req models.SetDoneRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.manager.SetDone(r.Context(), code, memberID, req.Done); err != nil {
		respondError(w, err, "update done flag")
		return
	}

	message := "Marked done"
	if !req.Done {
		message = "Marked not done"
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		Success: true,
		Message: message,
	})
}

// GetMemberState handles GET /rooms/{code}/members/{id}
// Restores a member's round view after a reconnect.
func (h *VotingHandler) GetMemberState(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	memberID := r.PathValue("id")
	if code == "" || memberID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code and member id are required")
		return
	}

	state, err := h.manager.MemberState(r.Context(), code, memberID)
	if err != nil {
		respondError(w, err, "query member state")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, state)
}
