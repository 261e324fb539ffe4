// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/planning-poker/middleware"
	"github.com/danielhkuo/planning-poker/room"
)

// respondError translates manager errors to HTTP statuses. Anything that is
// not a business-rule error is a persistence failure and maps to 500.
func respondError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
	case errors.Is(err, room.ErrMemberNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Member not found")
	case errors.Is(err, room.ErrNotScrumMaster):
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid master key")
	case errors.Is(err, room.ErrSessionEnded):
		middleware.ErrorResponse(w, http.StatusConflict, "Session has ended")
	case errors.Is(err, room.ErrInvalidTransition):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, room.ErrInvalidVote):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("failed to "+action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
