// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/planning-poker/middleware"
	"github.com/danielhkuo/planning-poker/models"
	"github.com/danielhkuo/planning-poker/room"
)

type RoomHandler struct {
	manager *room.Manager
}

func NewRoomHandler(manager *room.Manager) *RoomHandler {
	return &RoomHandler{manager: manager}
}

// CreateRoom handles POST /rooms
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	roomCode, masterKey, err := h.manager.CreateRoom(r.Context())
	if err != nil {
		respondError(w, err, "create room")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateRoomResponse{
		RoomCode:  roomCode,
		MasterKey: masterKey,
	})
}

// GetStatus handles GET /rooms/{code}
// Readable even after the session has ended so clients can render a
// terminal screen.
func (h *RoomHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code is required")
		return
	}

	status, err := h.manager.Status(r.Context(), code)
	if err != nil {
		respondError(w, err, "query room status")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, status)
}

// EndSession handles POST /rooms/{code}/end
func (h *RoomHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code is required")
		return
	}

	masterKey := r.Header.Get("X-Master-Key")
	if err := h.manager.EndSession(r.Context(), code, masterKey); err != nil {
		respondError(w, err, "end session")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		Success: true,
		Message: "Session ended",
	})
}

// JoinRoom handles POST /rooms/{code}/members
func (h *RoomHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code is required")
		return
	}

	var req models.JoinRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.MemberName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "member_name is required")
		return
	}

	memberID, err := h.manager.Join(r.Context(), code, req.MemberName)
	if err != nil {
		respondError(w, err, "join room")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.JoinRoomResponse{
		MemberID: memberID,
		Message:  "Joined room",
	})
}

// ListMembers handles GET /rooms/{code}/members
func (h *RoomHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code is required")
		return
	}

	members, err := h.manager.Members(r.Context(), code)
	if err != nil {
		respondError(w, err, "list members")
		return
	}

	allDone, err := h.manager.AllDone(r.Context(), code)
	if err != nil {
		respondError(w, err, "check completion")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MembersResponse{
		Success: true,
		Members: members,
		AllDone: allDone,
	})
}

// RenameMember handles PUT /rooms/{code}/members/{id}/name
func (h *RoomHandler) RenameMember(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	memberID := r.PathValue("id")
	if code == "" || memberID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code and member id are required")
		return
	}

	var req models.RenameMemberRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.MemberName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "member_name is required")
		return
	}

	if err := h.manager.Rename(r.Context(), code, memberID, req.MemberName); err != nil {
		respondError(w, err, "rename member")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		Success: true,
		Message: "Member renamed",
	})
}
