// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package room

import "errors"

// Business-rule errors. Handlers translate these to HTTP statuses; anything
// else coming out of the manager is a persistence failure and maps to 500.
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrNotScrumMaster    = errors.New("operation requires the scrum master key")
	ErrInvalidTransition = errors.New("operation not valid in the room's current state")
	ErrInvalidVote       = errors.New("vote value out of range")
	ErrSessionEnded      = errors.New("session has ended")
)
