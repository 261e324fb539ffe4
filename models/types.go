package models

import "time"

// Vote value bounds. Values outside this range are rejected at cast time,
// so aggregation never sees non-numeric or out-of-range input.
const (
	MinVoteValue = 0
	MaxVoteValue = 1000
)

// Request types

type JoinRoomRequest struct {
	MemberName string `json:"member_name"`
}

type CastVoteRequest struct {
	VoteValue int `json:"vote_value"`
}

type SetDoneRequest struct {
	Done bool `json:"done"`
}

type RenameMemberRequest struct {
	MemberName string `json:"member_name"`
}

// Response types

type CreateRoomResponse struct {
	RoomCode  string `json:"room_code"`
	MasterKey string `json:"master_key"`
}

type JoinRoomResponse struct {
	MemberID string `json:"member_id"`
	Message  string `json:"message"`
}

type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type RevealResponse struct {
	Success bool           `json:"success"`
	Votes   []RevealedVote `json:"votes"`
}

type StatsResponse struct {
	Success bool      `json:"success"`
	Stats   VoteStats `json:"stats"`
}

type MembersResponse struct {
	Success bool     `json:"success"`
	Members []Member `json:"members"`
	AllDone bool     `json:"all_done"`
}

// Domain types

type Room struct {
	RoomID        string    `json:"room_id"`
	RoomCode      string    `json:"room_code"`
	ScrumMasterID string    `json:"-"` // Never expose in JSON
	IsActive      bool      `json:"is_active"`
	VotingStarted bool      `json:"voting_started"`
	VotingFrozen  bool      `json:"voting_frozen"`
	IsRevote      bool      `json:"is_revote"`
	CreatedAt     time.Time `json:"created_at"`
}

type Member struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	IsDone     bool   `json:"is_done"`
}

// RoomStatus is the cheap polling/SSE read used to detect lifecycle transitions.
type RoomStatus struct {
	IsActive      bool   `json:"is_active"`
	VotingStarted bool   `json:"voting_started"`
	VotingFrozen  bool   `json:"voting_frozen"`
	IsRevote      bool   `json:"is_revote"`
	CreatedAgo    string `json:"created_ago"`
}

// MemberState restores a member's view of the round on reconnect.
type MemberState struct {
	CastVote *int `json:"cast_vote"` // nil when no vote cast this round
	IsDone   bool `json:"is_done"`
}

type RevealedVote struct {
	MemberName string `json:"member_name"`
	VoteValue  int    `json:"vote_value"`
}

// VoteStats aggregates the current round. Average, Min and Max are nil
// when Count is zero.
type VoteStats struct {
	Average *float64 `json:"average"`
	Min     *int     `json:"min"`
	Max     *int     `json:"max"`
	Count   int      `json:"count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
