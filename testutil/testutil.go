// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/planning-poker/auth"
	"github.com/danielhkuo/planning-poker/cliparse"
	"github.com/danielhkuo/planning-poker/db"
)

// Room states accepted by CreateTestRoom.
const (
	StateLobby  = "lobby"
	StateVoting = "voting"
	StateFrozen = "frozen"
	StateEnded  = "ended"
)

// SetupTestDB creates an in-memory sqlite database with the full schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A single connection keeps the in-memory database alive and shared
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   ":memory:",
		DatabaseType:  "sqlite",
		MasterKeySalt: "test-master-salt",
	}
}

// CreateTestRoom inserts a room in the given state and returns its code and
// master key. State should be one of StateLobby, StateVoting, StateFrozen,
// or StateEnded.
func CreateTestRoom(t *testing.T, conn *sql.DB, cfg cliparse.Config, state string) (roomCode, masterKey string) {
	t.Helper()

	roomID := uuid.NewString()
	scrumMasterID := uuid.NewString()
	masterKey = auth.GenerateMasterKey(roomID, cfg.MasterKeySalt)

	roomCode, err := auth.GenerateRoomCode(8)
	if err != nil {
		t.Fatalf("Failed to generate room code: %v", err)
	}

	var isActive, votingStarted, votingFrozen bool
	switch state {
	case StateLobby:
		isActive = true
	case StateVoting:
		isActive, votingStarted = true, true
	case StateFrozen:
		isActive, votingStarted, votingFrozen = true, true, true
	case StateEnded:
	default:
		t.Fatalf("Unknown test room state: %q", state)
	}

	_, err = conn.Exec(`
		INSERT INTO rooms (room_id, room_code, scrum_master_id, is_active,
		                   voting_started, voting_frozen, is_revote, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, roomID, roomCode, scrumMasterID, isActive, votingStarted, votingFrozen, false, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}

	return roomCode, masterKey
}

// AddTestMember adds a member to a room and returns the member ID.
func AddTestMember(t *testing.T, conn *sql.DB, roomCode, memberName string) string {
	t.Helper()

	var roomID string
	err := conn.QueryRow("SELECT room_id FROM rooms WHERE room_code = $1", roomCode).Scan(&roomID)
	if err != nil {
		t.Fatalf("Failed to resolve test room: %v", err)
	}

	memberID := uuid.NewString()
	_, err = conn.Exec(`
		INSERT INTO members (member_id, room_id, member_name, is_done, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, memberID, roomID, memberName, false, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}

	return memberID
}

// CastTestVote records a vote directly in the ledger.
func CastTestVote(t *testing.T, conn *sql.DB, roomCode, memberID string, value int) {
	t.Helper()

	var roomID string
	err := conn.QueryRow("SELECT room_id FROM rooms WHERE room_code = $1", roomCode).Scan(&roomID)
	if err != nil {
		t.Fatalf("Failed to resolve test room: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO votes (vote_id, room_id, member_id, vote_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (room_id, member_id) DO UPDATE SET vote_value = excluded.vote_value
	`, uuid.NewString(), roomID, memberID, value)
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
