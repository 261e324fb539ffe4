package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/planning-poker/models"
	"github.com/danielhkuo/planning-poker/testutil"
)

func TestStartVotingEndpoint(t *testing.T) {
	manager, conn, cfg := newTestManager(t)
	handler := NewVotingHandler(manager)

	roomCode, masterKey := testutil.CreateTestRoom(t, conn, cfg, testutil.StateLobby)

	t.Run("wrong master key", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/rooms/"+roomCode+"/voting/start", nil,
			map[string]string{"X-Master-Key": "wrong-key"})
		req.SetPathValue("code", roomCode)
		w := httptest.NewRecorder()

		handler.StartVoting(w, req)

		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("valid start", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/rooms/"+roomCode+"/voting/start", nil,
			map[string]string{"X-Master-Key": masterKey})
		req.SetPathValue("code", roomCode)
		w := httptest.NewRecorder()

		handler.StartVoting(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var votingStarted bool
		err := conn.QueryRow("SELECT voting_started FROM rooms WHERE room_code = $1", roomCode).Scan(&votingStarted)
		if err != nil {
			t.Fatalf("Failed to query room: %v", err)
		}
		if !votingStarted {
			t.Error("Expected voting_started after start")
		}
	})

	t.Run("repeat start is idempotent", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/rooms/"+roomCode+"/voting/start", nil,
			map[string]string{"X-Master-Key": masterKey})
		req.SetPathValue("code", roomCode)
		w := httptest.NewRecorder()

		handler.StartVoting(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("rejected while frozen", func(t *testing.T) {
		frozenCode, frozenKey := testutil.CreateTestRoom(t, conn, cfg, testutil.StateFrozen)

		req := testutil.MakeRequest("POST", "/rooms/"+frozenCode+"/voting/start", nil,
			map[string]string{"X-Master-Key": frozenKey})
		req.SetPathValue("code", frozenCode)
		w := httptest.NewRecorder()

		handler.StartVoting(w, req)

		testutil.AssertStatus(t, w, http.StatusConflict)
	})
}

func TestCastVoteEndpoint(t *testing.T) {
	manager, conn, cfg := newTestManager(t)
	handler := NewVotingHandler(manager)

	roomCode, _ := testutil.CreateTestRoom(t, conn, cfg, testutil.StateVoting)
	memberID := testutil.AddTestMember(t, conn, roomCode, "Alice")

	lobbyCode, _ := testutil.CreateTestRoom(t, conn, cfg, testutil.StateLobby)
	lobbyMemberID := testutil.AddTestMember(t, conn, lobbyCode, "Bob")

	tests := []struct {
		name           string
		roomCode       string
		memberID       string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:           "valid vote",
			roomCode:       roomCode,
			memberID:       memberID,
			requestBody:    models.CastVoteRequest{VoteValue: 5},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "vote at lower bound",
			roomCode:       roomCode,
			memberID:       memberID,
			requestBody:    models.CastVoteRequest{VoteValue: 0},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "vote above range",
			roomCode:       roomCode,
			memberID:       memberID,
			requestBody:    models.CastVoteRequest{VoteValue: 1001},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative vote",
			roomCode:       roomCode,
			memberID:       memberID,
			requestBody:    models.CastVoteRequest{VoteValue: -1},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown member",
			roomCode:       roomCode,
			memberID:       "nonexistent",
			requestBody:    models.CastVoteRequest{VoteValue: 3},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "voting not open",
			roomCode:       lobbyCode,
			memberID:       lobbyMemberID,
			requestBody:    models.CastVoteRequest{VoteValue: 3},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown room",
			roomCode:       "NOSUCHRM",
			memberID:       memberID,
			requestBody:    models.CastVoteRequest{VoteValue: 3},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST",
				"/rooms/"+tt.roomCode+"/members/"+tt.memberID+"/vote", tt.requestBody, nil)
			req.SetPathValue("code", tt.roomCode)
			req.SetPathValue("id", tt.memberID)
			w := httptest.NewRecorder()

			handler.CastVote(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	// The two successful casts above must have collapsed into one row
	var count, value int
	err := conn.QueryRow(`
		SELECT COUNT(*), MIN(vote_value) FROM votes WHERE member_id = $1
	`, memberID).Scan(&count, &value)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 vote row after re-casting, got %d", count)
	}
	if value != 0 {
		t.Errorf("Expected latest vote value 0, got %d", value)
	}
}

func TestSetDoneEndpoint(t *testing.T) {
	manager, conn, cfg := newTestManager(t)
	handler := NewVotingHandler(manager)

	roomCode, _ := testutil.CreateTestRoom(t, conn, cfg, testutil.StateVoting)
	memberID := testutil.AddTestMember(t, conn, roomCode, "Alice")

	isDone := func(t *testing.T) bool {
		t.Helper()
		var done bool
		err := conn.QueryRow("SELECT is_done FROM members WHERE member_id = $1", memberID).Scan(&done)
		if err != nil {
			t.Fatalf("Failed to query member: %v", err)
		}
		return done
	}

	t.Run("mark done", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/rooms/"+roomCode+"/members/"+memberID+"/done",
			models.SetDoneRequest{Done: true}, nil)
		req.SetPathValue("code", roomCode)
		req.SetPathValue("id", memberID)
		w := httptest.NewRecorder()

		handler.SetDone(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		if !isDone(t) {
			t.Error("Expected member to be marked done")
		}
	})

	t.Run("unmark done", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/rooms/"+roomCode+"/members/"+memberID+"/done",
			models.SetDoneRequest{Done: false}, nil)
		req.SetPathValue("code", roomCode)
		req.SetPathValue("id", memberID)
		w := httptest.NewRecorder()

		handler.SetDone(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		if isDone(t) {
			t.Error("Expected member to be unmarked")
		}
	})

	t.Run("unknown member", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/rooms/"+roomCode+"/members/nonexistent/done",
			models.SetDoneRequest{Done: true}, nil)
		req.SetPathValue("code", roomCode)
		req.SetPathValue("id", "nonexistent")
		w := httptest.NewRecorder()

		handler.SetDone(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestGetMemberStateEndpoint(t *testing.T) {
	manager, conn, cfg := newTestManager(t)
	handler := NewVotingHandler(manager)

	roomCode, _ := testutil.CreateTestRoom(t, conn, cfg, testutil.StateVoting)
	memberID := testutil.AddTestMember(t, conn, roomCode, "Alice")

	getState := func(t *testing.T, id string) (*httptest.ResponseRecorder, models.MemberState) {
		t.Helper()
		req := httptest.NewRequest("GET", "/rooms/"+roomCode+"/members/"+id, nil)
		req.SetPathValue("code", roomCode)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()

		handler.GetMemberState(w, req)

		var state models.MemberState
		if w.Code == http.StatusOK {
			testutil.AssertJSON(t, w, &state)
		}
		return w, state
	}

	t.Run("before voting", func(t *testing.T) {
		w, state := getState(t, memberID)
		testutil.AssertStatus(t, w, http.StatusOK)

		if state.CastVote != nil {
			t.Errorf("Expected no cast vote, got %d", *state.CastVote)
		}
		if state.IsDone {
			t.Error("Expected is_done false")
		}
	})

	t.Run("after vote and done", func(t *testing.T) {
		testutil.CastTestVote(t, conn, roomCode, memberID, 13)
		if _, err := conn.Exec("UPDATE members SET is_done = $1 WHERE member_id = $2", true, memberID); err != nil {
			t.Fatalf("Failed to mark member done: %v", err)
		}

		w, state := getState(t, memberID)
		testutil.AssertStatus(t, w, http.StatusOK)

		if state.CastVote == nil || *state.CastVote != 13 {
			t.Errorf("Expected restored vote 13, got %v", state.CastVote)
		}
		if !state.IsDone {
			t.Error("Expected is_done true")
		}
	})

	t.Run("unknown member", func(t *testing.T) {
		w, _ := getState(t, "nonexistent")
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
