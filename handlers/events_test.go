// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/planning-poker/events"
	"github.com/danielhkuo/planning-poker/room"
	"github.com/danielhkuo/planning-poker/testutil"
)

func TestParseTopics(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []events.Topic
		wantErr  bool
	}{
		{name: "empty means all", raw: "", expected: nil},
		{name: "single topic", raw: "room", expected: []events.Topic{events.TopicRoom}},
		{
			name:     "all three",
			raw:      "room,roster,votes",
			expected: []events.Topic{events.TopicRoom, events.TopicRoster, events.TopicVotes},
		},
		{
			name:     "whitespace and trailing comma",
			raw:      " roster , votes ,",
			expected: []events.Topic{events.TopicRoster, events.TopicVotes},
		},
		{name: "unknown topic", raw: "ballots", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topics, err := parseTopics(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error for unknown topic")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(topics) != len(tt.expected) {
				t.Fatalf("Expected %d topics, got %d", len(tt.expected), len(topics))
			}
			for i, topic := range tt.expected {
				if topics[i] != topic {
					t.Errorf("Expected topic %q at %d, got %q", topic, i, topics[i])
				}
			}
		})
	}
}

func TestStreamRejectsUnknownRoom(t *testing.T) {
	manager, _, _ := newTestManager(t)
	handler := NewEventsHandler(manager, events.NewBroker())

	req := httptest.NewRequest("GET", "/rooms/NOSUCHRM/events", nil)
	req.SetPathValue("code", "NOSUCHRM")
	w := httptest.NewRecorder()

	handler.Stream(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestStreamRejectsUnknownTopic(t *testing.T) {
	manager, conn, cfg := newTestManager(t)
	handler := NewEventsHandler(manager, events.NewBroker())

	roomCode, _ := testutil.CreateTestRoom(t, conn, cfg, testutil.StateLobby)

	req := httptest.NewRequest("GET", "/rooms/"+roomCode+"/events?topics=ballots", nil)
	req.SetPathValue("code", roomCode)
	w := httptest.NewRecorder()

	handler.Stream(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

// streamFor runs the SSE handler until the context is cancelled and returns
// the accumulated body.
func streamFor(t *testing.T, handler *EventsHandler, path, code string, d time.Duration, during func()) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", path, nil).WithContext(ctx)
	req.SetPathValue("code", code)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.Stream(w, req)
	}()

	time.Sleep(d / 2)
	if during != nil {
		during()
	}
	time.Sleep(d / 2)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stream handler did not exit after context cancellation")
	}

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for stream, got %d. Body: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Expected Content-Type 'text/event-stream', got %q", ct)
	}
	return w.Body.String()
}

func TestStreamSendsInitialSnapshots(t *testing.T) {
	manager, conn, cfg := newTestManager(t)
	broker := events.NewBroker()
	handler := NewEventsHandler(manager, broker)

	roomCode, _ := testutil.CreateTestRoom(t, conn, cfg, testutil.StateLobby)
	testutil.AddTestMember(t, conn, roomCode, "Alice")

	body := streamFor(t, handler, "/rooms/"+roomCode+"/events", roomCode, 100*time.Millisecond, nil)

	for _, topic := range []string{"event: room", "event: roster", "event: votes"} {
		if !strings.Contains(body, topic) {
			t.Errorf("Expected initial snapshot %q in stream, got: %s", topic, body)
		}
	}
	if !strings.Contains(body, "Alice") {
		t.Errorf("Expected roster snapshot to include Alice, got: %s", body)
	}
}

func TestStreamFiltersTopics(t *testing.T) {
	manager, conn, cfg := newTestManager(t)
	broker := events.NewBroker()
	handler := NewEventsHandler(manager, broker)

	roomCode, _ := testutil.CreateTestRoom(t, conn, cfg, testutil.StateLobby)

	body := streamFor(t, handler, "/rooms/"+roomCode+"/events?topics=room", roomCode, 100*time.Millisecond, nil)

	if !strings.Contains(body, "event: room") {
		t.Errorf("Expected room snapshot in stream, got: %s", body)
	}
	if strings.Contains(body, "event: roster") || strings.Contains(body, "event: votes") {
		t.Errorf("Expected only room events in filtered stream, got: %s", body)
	}
}

func TestStreamDeliversChanges(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	broker := events.NewBroker()
	manager := room.NewManager(conn, cfg, broker)
	handler := NewEventsHandler(manager, broker)

	roomCode, _ := testutil.CreateTestRoom(t, conn, cfg, testutil.StateLobby)

	body := streamFor(t, handler, "/rooms/"+roomCode+"/events?topics=roster", roomCode, 200*time.Millisecond, func() {
		if _, err := manager.Join(context.Background(), roomCode, "Bob"); err != nil {
			t.Errorf("Join failed: %v", err)
		}
	})

	if !strings.Contains(body, "Bob") {
		t.Errorf("Expected roster update with Bob in stream, got: %s", body)
	}
}

func TestStreamUnsubscribesOnDisconnect(t *testing.T) {
	manager, conn, cfg := newTestManager(t)
	broker := events.NewBroker()
	handler := NewEventsHandler(manager, broker)

	roomCode, _ := testutil.CreateTestRoom(t, conn, cfg, testutil.StateLobby)
	normalized := room.NormalizeCode(roomCode)

	streamFor(t, handler, "/rooms/"+roomCode+"/events", roomCode, 100*time.Millisecond, func() {
		if broker.SubscriberCount(normalized) != 1 {
			t.Error("Expected one subscriber while stream is open")
		}
	})

	if broker.SubscriberCount(normalized) != 0 {
		t.Error("Expected subscription cleanup after disconnect")
	}
}

func TestStreamSnapshotPayloads(t *testing.T) {
	manager, conn, cfg := newTestManager(t)
	broker := events.NewBroker()
	handler := NewEventsHandler(manager, broker)

	roomCode, _ := testutil.CreateTestRoom(t, conn, cfg, testutil.StateFrozen)

	body := streamFor(t, handler, "/rooms/"+roomCode+"/events?topics=room", roomCode, 100*time.Millisecond, nil)

	if !strings.Contains(body, `"voting_frozen":true`) {
		t.Errorf("Expected frozen room snapshot payload, got: %s", body)
	}
}
