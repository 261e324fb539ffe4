// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/planning-poker/events"
	"github.com/danielhkuo/planning-poker/middleware"
	"github.com/danielhkuo/planning-poker/models"
	"github.com/danielhkuo/planning-poker/room"
)

const heartbeatInterval = 15 * time.Second

type EventsHandler struct {
	manager *room.Manager
	broker  *events.Broker
}

func NewEventsHandler(manager *room.Manager, broker *events.Broker) *EventsHandler {
	return &EventsHandler{manager: manager, broker: broker}
}

// parseTopics converts the comma-separated topics query parameter into
// broker topics. An empty parameter subscribes to everything.
func parseTopics(raw string) ([]events.Topic, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var topics []events.Topic
	for _, part := range strings.Split(raw, ",") {
		switch strings.TrimSpace(part) {
		case "room":
			topics = append(topics, events.TopicRoom)
		case "roster":
			topics = append(topics, events.TopicRoster)
		case "votes":
			topics = append(topics, events.TopicVotes)
		case "":
			// Tolerate trailing commas
		default:
			return nil, fmt.Errorf("unknown topic %q", strings.TrimSpace(part))
		}
	}
	return topics, nil
}

// Stream handles GET /rooms/{code}/events
// Server-sent events: one snapshot per subscribed topic up front, then a
// fresh snapshot whenever that topic changes, plus periodic heartbeats.
// Events carry no payload internally; the handler re-reads current state
// so clients always see a consistent view.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room code is required")
		return
	}

	topics, err := parseTopics(r.URL.Query().Get("topics"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Resolve before committing to the stream so unknown rooms still get
	// a JSON 404.
	if _, err := h.manager.Status(r.Context(), code); err != nil {
		respondError(w, err, "resolve room for event stream")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	normalized := room.NormalizeCode(code)
	sub := h.broker.Subscribe(normalized, topics...)
	defer h.broker.Unsubscribe(normalized, sub)

	slog.Info("event stream opened", "room_code", normalized, "remote", r.RemoteAddr)
	defer slog.Info("event stream closed", "room_code", normalized, "remote", r.RemoteAddr)

	// Initial snapshot for each subscribed topic.
	initial := topics
	if len(initial) == 0 {
		initial = []events.Topic{events.TopicRoom, events.TopicRoster, events.TopicVotes}
	}
	for _, topic := range initial {
		if err := h.writeSnapshot(r.Context(), w, normalized, topic); err != nil {
			return
		}
	}
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			if err := h.writeSnapshot(r.Context(), w, normalized, ev.Topic); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeSnapshot re-reads current state for a topic and writes it as one
// SSE frame.
func (h *EventsHandler) writeSnapshot(ctx context.Context, w http.ResponseWriter, code string, topic events.Topic) error {
	var payload interface{}

	switch topic {
	case events.TopicRoom:
		status, err := h.manager.Status(ctx, code)
		if err != nil {
			return err
		}
		payload = status
	case events.TopicRoster:
		members, err := h.manager.Members(ctx, code)
		if err != nil {
			return err
		}
		allDone, err := h.manager.AllDone(ctx, code)
		if err != nil {
			return err
		}
		payload = models.MembersResponse{Success: true, Members: members, AllDone: allDone}
	case events.TopicVotes:
		stats, err := h.manager.Stats(ctx, code)
		if err != nil {
			return err
		}
		payload = models.StatsResponse{Success: true, Stats: stats}
	default:
		return fmt.Errorf("unknown topic %q", topic)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", topic, data)
	return err
}
