// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"log/slog"
	"sync"
	"time"
)

// Topic identifies which slice of room state changed.
type Topic string

const (
	TopicRoom   Topic = "room"   // lifecycle flags: active, started, frozen, revote
	TopicRoster Topic = "roster" // joins, renames, done flags
	TopicVotes  Topic = "votes"  // casts and clears
)

// Event is a change notification. It carries no payload: subscribers re-read
// current state through the lifecycle manager, which keeps the feed cheap and
// the store authoritative.
type Event struct {
	Topic Topic
	At    time.Time
}

// subscriberBuffer bounds how far a slow client may fall behind before
// notifications are dropped. Dropped events are safe to lose since every
// event triggers a full state re-read.
const subscriberBuffer = 8

// Subscription is one client's view of a room's change feed.
type Subscription struct {
	C      chan Event
	topics map[Topic]bool
}

func (s *Subscription) wants(topic Topic) bool {
	return len(s.topics) == 0 || s.topics[topic]
}

// Broker fans out room change notifications to SSE subscribers. One broker
// serves the whole process; subscriptions are keyed by room code.
type Broker struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscription]bool
}

func NewBroker() *Broker {
	return &Broker{
		rooms: make(map[string]map[*Subscription]bool),
	}
}

// Subscribe registers interest in a room's changes. With no topics, every
// topic is delivered. The caller must Unsubscribe when done.
func (b *Broker) Subscribe(roomCode string, topics ...Topic) *Subscription {
	sub := &Subscription{
		C:      make(chan Event, subscriberBuffer),
		topics: make(map[Topic]bool, len(topics)),
	}
	for _, t := range topics {
		sub.topics[t] = true
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rooms[roomCode] == nil {
		b.rooms[roomCode] = make(map[*Subscription]bool)
	}
	b.rooms[roomCode][sub] = true

	return sub
}

// Unsubscribe removes the subscription and closes its channel.
func (b *Broker) Unsubscribe(roomCode string, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.rooms[roomCode]
	if !ok || !subs[sub] {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(b.rooms, roomCode)
	}
	close(sub.C)
}

// Publish notifies every subscriber of the room that wants the topic.
// Sends never block: a subscriber with a full buffer misses the event.
func (b *Broker) Publish(roomCode string, topic Topic) {
	ev := Event{Topic: topic, At: time.Now()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.rooms[roomCode] {
		if !sub.wants(topic) {
			continue
		}
		select {
		case sub.C <- ev:
		default:
			slog.Debug("dropping event for slow subscriber", "room_code", roomCode, "topic", topic)
		}
	}
}

// SubscriberCount reports how many subscriptions a room currently has.
func (b *Broker) SubscriberCount(roomCode string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms[roomCode])
}
