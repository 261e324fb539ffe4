// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package events provides the in-process change feed for room state.

# Broker

One Broker serves the whole process. The room lifecycle manager publishes
after every committed mutation; SSE handlers subscribe per room:

	broker := events.NewBroker()

	sub := broker.Subscribe(roomCode, events.TopicRoom, events.TopicRoster)
	defer broker.Unsubscribe(roomCode, sub)

	for ev := range sub.C {
		// re-read the slice of state named by ev.Topic
	}

# Topics

  - TopicRoom: lifecycle flag changes (start, reveal, revote, end)
  - TopicRoster: joins, renames, done-flag changes
  - TopicVotes: vote casts and clears

Subscribing with no topics delivers everything.

# Delivery Semantics

Events carry no payload; subscribers re-read current state from the store.
Because every event triggers a full re-read, delivery is at-most-once:
Publish never blocks, and a subscriber whose buffer is full simply misses
a notification it would have coalesced anyway. A heartbeat at the SSE
layer covers the pathological case of a subscriber missing the final
event before a quiet period.
*/
package events
