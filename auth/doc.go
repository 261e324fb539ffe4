// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides room codes and scrum master key utilities.

# Master Keys

Master keys use HMAC-SHA256 to create deterministic, verifiable keys:

	masterKey := auth.GenerateMasterKey(roomID, salt)
	err := auth.ValidateMasterKey(roomID, masterKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same room ID and salt always produce the same key. This allows validation
without storing the key in the database. Master-only operations (start voting,
reveal, revote, end session) require it via the X-Master-Key header.

# Room Codes

Room codes are short random codes read aloud or pasted into chat:

	code, err := auth.GenerateRoomCode(8)

The alphabet excludes 0/O and 1/I/L. Codes are uppercase; the lifecycle
manager uppercases lookups so codes are effectively case-insensitive.
Collisions are handled by the caller regenerating on a unique violation.
*/
package auth
