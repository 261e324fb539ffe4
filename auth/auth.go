// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidMasterKey = errors.New("invalid master key")

// roomCodeChars excludes visually ambiguous characters (0/O, 1/I/L) so codes
// survive being read aloud in a standup.
const roomCodeChars = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateRoomCode creates a random shareable room code of the given length.
// Codes are uppercase; lookups normalize input the same way.
func GenerateRoomCode(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate room code: %w", err)
	}
	for i := range b {
		b[i] = roomCodeChars[int(b[i])%len(roomCodeChars)]
	}
	return string(b), nil
}

// GenerateMasterKey creates an HMAC-based scrum master key for a room.
// This is deterministic and verifiable, so the key never needs to be stored.
func GenerateMasterKey(roomID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(roomID))
	sum := h.Sum(nil)
	// URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateMasterKey checks if the provided key is the scrum master key for the room
func ValidateMasterKey(roomID, masterKey, salt string) error {
	expected := GenerateMasterKey(roomID, salt)
	if !hmac.Equal([]byte(masterKey), []byte(expected)) {
		return ErrInvalidMasterKey
	}
	return nil
}
