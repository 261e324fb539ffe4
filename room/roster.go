// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package room

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/planning-poker/events"
	"github.com/danielhkuo/planning-poker/models"
)

// Members lists the roster in join order. Readable for ended rooms.
func (m *Manager) Members(ctx context.Context, code string) ([]models.Member, error) {
	rm, err := m.resolve(ctx, m.db, code)
	if err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT member_id, member_name, is_done
		FROM members
		WHERE room_id = $1
		ORDER BY joined_at
	`, rm.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var mem models.Member
		if err := rows.Scan(&mem.MemberID, &mem.MemberName, &mem.IsDone); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, mem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	return members, nil
}

// AllDone reports whether every member has marked done. An empty roster is
// vacuously done: a room with nobody in it is "ready to reveal".
func (m *Manager) AllDone(ctx context.Context, code string) (bool, error) {
	rm, err := m.resolve(ctx, m.db, code)
	if err != nil {
		return false, err
	}

	var notDone int
	err = m.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM members WHERE room_id = $1 AND is_done = $2
	`, rm.RoomID, false).Scan(&notDone)
	if err != nil {
		return false, fmt.Errorf("failed to count pending members: %w", err)
	}
	return notDone == 0, nil
}

// Rename updates a member's display name in place. Names are not unique
// within a room.
func (m *Manager) Rename(ctx context.Context, code, memberID, newName string) error {
	rm, err := m.resolveActive(ctx, m.db, code)
	if err != nil {
		return err
	}

	res, err := m.db.ExecContext(ctx, `
		UPDATE members SET member_name = $1 WHERE room_id = $2 AND member_id = $3
	`, newName, rm.RoomID, memberID)
	if err != nil {
		return fmt.Errorf("failed to rename member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMemberNotFound
	}

	slog.Info("member renamed", "room_code", rm.RoomCode, "member_id", memberID)
	m.publish(rm.RoomCode, events.TopicRoster)
	return nil
}

// MemberState returns the member's current vote (nil when none) and done
// flag, used to restore a client's view after reconnect.
func (m *Manager) MemberState(ctx context.Context, code, memberID string) (models.MemberState, error) {
	rm, err := m.resolve(ctx, m.db, code)
	if err != nil {
		return models.MemberState{}, err
	}

	var state models.MemberState
	err = m.db.QueryRowContext(ctx, `
		SELECT is_done FROM members WHERE room_id = $1 AND member_id = $2
	`, rm.RoomID, memberID).Scan(&state.IsDone)
	if err == sql.ErrNoRows {
		return models.MemberState{}, ErrMemberNotFound
	}
	if err != nil {
		return models.MemberState{}, fmt.Errorf("failed to query member: %w", err)
	}

	var value int
	err = m.db.QueryRowContext(ctx, `
		SELECT vote_value FROM votes WHERE room_id = $1 AND member_id = $2
	`, rm.RoomID, memberID).Scan(&value)
	if err == nil {
		state.CastVote = &value
	} else if err != sql.ErrNoRows {
		return models.MemberState{}, fmt.Errorf("failed to query vote: %w", err)
	}

	return state, nil
}
