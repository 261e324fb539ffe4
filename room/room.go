// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package room

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/danielhkuo/planning-poker/auth"
	"github.com/danielhkuo/planning-poker/cliparse"
	"github.com/danielhkuo/planning-poker/events"
	"github.com/danielhkuo/planning-poker/models"
)

const (
	roomCodeLength     = 8
	createCodeAttempts = 5
)

// Manager owns the room lifecycle state machine: Lobby → VotingOpen →
// VotingFrozen → (revote) VotingOpen, with Ended terminal from anywhere.
// Every multi-row transition runs in a single transaction.
type Manager struct {
	db     *sql.DB
	cfg    cliparse.Config
	broker *events.Broker
}

// NewManager creates a lifecycle manager. The broker may be nil, in which
// case change notifications are skipped.
func NewManager(db *sql.DB, cfg cliparse.Config, broker *events.Broker) *Manager {
	return &Manager{db: db, cfg: cfg, broker: broker}
}

// querier is satisfied by both *sql.DB and *sql.Tx so room resolution can
// run inside or outside a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// NormalizeCode uppercases and trims a client-supplied room code, making
// codes case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// resolve loads the room by code.
func (m *Manager) resolve(ctx context.Context, q querier, code string) (models.Room, error) {
	var rm models.Room
	err := q.QueryRowContext(ctx, `
		SELECT room_id, room_code, scrum_master_id, is_active,
		       voting_started, voting_frozen, is_revote, created_at
		FROM rooms
		WHERE room_code = $1
	`, NormalizeCode(code)).Scan(
		&rm.RoomID, &rm.RoomCode, &rm.ScrumMasterID, &rm.IsActive,
		&rm.VotingStarted, &rm.VotingFrozen, &rm.IsRevote, &rm.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Room{}, ErrRoomNotFound
	}
	if err != nil {
		return models.Room{}, fmt.Errorf("failed to resolve room: %w", err)
	}
	return rm, nil
}

// resolveActive loads the room and rejects anything already ended. Ended is
// terminal: every mutation calls this first.
func (m *Manager) resolveActive(ctx context.Context, q querier, code string) (models.Room, error) {
	rm, err := m.resolve(ctx, q, code)
	if err != nil {
		return models.Room{}, err
	}
	if !rm.IsActive {
		return models.Room{}, ErrSessionEnded
	}
	return rm, nil
}

// requireMaster validates the scrum master key for master-only transitions.
func (m *Manager) requireMaster(rm models.Room, masterKey string) error {
	if err := auth.ValidateMasterKey(rm.RoomID, masterKey, m.cfg.MasterKeySalt); err != nil {
		return ErrNotScrumMaster
	}
	return nil
}

func (m *Manager) publish(code string, topics ...events.Topic) {
	if m.broker == nil {
		return
	}
	for _, t := range topics {
		m.broker.Publish(NormalizeCode(code), t)
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") || // lib/pq
		strings.Contains(msg, "UNIQUE constraint failed") // sqlite
}

// CreateRoom creates a room in the Lobby state and returns its shareable
// code plus the scrum master key. Code collisions are resolved by
// regenerating; the unique index on room_code is the arbiter.
func (m *Manager) CreateRoom(ctx context.Context) (roomCode, masterKey string, err error) {
	roomID := uuid.NewString()
	scrumMasterID := uuid.NewString()

	for attempt := 0; attempt < createCodeAttempts; attempt++ {
		roomCode, err = auth.GenerateRoomCode(roomCodeLength)
		if err != nil {
			return "", "", err
		}

		_, err = m.db.ExecContext(ctx, `
			INSERT INTO rooms (room_id, room_code, scrum_master_id, is_active,
			                   voting_started, voting_frozen, is_revote, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, roomID, roomCode, scrumMasterID, true, false, false, false, time.Now())

		if err == nil {
			slog.Info("room created", "room_id", roomID, "room_code", roomCode)
			return roomCode, auth.GenerateMasterKey(roomID, m.cfg.MasterKeySalt), nil
		}
		if !isUniqueViolation(err) {
			return "", "", fmt.Errorf("failed to insert room: %w", err)
		}
		slog.Warn("room code collision, regenerating", "room_code", roomCode, "attempt", attempt+1)
	}

	return "", "", fmt.Errorf("failed to create room: exhausted %d code attempts: %w", createCodeAttempts, err)
}

// Join adds a member to the room and returns the new member ID. Joining is
// allowed in any non-Ended state, including after voting has started; a
// late joiner simply votes into the running round.
func (m *Manager) Join(ctx context.Context, code, memberName string) (string, error) {
	rm, err := m.resolveActive(ctx, m.db, code)
	if err != nil {
		return "", err
	}

	memberID := uuid.NewString()
	_, err = m.db.ExecContext(ctx, `
		INSERT INTO members (member_id, room_id, member_name, is_done, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, memberID, rm.RoomID, memberName, false, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to insert member: %w", err)
	}

	slog.Info("member joined", "room_code", rm.RoomCode, "member_id", memberID, "member_name", memberName)
	m.publish(rm.RoomCode, events.TopicRoster)
	return memberID, nil
}

// StartVoting transitions Lobby → VotingOpen. Idempotent when voting is
// already open; rejected while frozen (use Revote instead).
func (m *Manager) StartVoting(ctx context.Context, code, masterKey string) error {
	rm, err := m.resolveActive(ctx, m.db, code)
	if err != nil {
		return err
	}
	if err := m.requireMaster(rm, masterKey); err != nil {
		return err
	}
	if rm.VotingFrozen {
		return fmt.Errorf("%w: votes are revealed, start a new round with revote", ErrInvalidTransition)
	}
	if rm.VotingStarted {
		return nil
	}

	_, err = m.db.ExecContext(ctx, `
		UPDATE rooms SET voting_started = $1 WHERE room_id = $2
	`, true, rm.RoomID)
	if err != nil {
		return fmt.Errorf("failed to start voting: %w", err)
	}

	slog.Info("voting started", "room_code", rm.RoomCode)
	m.publish(rm.RoomCode, events.TopicRoom)
	return nil
}

// CastVote upserts the member's vote for the current round. Valid only
// while voting is open and the member has not marked done: the done flag
// locks the vote server-side.
func (m *Manager) CastVote(ctx context.Context, code, memberID string, value int) error {
	if value < models.MinVoteValue || value > models.MaxVoteValue {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidVote, value, models.MinVoteValue, models.MaxVoteValue)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rm, err := m.resolveActive(ctx, tx, code)
	if err != nil {
		return err
	}
	if !rm.VotingStarted || rm.VotingFrozen {
		return fmt.Errorf("%w: voting is not open", ErrInvalidTransition)
	}

	var isDone bool
	err = tx.QueryRowContext(ctx, `
		SELECT is_done FROM members WHERE room_id = $1 AND member_id = $2
	`, rm.RoomID, memberID).Scan(&isDone)
	if err == sql.ErrNoRows {
		return ErrMemberNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query member: %w", err)
	}
	if isDone {
		return fmt.Errorf("%w: member has marked done, vote is locked", ErrInvalidTransition)
	}

	// The UNIQUE(room_id, member_id) index serializes concurrent casts from
	// the same member; the last committed value wins.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO votes (vote_id, room_id, member_id, vote_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (room_id, member_id) DO UPDATE SET vote_value = excluded.vote_value
	`, uuid.NewString(), rm.RoomID, memberID, value)
	if err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vote: %w", err)
	}

	slog.Info("vote cast", "room_code", rm.RoomCode, "member_id", memberID)
	m.publish(rm.RoomCode, events.TopicVotes)
	return nil
}

// SetDone toggles the member's done flag. Done gates reveal readiness and
// locks the member's vote while set.
func (m *Manager) SetDone(ctx context.Context, code, memberID string, done bool) error {
	rm, err := m.resolveActive(ctx, m.db, code)
	if err != nil {
		return err
	}

	res, err := m.db.ExecContext(ctx, `
		UPDATE members SET is_done = $1 WHERE room_id = $2 AND member_id = $3
	`, done, rm.RoomID, memberID)
	if err != nil {
		return fmt.Errorf("failed to update done flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMemberNotFound
	}

	slog.Info("done flag updated", "room_code", rm.RoomCode, "member_id", memberID, "done", done)
	m.publish(rm.RoomCode, events.TopicRoster)
	return nil
}

// Reveal transitions VotingOpen → VotingFrozen and returns all votes joined
// to member names, in roster join order. Idempotent while already frozen:
// re-revealing just re-reads the same result.
func (m *Manager) Reveal(ctx context.Context, code, masterKey string) ([]models.RevealedVote, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rm, err := m.resolveActive(ctx, tx, code)
	if err != nil {
		return nil, err
	}
	if err := m.requireMaster(rm, masterKey); err != nil {
		return nil, err
	}
	if !rm.VotingStarted {
		return nil, fmt.Errorf("%w: voting has not started", ErrInvalidTransition)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE rooms SET voting_frozen = $1, is_revote = $2 WHERE room_id = $3
	`, true, false, rm.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to freeze voting: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT members.member_name, votes.vote_value
		FROM votes
		JOIN members ON votes.member_id = members.member_id
		WHERE votes.room_id = $1
		ORDER BY members.joined_at
	`, rm.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.RevealedVote{}
	for rows.Next() {
		var v models.RevealedVote
		if err := rows.Scan(&v.MemberName, &v.VoteValue); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reveal: %w", err)
	}

	slog.Info("votes revealed", "room_code", rm.RoomCode, "count", len(votes))
	m.publish(rm.RoomCode, events.TopicRoom, events.TopicVotes)
	return votes, nil
}

// Stats aggregates the current round's votes. Average, Min and Max are nil
// when no votes exist.
func (m *Manager) Stats(ctx context.Context, code string) (models.VoteStats, error) {
	rm, err := m.resolve(ctx, m.db, code)
	if err != nil {
		return models.VoteStats{}, err
	}

	var (
		avg      sql.NullFloat64
		min, max sql.NullInt64
		stats    models.VoteStats
	)
	err = m.db.QueryRowContext(ctx, `
		SELECT AVG(vote_value), MIN(vote_value), MAX(vote_value), COUNT(*)
		FROM votes
		WHERE room_id = $1
	`, rm.RoomID).Scan(&avg, &min, &max, &stats.Count)
	if err != nil {
		return models.VoteStats{}, fmt.Errorf("failed to aggregate votes: %w", err)
	}

	if avg.Valid {
		stats.Average = &avg.Float64
	}
	if min.Valid {
		v := int(min.Int64)
		stats.Min = &v
	}
	if max.Valid {
		v := int(max.Int64)
		stats.Max = &v
	}
	return stats, nil
}

// Revote transitions VotingFrozen → VotingOpen for a new round: clears every
// vote, resets every done flag and raises is_revote, all in one transaction
// so a crash cannot leave votes cleared but done flags stale.
func (m *Manager) Revote(ctx context.Context, code, masterKey string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rm, err := m.resolveActive(ctx, tx, code)
	if err != nil {
		return err
	}
	if err := m.requireMaster(rm, masterKey); err != nil {
		return err
	}
	if !rm.VotingFrozen {
		return fmt.Errorf("%w: votes are not revealed yet", ErrInvalidTransition)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE room_id = $1`, rm.RoomID); err != nil {
		return fmt.Errorf("failed to clear votes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE rooms SET voting_started = $1, voting_frozen = $2, is_revote = $3 WHERE room_id = $4
	`, true, false, true, rm.RoomID); err != nil {
		return fmt.Errorf("failed to reset room flags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE members SET is_done = $1 WHERE room_id = $2
	`, false, rm.RoomID); err != nil {
		return fmt.Errorf("failed to reset done flags: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit revote: %w", err)
	}

	slog.Info("revote started", "room_code", rm.RoomCode)
	m.publish(rm.RoomCode, events.TopicRoom, events.TopicRoster, events.TopicVotes)
	return nil
}

// EndSession transitions the room to Ended. Terminal: every later mutation,
// including another EndSession, fails with ErrSessionEnded.
func (m *Manager) EndSession(ctx context.Context, code, masterKey string) error {
	rm, err := m.resolveActive(ctx, m.db, code)
	if err != nil {
		return err
	}
	if err := m.requireMaster(rm, masterKey); err != nil {
		return err
	}

	_, err = m.db.ExecContext(ctx, `
		UPDATE rooms SET is_active = $1 WHERE room_id = $2
	`, false, rm.RoomID)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	slog.Info("session ended", "room_code", rm.RoomCode)
	m.publish(rm.RoomCode, events.TopicRoom)
	return nil
}

// Status is the cheap read pollers and SSE subscribers use to detect
// transitions. Valid for ended rooms too, so clients can observe the end.
func (m *Manager) Status(ctx context.Context, code string) (models.RoomStatus, error) {
	rm, err := m.resolve(ctx, m.db, code)
	if err != nil {
		return models.RoomStatus{}, err
	}
	return models.RoomStatus{
		IsActive:      rm.IsActive,
		VotingStarted: rm.VotingStarted,
		VotingFrozen:  rm.VotingFrozen,
		IsRevote:      rm.IsRevote,
		CreatedAgo:    humanize.Time(rm.CreatedAt),
	}, nil
}
