package store

import (
	"database/sql"
	"time"

	"github.com/ayusman/mudra/internal/pipeline"
)

// CommandEvent is one persisted pipeline command.
type CommandEvent struct {
	ID        int64
	SessionID string
	Kind      string
	DX        float64
	DY        float64
	Ticks     int
	Gesture   string
	CreatedAt time.Time
}

// EventRepository provides operations on command events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append persists one command event under a session. gesture is the active
// gesture name at emission time.
func (r *EventRepository) Append(sessionID, gesture string, event *pipeline.CommandEvent) error {
	_, err := r.db.Exec(
		`INSERT INTO command_events (session_id, kind, dx, dy, ticks, gesture)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, event.Kind.String(), event.DX, event.DY, event.Ticks, gesture,
	)
	return err
}

// ListBySession retrieves up to limit events for a session, oldest first.
// A non-positive limit returns all events.
func (r *EventRepository) ListBySession(sessionID string, limit int) ([]*CommandEvent, error) {
	query := `SELECT id, session_id, kind, dx, dy, ticks, gesture, created_at
	          FROM command_events WHERE session_id = ? ORDER BY id`
	args := []any{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*CommandEvent
	for rows.Next() {
		ev := &CommandEvent{}
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.Kind, &ev.DX, &ev.DY,
			&ev.Ticks, &ev.Gesture, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountBySession returns the number of events recorded for a session.
func (r *EventRepository) CountBySession(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM command_events WHERE session_id = ?`, sessionID,
	).Scan(&count)
	return count, err
}
