package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore keeps the audit trail in PostgreSQL. Rows are only ever
// inserted; there is no update or delete path.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed audit store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (occurred_at, actor_id, actor_role, letter_id, action, decision, note, device)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.Timestamp,
		event.ActorID,
		event.ActorRole,
		event.LetterID,
		event.Action,
		event.Decision,
		event.Note,
		event.Device,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByLetter(ctx context.Context, letterID string) ([]Event, error) {
	query := `
		SELECT occurred_at, actor_id, actor_role, COALESCE(letter_id, ''), action, decision, note, device
		FROM audit_events
		WHERE letter_id = $1
		ORDER BY occurred_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, letterID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(
			&event.Timestamp,
			&event.ActorID,
			&event.ActorRole,
			&event.LetterID,
			&event.Action,
			&event.Decision,
			&event.Note,
			&event.Device,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
