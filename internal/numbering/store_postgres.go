package numbering

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "suratdesa/pkg/domain"
)

// PostgresCounterStore persists counters in PostgreSQL. The upsert with
// RETURNING is a single atomic statement, so concurrent approvals of the
// same (letterType, period) serialize on the row lock and never observe the
// same sequence value.
type PostgresCounterStore struct {
	db *sql.DB
}

// NewPostgresCounterStore constructs a PostgreSQL-backed counter store.
func NewPostgresCounterStore(db *sql.DB) *PostgresCounterStore {
	return &PostgresCounterStore{db: db}
}

func (s *PostgresCounterStore) Next(ctx context.Context, letterTypeID id.LetterTypeID, period string) (int, error) {
	query := `
		INSERT INTO letter_counters (letter_type_id, period, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (letter_type_id, period)
		DO UPDATE SET value = letter_counters.value + 1
		RETURNING value
	`
	var value int
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(letterTypeID), period).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next counter value: %w", err)
	}
	return value, nil
}
