package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"suratdesa/internal/letter/models"
	"suratdesa/internal/sentinel"
	id "suratdesa/pkg/domain"
)

// PostgresStore persists letters in PostgreSQL. Values and history are JSONB
// columns; the status column carries the optimistic-concurrency check.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed letter store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, letter *models.Letter) error {
	values, history, err := marshalLetter(letter)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO letters (id, letter_type_id, letter_type_code, applicant_id, applicant_national_id,
			applicant_unit, applicant_sub_unit, field_values, status, number, document_text, history,
			submitted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
		RETURNING id
	`
	var storedID uuid.UUID
	err = s.db.QueryRowContext(ctx, query,
		uuid.UUID(letter.ID),
		uuid.UUID(letter.LetterTypeID),
		letter.LetterTypeCode,
		uuid.UUID(letter.ApplicantID),
		letter.ApplicantNationalID.String(),
		letter.ApplicantUnit,
		letter.ApplicantSubUnit,
		values,
		string(letter.Status),
		letter.Number,
		letter.DocumentText,
		history,
		letter.SubmittedAt,
		letter.UpdatedAt,
	).Scan(&storedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create letter: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, letterID id.LetterID) (*models.Letter, error) {
	query := selectLetter + ` WHERE id = $1`
	letter, err := scanLetter(s.db.QueryRowContext(ctx, query, uuid.UUID(letterID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find letter: %w", err)
	}
	return letter, nil
}

func (s *PostgresStore) List(ctx context.Context, filter Filter) ([]*models.Letter, error) {
	query := selectLetter + ` WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if !filter.ApplicantID.IsNil() {
		query += ` AND applicant_id = ` + arg(uuid.UUID(filter.ApplicantID))
	}
	if !filter.LetterTypeID.IsNil() {
		query += ` AND letter_type_id = ` + arg(uuid.UUID(filter.LetterTypeID))
	}
	if filter.Status != "" {
		query += ` AND status = ` + arg(string(filter.Status))
	}
	if filter.Unit != "" {
		query += ` AND applicant_unit = ` + arg(filter.Unit)
	}
	if filter.SubUnit != "" {
		query += ` AND applicant_sub_unit = ` + arg(filter.SubUnit)
	}
	query += ` ORDER BY submitted_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list letters: %w", err)
	}
	defer rows.Close()

	var listed []*models.Letter
	for rows.Next() {
		letter, err := scanLetter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan letter: %w", err)
		}
		listed = append(listed, letter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate letters: %w", err)
	}
	return listed, nil
}

// Update writes the letter only if the stored status still equals expected.
// A zero row count with an existing row means another decision won the race.
func (s *PostgresStore) Update(ctx context.Context, letter *models.Letter, expected models.Status) error {
	values, history, err := marshalLetter(letter)
	if err != nil {
		return err
	}
	query := `
		UPDATE letters
		SET field_values = $2, status = $3, number = $4, document_text = $5, history = $6, updated_at = $7
		WHERE id = $1 AND status = $8
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(letter.ID),
		values,
		string(letter.Status),
		letter.Number,
		letter.DocumentText,
		history,
		letter.UpdatedAt,
		string(expected),
	)
	if err != nil {
		return fmt.Errorf("update letter: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update letter rows: %w", err)
	}
	if rows == 0 {
		if _, findErr := s.FindByID(ctx, letter.ID); errors.Is(findErr, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}
	return nil
}

const selectLetter = `
	SELECT id, letter_type_id, letter_type_code, applicant_id, applicant_national_id,
		applicant_unit, applicant_sub_unit, field_values, status, number, document_text, history,
		submitted_at, updated_at
	FROM letters
`

func marshalLetter(letter *models.Letter) (values, history []byte, err error) {
	values, err = json.Marshal(letter.Values)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal letter values: %w", err)
	}
	history, err = json.Marshal(letter.History)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal letter history: %w", err)
	}
	return values, history, nil
}

type letterRow interface {
	Scan(dest ...any) error
}

func scanLetter(row letterRow) (*models.Letter, error) {
	var letter models.Letter
	var letterID, typeID, applicantID uuid.UUID
	var nationalID, status string
	var values, history []byte
	if err := row.Scan(
		&letterID,
		&typeID,
		&letter.LetterTypeCode,
		&applicantID,
		&nationalID,
		&letter.ApplicantUnit,
		&letter.ApplicantSubUnit,
		&values,
		&status,
		&letter.Number,
		&letter.DocumentText,
		&history,
		&letter.SubmittedAt,
		&letter.UpdatedAt,
	); err != nil {
		return nil, err
	}
	letter.ID = id.LetterID(letterID)
	letter.LetterTypeID = id.LetterTypeID(typeID)
	letter.ApplicantID = id.UserID(applicantID)
	letter.ApplicantNationalID = id.NationalID(nationalID)
	letter.Status = models.Status(status)

	if err := json.Unmarshal(values, &letter.Values); err != nil {
		return nil, fmt.Errorf("unmarshal letter values: %w", err)
	}
	if err := json.Unmarshal(history, &letter.History); err != nil {
		return nil, fmt.Errorf("unmarshal letter history: %w", err)
	}
	return &letter, nil
}
