package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"suratdesa/internal/lettertype/models"
	"suratdesa/internal/sentinel"
	id "suratdesa/pkg/domain"
)

// PostgresStore persists letter types in PostgreSQL. The field schema is
// stored as a JSONB column so schema changes never need a migration.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed letter type store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// fieldRow is the JSONB shape of one schema field.
type fieldRow struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required"`
	Choices  []string `json:"choices,omitempty"`
}

func (s *PostgresStore) Save(ctx context.Context, letterType *models.LetterType) error {
	fields, err := marshalFields(letterType.Fields)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO letter_types (id, name, code, number_format, opening_statement, template, fields, requires_verification, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (code) DO NOTHING
		RETURNING id
	`
	var storedID uuid.UUID
	err = s.db.QueryRowContext(ctx, query,
		uuid.UUID(letterType.ID),
		letterType.Name,
		letterType.Code,
		letterType.NumberFormat,
		letterType.OpeningStatement,
		letterType.Template,
		fields,
		letterType.RequiresVerification,
		letterType.Active,
		letterType.CreatedAt,
	).Scan(&storedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save letter type: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, typeID id.LetterTypeID) (*models.LetterType, error) {
	query := selectLetterType + ` WHERE id = $1`
	letterType, err := scanLetterType(s.db.QueryRowContext(ctx, query, uuid.UUID(typeID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find letter type: %w", err)
	}
	return letterType, nil
}

func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*models.LetterType, error) {
	query := selectLetterType + ` WHERE code = $1`
	letterType, err := scanLetterType(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find letter type by code: %w", err)
	}
	return letterType, nil
}

func (s *PostgresStore) List(ctx context.Context, includeInactive bool) ([]*models.LetterType, error) {
	query := selectLetterType
	if !includeInactive {
		query += ` WHERE active`
	}
	query += ` ORDER BY code`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list letter types: %w", err)
	}
	defer rows.Close()

	var listed []*models.LetterType
	for rows.Next() {
		letterType, err := scanLetterType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan letter type: %w", err)
		}
		listed = append(listed, letterType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate letter types: %w", err)
	}
	return listed, nil
}

func (s *PostgresStore) Update(ctx context.Context, letterType *models.LetterType) error {
	fields, err := marshalFields(letterType.Fields)
	if err != nil {
		return err
	}
	query := `
		UPDATE letter_types
		SET name = $2, code = $3, number_format = $4, opening_statement = $5, template = $6, fields = $7, requires_verification = $8, active = $9
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(letterType.ID),
		letterType.Name,
		letterType.Code,
		letterType.NumberFormat,
		letterType.OpeningStatement,
		letterType.Template,
		fields,
		letterType.RequiresVerification,
		letterType.Active,
	)
	if err != nil {
		return fmt.Errorf("update letter type: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update letter type rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

const selectLetterType = `
	SELECT id, name, code, number_format, opening_statement, template, fields, requires_verification, active, created_at
	FROM letter_types
`

func marshalFields(fields []models.FieldSchema) ([]byte, error) {
	rows := make([]fieldRow, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, fieldRow{
			Name:     f.Name,
			Label:    f.Label,
			Kind:     string(f.Kind),
			Required: f.Required,
			Choices:  f.Choices,
		})
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal letter type fields: %w", err)
	}
	return data, nil
}

type letterTypeRow interface {
	Scan(dest ...any) error
}

func scanLetterType(row letterTypeRow) (*models.LetterType, error) {
	var letterType models.LetterType
	var typeID uuid.UUID
	var fields []byte
	if err := row.Scan(
		&typeID,
		&letterType.Name,
		&letterType.Code,
		&letterType.NumberFormat,
		&letterType.OpeningStatement,
		&letterType.Template,
		&fields,
		&letterType.RequiresVerification,
		&letterType.Active,
		&letterType.CreatedAt,
	); err != nil {
		return nil, err
	}
	letterType.ID = id.LetterTypeID(typeID)

	var rows []fieldRow
	if err := json.Unmarshal(fields, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal letter type fields: %w", err)
	}
	for _, r := range rows {
		letterType.Fields = append(letterType.Fields, models.FieldSchema{
			Name:     r.Name,
			Label:    r.Label,
			Kind:     models.FieldKind(r.Kind),
			Required: r.Required,
			Choices:  r.Choices,
		})
	}
	return &letterType, nil
}
