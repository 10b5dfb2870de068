package models

import (
	"strings"
	"time"

	id "suratdesa/pkg/domain"
	dErrors "suratdesa/pkg/domain-errors"

	"suratdesa/internal/numbering"
)

// FieldKind enumerates the input kinds a letter type field can declare.
type FieldKind string

const (
	FieldText      FieldKind = "text"
	FieldMultiline FieldKind = "multiline"
	FieldNumber    FieldKind = "number"
	FieldDate      FieldKind = "date"
	FieldChoice    FieldKind = "choice"
)

// IsValid reports whether the kind is one of the declared variants.
func (k FieldKind) IsValid() bool {
	switch k {
	case FieldText, FieldMultiline, FieldNumber, FieldDate, FieldChoice:
		return true
	}
	return false
}

// FieldSchema describes one dynamic input field of a letter type. Name is the
// canonical key used both as a template placeholder and as the
// registry-reconciliation key.
type FieldSchema struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	Choices  []string
}

// HasChoice reports whether the value is one of the declared choices.
func (f FieldSchema) HasChoice(value string) bool {
	for _, c := range f.Choices {
		if c == value {
			return true
		}
	}
	return false
}

// LetterType is an administrator-defined category of document with its own
// field schema and numbering format. Once referenced by a letter it is never
// mutated through that letter.
type LetterType struct {
	ID                   id.LetterTypeID
	Name                 string
	Code                 string
	NumberFormat         string
	OpeningStatement     string
	Template             string
	Fields               []FieldSchema
	RequiresVerification bool
	Active               bool
	CreatedAt            time.Time
}

// NewLetterType constructs a LetterType with domain invariant checks.
func NewLetterType(typeID id.LetterTypeID, name, code, numberFormat, openingStatement string, fields []FieldSchema, requiresVerification bool, createdAt time.Time) (*LetterType, error) {
	if typeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "letter type ID required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "letter type name is required")
	}
	if strings.TrimSpace(code) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "letter type code is required")
	}
	if err := numbering.ValidateFormat(numberFormat); err != nil {
		return nil, err
	}
	if err := ValidateFields(fields); err != nil {
		return nil, err
	}
	return &LetterType{
		ID:                   typeID,
		Name:                 name,
		Code:                 code,
		NumberFormat:         numberFormat,
		OpeningStatement:     openingStatement,
		Fields:               fields,
		RequiresVerification: requiresVerification,
		Active:               true,
		CreatedAt:            createdAt,
	}, nil
}

// ValidateFields checks the per-type field invariants: names present and
// unique, kinds known, choices declared exactly for choice fields.
func ValidateFields(fields []FieldSchema) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return dErrors.New(dErrors.CodeValidation, "field name is required")
		}
		if !f.Kind.IsValid() {
			return dErrors.New(dErrors.CodeValidation, "unknown field kind: "+string(f.Kind))
		}
		if f.Kind == FieldChoice && len(f.Choices) == 0 {
			return dErrors.New(dErrors.CodeValidation, "choice field "+f.Name+" needs at least one choice")
		}
		if f.Kind != FieldChoice && len(f.Choices) > 0 {
			return dErrors.New(dErrors.CodeValidation, "field "+f.Name+" is not a choice field but declares choices")
		}
		if _, dup := seen[f.Name]; dup {
			return dErrors.New(dErrors.CodeValidation, "duplicate field name: "+f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// FieldByName returns the schema for the named field.
func (t *LetterType) FieldByName(name string) (FieldSchema, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSchema{}, false
}

// NormalizeName canonicalizes a field name for registry reconciliation:
// lowercase, internal whitespace runs collapse to a single underscore, and
// anything outside [a-z0-9_] is stripped. Normalization is idempotent.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	inSpace := false
	for _, r := range name {
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			inSpace = true
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			if inSpace {
				b.WriteByte('_')
				inSpace = false
			}
			b.WriteRune(r)
		default:
			// dropped
		}
	}
	return b.String()
}
