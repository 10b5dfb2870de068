// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "suratdesa/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a LetterID where a LetterTypeID is expected.
type (
	LetterTypeID uuid.UUID
	LetterID     uuid.UUID
	UserID       uuid.UUID
)

// NationalID is the 16-digit citizen registry identifier. It is carried as a
// string because leading zeros are significant.
type NationalID string

// NationalIDLength is the canonical length of a national identifier.
// Autofill only triggers once an identifier reaches this length.
const NationalIDLength = 16

// New functions - mint fresh identifiers at creation sites.

func NewLetterTypeID() LetterTypeID { return LetterTypeID(uuid.New()) }
func NewLetterID() LetterID         { return LetterID(uuid.New()) }
func NewUserID() UserID             { return UserID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseLetterTypeID(s string) (LetterTypeID, error) {
	id, err := parseUUID(s, "letter type ID")
	return LetterTypeID(id), err
}

func ParseLetterID(s string) (LetterID, error) {
	id, err := parseUUID(s, "letter ID")
	return LetterID(id), err
}

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

// ParseNationalID validates a full-length national identifier.
func ParseNationalID(s string) (NationalID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "national ID cannot be empty")
	}
	if !NationalID(s).IsComplete() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "national ID must be 16 digits")
	}
	return NationalID(s), nil
}

// String methods - for logging and debugging.

func (id LetterTypeID) String() string { return uuid.UUID(id).String() }
func (id LetterID) String() string     { return uuid.UUID(id).String() }
func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id NationalID) String() string   { return string(id) }

// IsNil checks - used for service-layer validation.

func (id LetterTypeID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id LetterID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id NationalID) IsNil() bool   { return id == "" }

// IsComplete reports whether the identifier has reached its full canonical
// length and consists only of digits. A partial identifier is not an error;
// it means "not ready for a registry lookup yet".
func (id NationalID) IsComplete() bool {
	if len(id) != NationalIDLength {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseUUID is the shared validation logic.
// Nil UUIDs are allowed here; use IsNil() at the service layer so store
// lookups can return proper "not found" errors.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
