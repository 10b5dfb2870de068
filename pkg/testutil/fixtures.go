package testutil

import (
	"time"

	"github.com/google/uuid"

	"suratdesa/internal/auth"
	lettermodels "suratdesa/internal/letter/models"
	ltmodels "suratdesa/internal/lettertype/models"
	id "suratdesa/pkg/domain"
)

// TestIDs provides convenient pre-generated IDs for tests.
// Use these for deterministic test data.
var TestIDs = struct {
	UserID1       id.UserID
	UserID2       id.UserID
	LetterTypeID1 id.LetterTypeID
	LetterTypeID2 id.LetterTypeID
	LetterID1     id.LetterID
	LetterID2     id.LetterID
}{
	UserID1:       id.UserID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	UserID2:       id.UserID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	LetterTypeID1: id.LetterTypeID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001")),
	LetterTypeID2: id.LetterTypeID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000002")),
	LetterID1:     id.LetterID(uuid.MustParse("eeee0000-0000-0000-0000-000000000001")),
	LetterID2:     id.LetterID(uuid.MustParse("eeee0000-0000-0000-0000-000000000002")),
}

// LetterTypeBuilder provides a fluent interface for building test letter types.
type LetterTypeBuilder struct {
	letterType *ltmodels.LetterType
}

// NewLetterTypeBuilder creates a LetterTypeBuilder with sensible defaults:
// a two-field domicile certificate that requires verification.
func NewLetterTypeBuilder() *LetterTypeBuilder {
	return &LetterTypeBuilder{
		letterType: &ltmodels.LetterType{
			ID:               id.LetterTypeID(uuid.New()),
			Name:             "Certificate of Domicile",
			Code:             "SKD",
			NumberFormat:     "NOMOR/KODE/BULAN/TAHUN",
			OpeningStatement: "The undersigned village head hereby certifies that:",
			Template:         "This letter certifies that (full_name) resides at (address).",
			Fields: []ltmodels.FieldSchema{
				{Name: "full_name", Label: "Full Name", Kind: ltmodels.FieldText, Required: true},
				{Name: "address", Label: "Address", Kind: ltmodels.FieldMultiline, Required: true},
			},
			RequiresVerification: true,
			Active:               true,
			CreatedAt:            time.Now(),
		},
	}
}

func (b *LetterTypeBuilder) WithID(typeID id.LetterTypeID) *LetterTypeBuilder {
	b.letterType.ID = typeID
	return b
}

func (b *LetterTypeBuilder) WithCode(code string) *LetterTypeBuilder {
	b.letterType.Code = code
	return b
}

func (b *LetterTypeBuilder) WithNumberFormat(format string) *LetterTypeBuilder {
	b.letterType.NumberFormat = format
	return b
}

func (b *LetterTypeBuilder) WithTemplate(template string) *LetterTypeBuilder {
	b.letterType.Template = template
	return b
}

func (b *LetterTypeBuilder) WithFields(fields ...ltmodels.FieldSchema) *LetterTypeBuilder {
	b.letterType.Fields = fields
	return b
}

func (b *LetterTypeBuilder) RequiresVerification(required bool) *LetterTypeBuilder {
	b.letterType.RequiresVerification = required
	return b
}

func (b *LetterTypeBuilder) Active(active bool) *LetterTypeBuilder {
	b.letterType.Active = active
	return b
}

func (b *LetterTypeBuilder) Build() *ltmodels.LetterType {
	return b.letterType
}

// LetterBuilder provides a fluent interface for building test letters.
type LetterBuilder struct {
	letter *lettermodels.Letter
}

// NewLetterBuilder creates a LetterBuilder with sensible defaults: a letter
// awaiting tier-1 verification in unit RW-05, sub-unit RT-02.
func NewLetterBuilder() *LetterBuilder {
	now := time.Now()
	return &LetterBuilder{
		letter: &lettermodels.Letter{
			ID:                  id.LetterID(uuid.New()),
			LetterTypeID:        TestIDs.LetterTypeID1,
			LetterTypeCode:      "SKD",
			ApplicantID:         TestIDs.UserID1,
			ApplicantNationalID: "3174012345678901",
			ApplicantUnit:       "RW-05",
			ApplicantSubUnit:    "RT-02",
			Values: map[string]string{
				"full_name": "Siti Aminah",
				"address":   "Jl. Melati No. 4",
			},
			Status:      lettermodels.StatusAwaitingTier1,
			SubmittedAt: now,
			UpdatedAt:   now,
		},
	}
}

func (b *LetterBuilder) WithID(letterID id.LetterID) *LetterBuilder {
	b.letter.ID = letterID
	return b
}

func (b *LetterBuilder) WithLetterType(letterType *ltmodels.LetterType) *LetterBuilder {
	b.letter.LetterTypeID = letterType.ID
	b.letter.LetterTypeCode = letterType.Code
	return b
}

func (b *LetterBuilder) WithApplicant(userID id.UserID, nationalID id.NationalID) *LetterBuilder {
	b.letter.ApplicantID = userID
	b.letter.ApplicantNationalID = nationalID
	return b
}

func (b *LetterBuilder) WithScope(unit, subUnit string) *LetterBuilder {
	b.letter.ApplicantUnit = unit
	b.letter.ApplicantSubUnit = subUnit
	return b
}

func (b *LetterBuilder) WithValues(values map[string]string) *LetterBuilder {
	b.letter.Values = values
	return b
}

func (b *LetterBuilder) WithStatus(status lettermodels.Status) *LetterBuilder {
	b.letter.Status = status
	return b
}

func (b *LetterBuilder) Build() *lettermodels.Letter {
	return b.letter
}

// NewApplicantSession builds a session for an applicant in the given scope.
func NewApplicantSession(userID id.UserID, nationalID id.NationalID, unit, subUnit string) auth.Session {
	return auth.Session{
		UserID:     userID,
		NationalID: nationalID,
		Role:       auth.RoleApplicant,
		Scope:      auth.Scope{Unit: unit, SubUnit: subUnit},
	}
}

// NewVerifierSession builds a tier-1 or tier-2 verifier session for the given
// scope. Tier-2 verifiers ignore subUnit.
func NewVerifierSession(tier int, unit, subUnit string) auth.Session {
	role := auth.RoleTier1Verifier
	if tier == 2 {
		role = auth.RoleTier2Verifier
		subUnit = ""
	}
	return auth.Session{
		UserID: id.NewUserID(),
		Role:   role,
		Scope:  auth.Scope{Unit: unit, SubUnit: subUnit},
	}
}
