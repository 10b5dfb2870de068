package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suratdesa/internal/audit"
	"suratdesa/internal/lettertype/models"
	"suratdesa/internal/lettertype/store"
	id "suratdesa/pkg/domain"
	dErrors "suratdesa/pkg/domain-errors"
)

func newTestService(t *testing.T) (*Service, *audit.InMemoryStore) {
	t.Helper()
	auditStore := audit.NewInMemoryStore()
	auditor := audit.NewPublisher(auditStore)
	t.Cleanup(auditor.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store.New(), auditor, logger), auditStore
}

func validCreateInput() CreateInput {
	return CreateInput{
		Name:         "Certificate of Domicile",
		Code:         "SKD",
		NumberFormat: "NOMOR/KODE/BULAN/TAHUN",
		Template:     "This certifies (full_name) resides at (address).",
		Fields: []models.FieldSchema{
			{Name: "full_name", Label: "Full name", Kind: models.FieldText, Required: true},
			{Name: "address", Label: "Address", Kind: models.FieldMultiline, Required: true},
		},
		RequiresVerification: true,
	}
}

func TestCreateLetterType(t *testing.T) {
	svc, _ := newTestService(t)

	letterType, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.False(t, letterType.ID.IsNil())
	assert.True(t, letterType.Active)
	assert.Equal(t, "SKD", letterType.Code)
}

func TestCreateRejectsFormatWithoutSequenceToken(t *testing.T) {
	svc, _ := newTestService(t)

	in := validCreateInput()
	in.NumberFormat = "KODE/TAHUN"
	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCreateRejectsDuplicateFieldNames(t *testing.T) {
	svc, _ := newTestService(t)

	in := validCreateInput()
	in.Fields = append(in.Fields, models.FieldSchema{Name: "full_name", Kind: models.FieldText})
	_, err := svc.Create(context.Background(), in)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCreateRejectsChoiceFieldWithoutChoices(t *testing.T) {
	svc, _ := newTestService(t)

	in := validCreateInput()
	in.Fields = append(in.Fields, models.FieldSchema{Name: "gender", Kind: models.FieldChoice})
	_, err := svc.Create(context.Background(), in)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCreateDuplicateCodeConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	_, err = svc.Create(ctx, validCreateInput())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestUpdateKeepsCreatedAtAndActivity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateInput{
		Name:         "Domicile Letter",
		Code:         "SKD",
		NumberFormat: "KODE-NOMOR/TAHUN",
		Fields:       created.Fields,
	})
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.Active)
	assert.Equal(t, "KODE-NOMOR/TAHUN", updated.NumberFormat)
}

func TestDeactivateIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	first, err := svc.Deactivate(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, first.Active)

	second, err := svc.Deactivate(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, second.Active)

	listed, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestGetUnknownTypeNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), id.NewLetterTypeID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestResolveValues(t *testing.T) {
	letterType := &models.LetterType{
		Fields: []models.FieldSchema{
			{Name: "full_name", Kind: models.FieldText, Required: true},
			{Name: "gender", Kind: models.FieldChoice, Choices: []string{"male", "female"}},
		},
	}

	require.NoError(t, Resolve(letterType, map[string]string{"full_name": "Budi", "gender": "male"}))
	require.NoError(t, Resolve(letterType, map[string]string{"full_name": "Budi"}))

	err := Resolve(letterType, map[string]string{"gender": "male"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "missing required field")

	err = Resolve(letterType, map[string]string{"full_name": "Budi", "gender": "other"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "choice outside declared set")

	err = Resolve(letterType, map[string]string{"full_name": "Budi", "nickname": "B"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "unknown field")
}
