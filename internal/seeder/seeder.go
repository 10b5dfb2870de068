// Package seeder populates in-memory stores with demo data for local runs.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ltmodels "suratdesa/internal/lettertype/models"
	regmodels "suratdesa/internal/registry/models"
	id "suratdesa/pkg/domain"
)

// TypeStore defines methods for seeding letter types.
type TypeStore interface {
	Save(ctx context.Context, letterType *ltmodels.LetterType) error
}

// Registry defines methods for seeding demo residents. Only the mock registry
// client implements it; seeding is skipped when a real registry is configured.
type Registry interface {
	Seed(record *regmodels.Record)
}

// Seeder populates stores with demo letter types and residents.
type Seeder struct {
	types    TypeStore
	registry Registry
	logger   *slog.Logger
}

// New creates a new seeder. registry may be nil.
func New(types TypeStore, registry Registry, logger *slog.Logger) *Seeder {
	return &Seeder{
		types:    types,
		registry: registry,
		logger:   logger,
	}
}

// SeedAll populates all stores with demo data.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo data...")

	seeded, err := s.seedLetterTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed letter types: %w", err)
	}

	residents := 0
	if s.registry != nil {
		residents = s.seedResidents()
	}

	s.logger.Info("demo data seeded successfully",
		"letter_types", seeded,
		"residents", residents,
	)
	return nil
}

func (s *Seeder) seedLetterTypes(ctx context.Context) (int, error) {
	personFields := []ltmodels.FieldSchema{
		{Name: "full_name", Label: "Full Name", Kind: ltmodels.FieldText, Required: true},
		{Name: "national_id", Label: "National ID", Kind: ltmodels.FieldText, Required: true},
		{Name: "birth_place", Label: "Birth Place", Kind: ltmodels.FieldText, Required: true},
		{Name: "birth_date", Label: "Birth Date", Kind: ltmodels.FieldDate, Required: true},
		{Name: "address", Label: "Address", Kind: ltmodels.FieldMultiline, Required: true},
	}

	demoTypes := []struct {
		name           string
		code           string
		numberFormat   string
		opening        string
		template       string
		extraFields    []ltmodels.FieldSchema
		requiresVerify bool
	}{
		{
			name:         "Certificate of Domicile",
			code:         "SKD",
			numberFormat: "NOMOR/KODE/BULAN/TAHUN",
			opening:      "The undersigned village head hereby certifies that:",
			template:     "This letter certifies that (full_name), national ID (national_id), born in (birth_place) on (birth_date), is a resident of (address), unit (unit), sub-unit (sub_unit).\n\nThis certificate of domicile is issued for (purpose).",
			extraFields: []ltmodels.FieldSchema{
				{Name: "unit", Label: "Unit (RW)", Kind: ltmodels.FieldText, Required: true},
				{Name: "sub_unit", Label: "Sub-unit (RT)", Kind: ltmodels.FieldText, Required: true},
				{Name: "purpose", Label: "Purpose", Kind: ltmodels.FieldMultiline, Required: true},
			},
			requiresVerify: true,
		},
		{
			name:         "Certificate of Business",
			code:         "SKU",
			numberFormat: "NOMOR/KODE/BULAN/TAHUN",
			opening:      "The undersigned village head hereby certifies that:",
			template:     "This letter certifies that (full_name), national ID (national_id), residing at (address), operates the business (business_name) of type (business_type) within this village.\n\nIssued for (purpose).",
			extraFields: []ltmodels.FieldSchema{
				{Name: "business_name", Label: "Business Name", Kind: ltmodels.FieldText, Required: true},
				{Name: "business_type", Label: "Business Type", Kind: ltmodels.FieldChoice, Required: true,
					Choices: []string{"trade", "services", "agriculture", "manufacture"}},
				{Name: "purpose", Label: "Purpose", Kind: ltmodels.FieldMultiline, Required: true},
			},
			requiresVerify: true,
		},
		{
			name:         "Certificate of Poverty",
			code:         "SKTM",
			numberFormat: "NOMOR/KODE/BULAN/TAHUN",
			opening:      "The undersigned village head hereby certifies that:",
			template:     "This letter certifies that (full_name), national ID (national_id), occupation (occupation), residing at (address), belongs to an economically disadvantaged household.\n\nIssued for (purpose).",
			extraFields: []ltmodels.FieldSchema{
				{Name: "occupation", Label: "Occupation", Kind: ltmodels.FieldText, Required: true},
				{Name: "purpose", Label: "Purpose", Kind: ltmodels.FieldMultiline, Required: true},
			},
			requiresVerify: true,
		},
		{
			name:         "General Statement Letter",
			code:         "SKET",
			numberFormat: "NOMOR/KODE/TAHUN",
			opening:      "",
			template:     "This letter states that (full_name), national ID (national_id), born in (birth_place) on (birth_date), residing at (address), declares the following:\n\n(statement)",
			extraFields: []ltmodels.FieldSchema{
				{Name: "statement", Label: "Statement", Kind: ltmodels.FieldMultiline, Required: true},
			},
			requiresVerify: false,
		},
	}

	now := time.Now()
	for _, dt := range demoTypes {
		letterType, err := ltmodels.NewLetterType(
			id.NewLetterTypeID(),
			dt.name,
			dt.code,
			dt.numberFormat,
			dt.opening,
			append(append([]ltmodels.FieldSchema{}, personFields...), dt.extraFields...),
			dt.requiresVerify,
			now,
		)
		if err != nil {
			return 0, err
		}
		letterType.Template = dt.template

		if err := s.types.Save(ctx, letterType); err != nil {
			return 0, err
		}
	}

	return len(demoTypes), nil
}

func (s *Seeder) seedResidents() int {
	now := time.Now()

	demoResidents := []*regmodels.Record{
		{
			NationalID:      "3174012345678901",
			FullName:        "Siti Aminah",
			BirthPlace:      "Bandung",
			BirthDate:       "1988-04-12",
			Gender:          "female",
			Religion:        "Islam",
			MaritalStatus:   "married",
			Occupation:      "tailor",
			Nationality:     "Indonesian",
			Education:       "senior high school",
			BloodType:       "O",
			Address:         "Jl. Melati No. 4",
			Unit:            "RW-05",
			SubUnit:         "RT-02",
			Telephone:       "+62-812-0000-0001",
			HouseholdNumber: "3174010001",
			HouseholdHead:   "Budi Santoso",
			RelationToHead:  "wife",
			FetchedAt:       now,
		},
		{
			NationalID:      "3174015678901234",
			FullName:        "Budi Santoso",
			BirthPlace:      "Jakarta",
			BirthDate:       "1985-09-30",
			Gender:          "male",
			Religion:        "Islam",
			MaritalStatus:   "married",
			Occupation:      "merchant",
			Nationality:     "Indonesian",
			Education:       "bachelor",
			BloodType:       "A",
			Address:         "Jl. Melati No. 4",
			Unit:            "RW-05",
			SubUnit:         "RT-02",
			Telephone:       "+62-812-0000-0002",
			HouseholdNumber: "3174010001",
			HouseholdHead:   "Budi Santoso",
			RelationToHead:  "head",
			FetchedAt:       now,
		},
		{
			NationalID:      "3174019876543210",
			FullName:        "Dewi Lestari",
			BirthPlace:      "Surabaya",
			BirthDate:       "1995-01-20",
			Gender:          "female",
			Religion:        "Islam",
			MaritalStatus:   "single",
			Occupation:      "student",
			Nationality:     "Indonesian",
			Education:       "bachelor",
			BloodType:       "B",
			Address:         "Jl. Kenanga No. 17",
			Unit:            "RW-03",
			SubUnit:         "RT-01",
			Telephone:       "+62-812-0000-0003",
			HouseholdNumber: "3174010042",
			HouseholdHead:   "Agus Lestari",
			RelationToHead:  "child",
			FetchedAt:       now,
		},
	}

	for _, r := range demoResidents {
		s.registry.Seed(r)
	}
	return len(demoResidents)
}
