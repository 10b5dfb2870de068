package handler

import (
	"suratdesa/internal/lettertype/models"
	"suratdesa/pkg/strutil"
)

// FieldRequest is one schema field as submitted by an administrator.
type FieldRequest struct {
	Name     string   `json:"name" validate:"required,notblank"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind" validate:"required,oneof=text multiline number date choice"`
	Required bool     `json:"required"`
	Choices  []string `json:"choices,omitempty"`
}

// SaveLetterTypeRequest is the body for create and update.
type SaveLetterTypeRequest struct {
	Name                 string         `json:"name" validate:"required,notblank"`
	Code                 string         `json:"code" validate:"required,notblank"`
	NumberFormat         string         `json:"number_format" validate:"required,notblank"`
	OpeningStatement     string         `json:"opening_statement"`
	Template             string         `json:"template"`
	Fields               []FieldRequest `json:"fields" validate:"dive"`
	RequiresVerification bool           `json:"requires_verification"`
}

func (r *SaveLetterTypeRequest) sanitize() {
	strutil.TrimStrings(&r.Name, &r.Code, &r.NumberFormat)
	for i := range r.Fields {
		strutil.TrimStrings(&r.Fields[i].Name, &r.Fields[i].Label)
		strutil.TrimSlice(r.Fields[i].Choices)
	}
}

func (r *SaveLetterTypeRequest) fields() []models.FieldSchema {
	fields := make([]models.FieldSchema, 0, len(r.Fields))
	for _, f := range r.Fields {
		fields = append(fields, models.FieldSchema{
			Name:     models.NormalizeName(f.Name),
			Label:    f.Label,
			Kind:     models.FieldKind(f.Kind),
			Required: f.Required,
			Choices:  f.Choices,
		})
	}
	return fields
}

// PreviewRequest renders a draft template without saving anything.
type PreviewRequest struct {
	Template         string            `json:"template" validate:"required"`
	OpeningStatement string            `json:"opening_statement"`
	Values           map[string]string `json:"values"`
}

// ApplyPresetRequest swaps a canned body into the draft.
type ApplyPresetRequest struct {
	Preset           string `json:"preset" validate:"required,notblank"`
	CurrentTemplate  string `json:"current_template"`
	ConfirmOverwrite bool   `json:"confirm_overwrite"`
}
