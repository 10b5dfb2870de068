package handler

import (
	"time"

	"suratdesa/internal/lettertype/models"
	"suratdesa/internal/renderer"
)

// FieldResponse mirrors FieldRequest for reads.
type FieldResponse struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required"`
	Choices  []string `json:"choices,omitempty"`
}

// LetterTypeResponse is the wire shape of one catalogue entry.
type LetterTypeResponse struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Code                 string          `json:"code"`
	NumberFormat         string          `json:"number_format"`
	OpeningStatement     string          `json:"opening_statement"`
	Template             string          `json:"template"`
	Fields               []FieldResponse `json:"fields"`
	RequiresVerification bool            `json:"requires_verification"`
	Active               bool            `json:"active"`
	CreatedAt            time.Time       `json:"created_at"`
}

// ListResponse wraps the catalogue listing.
type ListResponse struct {
	LetterTypes []LetterTypeResponse `json:"letter_types"`
}

// PreviewResponse reports the rendered text and unresolved placeholders.
type PreviewResponse struct {
	Text       string   `json:"text"`
	Unresolved []string `json:"unresolved"`
}

// PresetsResponse lists the available canned bodies.
type PresetsResponse struct {
	Presets []string `json:"presets"`
}

// PresetBodyResponse carries an applied preset body back to the editor.
type PresetBodyResponse struct {
	Template string `json:"template"`
}

func formatLetterType(letterType *models.LetterType) LetterTypeResponse {
	fields := make([]FieldResponse, 0, len(letterType.Fields))
	for _, f := range letterType.Fields {
		fields = append(fields, FieldResponse{
			Name:     f.Name,
			Label:    f.Label,
			Kind:     string(f.Kind),
			Required: f.Required,
			Choices:  f.Choices,
		})
	}
	return LetterTypeResponse{
		ID:                   letterType.ID.String(),
		Name:                 letterType.Name,
		Code:                 letterType.Code,
		NumberFormat:         letterType.NumberFormat,
		OpeningStatement:     letterType.OpeningStatement,
		Template:             letterType.Template,
		Fields:               fields,
		RequiresVerification: letterType.RequiresVerification,
		Active:               letterType.Active,
		CreatedAt:            letterType.CreatedAt,
	}
}

func formatPreview(res renderer.Result) PreviewResponse {
	unresolved := res.Unresolved
	if unresolved == nil {
		unresolved = []string{}
	}
	return PreviewResponse{Text: res.Text, Unresolved: unresolved}
}
