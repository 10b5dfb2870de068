package handler

import "suratdesa/pkg/strutil"

// SubmitRequest creates a letter from a filled form.
type SubmitRequest struct {
	LetterTypeID string            `json:"letter_type_id" validate:"required,notblank"`
	Values       map[string]string `json:"values" validate:"required"`
}

func (r *SubmitRequest) sanitize() {
	strutil.TrimStrings(&r.LetterTypeID)
	for k, v := range r.Values {
		trimmed := v
		strutil.TrimStrings(&trimmed)
		r.Values[k] = trimmed
	}
}

// DecisionRequest carries a verifier's note. Approvals may omit it;
// rejections must not.
type DecisionRequest struct {
	Note string `json:"note"`
}

func (r *DecisionRequest) sanitize() {
	strutil.TrimStrings(&r.Note)
}
