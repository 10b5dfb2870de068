package handler

import (
	"time"

	"suratdesa/internal/letter/models"
)

// HistoryEntry is one verification decision on the wire.
type HistoryEntry struct {
	Tier      int       `json:"tier"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Decision  string    `json:"decision"`
	Note      string    `json:"note,omitempty"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	DecidedAt time.Time `json:"decided_at"`
}

// LetterResponse is the wire shape of one letter.
type LetterResponse struct {
	ID               string            `json:"id"`
	LetterTypeID     string            `json:"letter_type_id"`
	LetterTypeCode   string            `json:"letter_type_code"`
	ApplicantID      string            `json:"applicant_id"`
	ApplicantUnit    string            `json:"applicant_unit"`
	ApplicantSubUnit string            `json:"applicant_sub_unit"`
	Values           map[string]string `json:"values"`
	Status           string            `json:"status"`
	Number           string            `json:"number,omitempty"`
	History          []HistoryEntry    `json:"history"`
	SubmittedAt      time.Time         `json:"submitted_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ListResponse wraps a letter listing.
type ListResponse struct {
	Letters []LetterResponse `json:"letters"`
}

// DocumentResponse carries the final rendered text.
type DocumentResponse struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Text   string `json:"text"`
}

func formatLetter(letter *models.Letter) LetterResponse {
	history := make([]HistoryEntry, 0, len(letter.History))
	for _, rec := range letter.History {
		history = append(history, HistoryEntry{
			Tier:      rec.Tier,
			ActorID:   rec.ActorID,
			ActorRole: rec.ActorRole,
			Decision:  rec.Decision,
			Note:      rec.Note,
			From:      string(rec.From),
			To:        string(rec.To),
			DecidedAt: rec.DecidedAt,
		})
	}
	return LetterResponse{
		ID:               letter.ID.String(),
		LetterTypeID:     letter.LetterTypeID.String(),
		LetterTypeCode:   letter.LetterTypeCode,
		ApplicantID:      letter.ApplicantID.String(),
		ApplicantUnit:    letter.ApplicantUnit,
		ApplicantSubUnit: letter.ApplicantSubUnit,
		Values:           letter.Values,
		Status:           string(letter.Status),
		Number:           letter.Number,
		History:          history,
		SubmittedAt:      letter.SubmittedAt,
		UpdatedAt:        letter.UpdatedAt,
	}
}
