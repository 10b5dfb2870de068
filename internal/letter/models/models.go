package models

import (
	"time"

	id "suratdesa/pkg/domain"
)

// Letter is one applicant's submission of a letter type: a snapshot of field
// values plus its position in the verification flow. Values are copied at
// submission so later schema edits never reshape a submitted letter.
type Letter struct {
	ID                  id.LetterID
	LetterTypeID        id.LetterTypeID
	LetterTypeCode      string
	ApplicantID         id.UserID
	ApplicantNationalID id.NationalID
	ApplicantUnit       string
	ApplicantSubUnit    string
	Values              map[string]string
	Status              Status
	Number              string
	DocumentText        string
	History             []VerificationRecord
	SubmittedAt         time.Time
	UpdatedAt           time.Time
}

// VerificationRecord is one decision appended to a letter's history. History
// is append-only; records are never edited or removed.
type VerificationRecord struct {
	Tier      int       `json:"tier"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Decision  string    `json:"decision"`
	Note      string    `json:"note,omitempty"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	DecidedAt time.Time `json:"decided_at"`
}

// Decision values recorded in verification history.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// CopyValues returns a defensive copy of the value snapshot.
func (l *Letter) CopyValues() map[string]string {
	values := make(map[string]string, len(l.Values))
	for k, v := range l.Values {
		values[k] = v
	}
	return values
}

// Clone deep-copies the letter so stores can hand out mutation-safe copies.
func (l *Letter) Clone() *Letter {
	copyLetter := *l
	copyLetter.Values = l.CopyValues()
	copyLetter.History = append([]VerificationRecord(nil), l.History...)
	return &copyLetter
}

// AwaitingTier reports which verification tier the letter is waiting on, or
// 0 if it is not in an awaiting state.
func (l *Letter) AwaitingTier() int {
	switch l.Status {
	case StatusAwaitingTier1:
		return 1
	case StatusAwaitingTier2:
		return 2
	}
	return 0
}
