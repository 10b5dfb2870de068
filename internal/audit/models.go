package audit

import "time"

// Event is emitted from domain logic to capture key letter lifecycle actions.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	LetterID  string    `json:"letter_id,omitempty"`
	Action    string    `json:"action"`
	Decision  string    `json:"decision,omitempty"`
	Note      string    `json:"note,omitempty"`
	Device    string    `json:"device,omitempty"`
}

// Audit event actions.
const (
	ActionLetterSubmitted  = "letter_submitted"
	ActionLetterApproved   = "letter_approved"
	ActionLetterRejected   = "letter_rejected"
	ActionLetterFinalized  = "letter_finalized"
	ActionNumberAssigned   = "number_assigned"
	ActionLetterTypeSaved  = "letter_type_saved"
	ActionAutofillResolved = "autofill_resolved"
)

// Audit event decisions.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)
