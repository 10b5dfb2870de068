package models

import (
	dErrors "suratdesa/pkg/domain-errors"
)

// Status is a letter's position in the verification flow.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusAwaitingTier1 Status = "awaiting_tier1"
	StatusApprovedTier1 Status = "approved_tier1"
	StatusAwaitingTier2 Status = "awaiting_tier2"
	StatusApprovedTier2 Status = "approved_tier2"
	StatusRejectedTier1 Status = "rejected_tier1"
	StatusRejectedTier2 Status = "rejected_tier2"
	StatusRejected      Status = "rejected"
	StatusFinalized     Status = "finalized"
)

// IsValid reports whether the status is one of the declared variants.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusAwaitingTier1, StatusApprovedTier1, StatusAwaitingTier2,
		StatusApprovedTier2, StatusRejectedTier1, StatusRejectedTier2, StatusRejected, StatusFinalized:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusFinalized || s == StatusRejected
}

// Event is a verification action applied to a letter.
type Event string

const (
	// EventSubmit moves a draft into the verification flow.
	EventSubmit Event = "submit"
	// EventSubmitDirect finalizes a draft whose type skips verification.
	EventSubmitDirect Event = "submit_direct"
	EventApprove      Event = "approve"
	EventReject       Event = "reject"
	// EventAdvance chains a pass-through decision state to its resting
	// state. approved_tier1 advances to awaiting_tier2, approved_tier2 to
	// finalized, and either rejected_tierN to rejected.
	EventAdvance Event = "advance"
)

// transitions is the explicit table for the verification flow. Anything
// absent here is illegal.
var transitions = map[Status]map[Event]Status{
	StatusDraft: {
		EventSubmit:       StatusAwaitingTier1,
		EventSubmitDirect: StatusFinalized,
	},
	StatusAwaitingTier1: {
		EventApprove: StatusApprovedTier1,
		EventReject:  StatusRejectedTier1,
	},
	StatusApprovedTier1: {
		EventAdvance: StatusAwaitingTier2,
	},
	StatusAwaitingTier2: {
		EventApprove: StatusApprovedTier2,
		EventReject:  StatusRejectedTier2,
	},
	StatusApprovedTier2: {
		EventAdvance: StatusFinalized,
	},
	StatusRejectedTier1: {
		EventAdvance: StatusRejected,
	},
	StatusRejectedTier2: {
		EventAdvance: StatusRejected,
	},
}

// Next returns the status reached by applying event to current. Illegal
// combinations conflict; callers treat that as a stale client view.
func Next(current Status, event Event) (Status, error) {
	if next, ok := transitions[current][event]; ok {
		return next, nil
	}
	return current, dErrors.New(dErrors.CodeConflict,
		"cannot "+string(event)+" a letter in status "+string(current))
}

// Advance follows EventAdvance edges until the status rests. Decision states
// are pass-through: a single approve or reject lands the letter on the next
// awaiting or terminal state while history keeps the intermediate step.
func Advance(s Status) Status {
	for {
		next, ok := transitions[s][EventAdvance]
		if !ok {
			return s
		}
		s = next
	}
}
