package numbering

import (
	"context"
	"time"

	id "suratdesa/pkg/domain"
	dErrors "suratdesa/pkg/domain-errors"
)

// ResetPolicy scopes the counter period.
type ResetPolicy string

const (
	// ResetYearly starts a fresh sequence every calendar year.
	ResetYearly ResetPolicy = "yearly"
	// ResetNever keeps one sequence for the lifetime of the letter type.
	ResetNever ResetPolicy = "never"
)

// ParseResetPolicy validates a configured policy string.
func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch ResetPolicy(s) {
	case ResetYearly, ResetNever:
		return ResetPolicy(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "number reset policy must be yearly or never")
	}
}

// PeriodKey derives the counter period for a point in time.
func (p ResetPolicy) PeriodKey(at time.Time) string {
	if p == ResetNever {
		return "all"
	}
	return at.Format("2006")
}

// CounterStore hands out the next sequence value for a (letterType, period)
// pair. Next must be atomic: two concurrent calls for the same pair must
// never observe the same value, and values must not be skipped.
type CounterStore interface {
	Next(ctx context.Context, letterTypeID id.LetterTypeID, period string) (int, error)
}

// Generator assigns permanent document numbers at finalization time.
type Generator struct {
	counters CounterStore
	policy   ResetPolicy
}

// NewGenerator creates a Generator with the given counter store and policy.
func NewGenerator(counters CounterStore, policy ResetPolicy) *Generator {
	if policy == "" {
		policy = ResetYearly
	}
	return &Generator{counters: counters, policy: policy}
}

// Assign produces the document number for one letter. It must be invoked
// exactly once per letter, at the moment the letter reaches its finalized
// state. Counter failures propagate as unavailable so the caller can roll
// the whole transition back.
func (g *Generator) Assign(ctx context.Context, letterTypeID id.LetterTypeID, code, format string, at time.Time) (string, error) {
	if err := ValidateFormat(format); err != nil {
		return "", err
	}
	seq, err := g.counters.Next(ctx, letterTypeID, g.policy.PeriodKey(at))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "number counter unavailable")
	}
	return RenderNumber(format, code, seq, at), nil
}
