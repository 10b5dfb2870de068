package audit

import "context"

// Store persists audit events. Implementations must treat the log as
// append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByLetter(ctx context.Context, letterID string) ([]Event, error)
}
