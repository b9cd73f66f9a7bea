package ports

import (
	"context"

	"quantBreakoutBot/internal/domain"
)

// Journal is the append-only record of candidate decisions. It exists for
// audit only: decision logic never reads it, so no state carries between
// cycles through the journal.
type Journal interface {
	// Record appends one decision and sets its assigned ID.
	Record(ctx context.Context, d *domain.Decision) error

	// Close releases the underlying store.
	Close() error
}
