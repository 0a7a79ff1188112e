// Package recordstore persists permanent consent records keyed by account.
package recordstore

import (
	"context"

	"guardiangate/internal/gate"
)

// Error contract:
// - Save returns sentinel.ErrConflict (wrapped) when the account already has
//   a record; records are written at most once and never mutated.
// - FindByAccount returns sentinel.ErrNotFound (wrapped) when no record
//   exists.
// - Infrastructure failures are returned wrapped with context.
type Store interface {
	Save(ctx context.Context, record gate.ConsentRecord) error
	FindByAccount(ctx context.Context, accountID string) (gate.ConsentRecord, error)
}
