// Package tokenstore persists consent payloads under opaque token
// identifiers with a bounded lifetime.
package tokenstore

import (
	"context"
	"time"

	"guardiangate/internal/gate"
)

// Error contract:
// - Get returns sentinel.ErrNotFound (wrapped) for an absent or expired
//   token; callers cannot tell the two apart.
// - Delete of an absent or expired token is a no-op, not an error.
// - Infrastructure failures are returned wrapped with context.
type Store interface {
	// Put stores the payload under the token for ttl. Tokens carry enough
	// entropy that collision is a non-issue; an existing entry is replaced.
	Put(ctx context.Context, token string, payload gate.ConsentPayload, ttl time.Duration) error

	// Get returns the payload for a live token. TTL is enforced by the
	// store and never renewed by reads.
	Get(ctx context.Context, token string) (gate.ConsentPayload, error)

	// Delete removes the entry if present.
	Delete(ctx context.Context, token string) error
}
