// Package audit records the gate's security-relevant events: token issuance,
// gate decisions, and consent recording. Events are facts, not errors; a
// failed recorder must never fail the operation it describes.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"guardiangate/pkg/requestcontext"
)

// Kind labels an audit event.
type Kind string

const (
	KindTokenIssued     Kind = "token_issued"
	KindGateAllowed     Kind = "gate_allowed"
	KindGateBlocked     Kind = "gate_blocked"
	KindConsentRecorded Kind = "consent_recorded"
)

// Event is one audit entry. Email is the identity the event concerns, already
// lowercased by the caller where comparison semantics matter.
type Event struct {
	Time      time.Time
	Kind      Kind
	Email     string
	IP        string
	RequestID string
	Detail    string
}

// Recorder accepts audit events. Implementations must be safe for concurrent
// use and must not return errors into the request path.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// LogRecorder writes audit events to the structured log.
type LogRecorder struct {
	logger *slog.Logger
}

// NewLogRecorder constructs a Recorder backed by slog.
func NewLogRecorder(logger *slog.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

func (r *LogRecorder) Record(ctx context.Context, event Event) {
	r.logger.InfoContext(ctx, "audit",
		"kind", string(event.Kind),
		"email", event.Email,
		"ip", event.IP,
		"request_id", event.RequestID,
		"detail", event.Detail,
		"at", event.Time,
	)
}

// MemoryRecorder collects events for tests.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryRecorder constructs an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) Record(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything recorded so far.
func (r *MemoryRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event{}, r.events...)
}

// FromContext builds the request-scoped parts of an Event.
func FromContext(ctx context.Context, kind Kind, email, detail string) Event {
	return Event{
		Time:      requestcontext.Now(ctx),
		Kind:      kind,
		Email:     email,
		IP:        requestcontext.ClientIP(ctx),
		RequestID: requestcontext.RequestID(ctx),
		Detail:    detail,
	}
}
