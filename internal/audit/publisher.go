package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher hands events to the async worker. Emission is best-effort: a full
// inbox drops the event with a warning rather than stalling the business
// operation, because attendance marking must not block on the audit pipeline.
type Publisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

// NewPublisher wraps an inbox channel shared with a Worker.
func NewPublisher(inbox chan<- Event, logger *slog.Logger) *Publisher {
	return &Publisher{inbox: inbox, logger: logger}
}

// Emit enqueues an event, stamping the time if the caller didn't.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action,
			"employee_id", event.EmployeeID,
		)
	}
}
