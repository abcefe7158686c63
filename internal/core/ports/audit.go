package ports

import (
	"context"

	"github.com/splitpay/auth-service/internal/core/domain"
)

// AuditRecorder accepts auth events for asynchronous persistence. Record
// never blocks the calling request; events may be dropped under pressure.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}
