package domain

import "time"

// AuthEventKind identifies the operation an audit event describes.
type AuthEventKind string

const (
	EventRegister AuthEventKind = "register"
	EventLogin    AuthEventKind = "login"
)

// Audit outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeConflict    = "conflict"
	OutcomeDenied      = "denied"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

// AuthEvent is a single entry in the authentication audit trail. Events are
// recorded best-effort and asynchronously; losing one never fails a request.
type AuthEvent struct {
	Kind    AuthEventKind
	Email   string
	UserID  string
	Outcome string
	TraceID string
	At      time.Time
}
