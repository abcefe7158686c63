package ports

import "context"

// LoginLimiter bounds login attempts per account within a time window.
// Implementations fail open: a limiter backend outage must not take the
// login path down with it.
type LoginLimiter interface {
	// Allow records one attempt for the normalized email and reports
	// whether it is still within the window's budget.
	Allow(ctx context.Context, email string) (bool, error)
}
