package ports

// TokenIssuer mints and verifies stateless access tokens. Any replica
// holding the signing secret can verify a token without a store lookup.
type TokenIssuer interface {
	// Issue creates a signed token bound to the subject with a fixed TTL.
	Issue(subjectID string) (string, error)

	// Verify returns the subject of a valid token, or domain.ErrTokenInvalid
	// for any failure (bad signature, expired, malformed).
	Verify(token string) (string, error)
}

// TokenVerifier is the read-only half of TokenIssuer, consumed by the
// request middleware of downstream services.
type TokenVerifier interface {
	Verify(token string) (string, error)
}
