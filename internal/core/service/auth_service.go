package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/splitpay/auth-service/internal/core/domain"
	"github.com/splitpay/auth-service/internal/core/ports"
	"github.com/splitpay/auth-service/internal/pkg/trace"
)

const (
	minPasswordLength   = 8
	defaultStoreTimeout = 5 * time.Second
)

// AuthService implements registration and login on top of the credential
// store, the password hasher and the token issuer.
type AuthService struct {
	repo         ports.UserRepository
	hasher       ports.PasswordHasher
	tokens       ports.TokenIssuer
	limiter      ports.LoginLimiter
	audit        ports.AuditRecorder
	storeTimeout time.Duration

	// dummyHash is verified against on unknown-user logins so the latency
	// profile matches the wrong-password path.
	dummyHash string
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, limiter ports.LoginLimiter, audit ports.AuditRecorder, storeTimeout time.Duration) (*AuthService, error) {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	// A typed-nil recorder (a nil pointer wrapped in the interface) would
	// slip past the nil check in record and panic on every request;
	// normalize it to a true nil here.
	if audit != nil {
		if v := reflect.ValueOf(audit); v.Kind() == reflect.Pointer && v.IsNil() {
			audit = nil
		}
	}
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prime dummy hash: %w", err)
	}
	return &AuthService{
		repo:         repo,
		hasher:       hasher,
		tokens:       tokens,
		limiter:      limiter,
		audit:        audit,
		storeTimeout: storeTimeout,
		dummyHash:    dummy,
	}, nil
}

// Register creates a new identity. The email is normalized before any store
// access; a duplicate reported by the store wins over the pre-check.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	// Fast pre-check. The unique index on email remains authoritative for
	// concurrent registrations racing past this point.
	_, err := s.repo.FindByEmail(storeCtx, email)
	switch {
	case err == nil:
		s.record(ctx, domain.EventRegister, email, "", domain.OutcomeConflict)
		return nil, domain.ErrEmailTaken
	case errors.Is(err, domain.ErrUserNotFound):
		// proceed
	default:
		return nil, translateStoreErr(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(storeCtx, user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			s.record(ctx, domain.EventRegister, email, "", domain.OutcomeConflict)
			return nil, domain.ErrEmailTaken
		}
		return nil, translateStoreErr(err)
	}

	s.record(ctx, domain.EventRegister, email, created.ID, domain.OutcomeSuccess)
	return created, nil
}

// Login verifies credentials and mints an access token. Unknown user and
// wrong password are indistinguishable in error kind, shape and timing.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err == nil && !allowed {
			s.record(ctx, domain.EventLogin, email, "", domain.OutcomeRateLimited)
			return "", domain.ErrTooManyAttempts
		}
		// A limiter error fails open: the login path must survive a
		// limiter backend outage.
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repo.FindByEmail(storeCtx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn a verification anyway so a miss costs the same as
			// a wrong password.
			s.hasher.Verify(password, s.dummyHash)
			s.record(ctx, domain.EventLogin, email, "", domain.OutcomeDenied)
			return "", domain.ErrInvalidCredentials
		}
		return "", translateStoreErr(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.record(ctx, domain.EventLogin, email, user.ID, domain.OutcomeDenied)
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.record(ctx, domain.EventLogin, email, user.ID, domain.OutcomeSuccess)
	return token, nil
}

// Identity resolves the user behind a verified token subject.
func (s *AuthService) Identity(ctx context.Context, userID string) (*domain.User, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repo.FindByID(storeCtx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, translateStoreErr(err)
	}
	return user, nil
}

func (s *AuthService) record(ctx context.Context, kind domain.AuthEventKind, email, userID, outcome string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuthEvent{
		Kind:    kind,
		Email:   email,
		UserID:  userID,
		Outcome: outcome,
		TraceID: trace.FromContext(ctx),
		At:      time.Now().UTC(),
	})
}

// NormalizeEmail lowercases and trims an email address. All store lookups
// and uniqueness checks operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return domain.ErrInvalidInput
	}
	if len(password) < minPasswordLength {
		return domain.ErrInvalidInput
	}
	return nil
}

// translateStoreErr maps store access failures to the error taxonomy. A
// deadline or cancellation becomes ErrUnavailable so the request surfaces a
// retriable 503 instead of hanging.
func translateStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.ErrUnavailable
	}
	return err
}
