package ports

import (
	"context"

	"github.com/splitpay/auth-service/internal/core/domain"
)

// UserRepository defines the persistence interface for user identities.
// Email uniqueness is enforced at the store layer; Create returns
// domain.ErrEmailTaken when the constraint is violated.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
