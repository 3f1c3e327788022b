package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// UpdateAccountInput carries the self-service profile changes. Nil fields are
// left untouched.
type UpdateAccountInput struct {
	Username *string
	Email    *string
}

// UserService defines account maintenance operations for an authenticated user.
type UserService interface {
	UpdateAccount(ctx context.Context, id string, input UpdateAccountInput) (*domain.User, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
	Deactivate(ctx context.Context, id string) (*domain.User, error)
	DeleteAccount(ctx context.Context, id string) error
}
