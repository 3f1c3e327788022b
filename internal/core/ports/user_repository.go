package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// UserUpdate is the explicit set of updatable user fields. A nil field means
// "unchanged"; there is no way to address a field outside this set.
type UserUpdate struct {
	Username     *string
	Email        *string
	Active       *bool
	PasswordHash *string
}

// UserRepository defines the persistence contract for user records. Lookups
// return domain.ErrUserNotFound on a miss; Insert and Update translate store
// level uniqueness violations into domain.ErrUsernameTaken / ErrEmailTaken.
// Concurrency control on the store is the adapter's responsibility.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Insert(ctx context.Context, username, email, passwordHash string) (*domain.User, error)
	Update(ctx context.Context, id string, changes UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}
