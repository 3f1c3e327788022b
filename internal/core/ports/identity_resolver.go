package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// IdentityResolver turns a bearer token into the authenticated user behind it.
//
// Resolve returns exactly one of:
//   - the resolved user,
//   - domain.ErrInvalidCredentials (undecodable token, missing subject, or no
//     matching user),
//   - domain.ErrAccountInactive (identity verified but the account is disabled).
//
// Expiry and the active flag are rechecked on every call, never cached.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}
