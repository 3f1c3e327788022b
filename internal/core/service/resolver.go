package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// IdentityResolver resolves bearer tokens into accounts through the token
// codec and the user store.
type IdentityResolver struct {
	codec TokenCodec
	repo  ports.UserRepository
	log   zerolog.Logger
}

func NewIdentityResolver(codec TokenCodec, repo ports.UserRepository, log zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{codec: codec, repo: repo, log: log}
}

// Resolve walks decode → subject → lookup → active check. Lookup by the
// user_id claim takes priority over the subject claim, so a token stays
// resolvable after its account's username changes. Decode failures, a missing
// subject, and a missing user all collapse into ErrInvalidCredentials; only
// an inactive account is reported distinctly.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	claims, err := r.codec.Decode(token)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if claims.Subject() == "" {
		return nil, domain.ErrInvalidCredentials
	}

	var user *domain.User
	if id := claims.UserID(); id != "" {
		user, err = r.repo.FindByID(ctx, id)
	} else {
		user, err = r.repo.FindByUsername(ctx, claims.Subject())
	}
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			r.log.Warn().Err(err).Msg("user lookup failed during token resolution")
		}
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, domain.ErrAccountInactive
	}

	return user, nil
}
