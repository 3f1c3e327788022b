package ports

import (
	"context"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// RegisterInput carries the data needed to create a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	AccessToken string
	TokenType   string
}

// AuthService defines the authentication use cases.
//
// Login accepts a username or an email as identifier. Unknown identifier and
// wrong password both surface as domain.ErrInvalidCredentials so callers
// cannot probe for registered accounts.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Whoami(ctx context.Context, token string) (*domain.User, error)
}
