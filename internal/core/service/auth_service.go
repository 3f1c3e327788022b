package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// PasswordHasher abstracts the credential hashing primitive.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenCodec abstracts issuing and verifying signed access tokens.
type TokenCodec interface {
	Issue(claims domain.Claims) (string, error)
	Decode(token string) (domain.Claims, error)
}

// AuthService implements registration, login, and whoami.
type AuthService struct {
	repo     ports.UserRepository
	hasher   PasswordHasher
	codec    TokenCodec
	resolver ports.IdentityResolver
	log      zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	hasher PasswordHasher,
	codec TokenCodec,
	resolver ports.IdentityResolver,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, codec: codec, resolver: resolver, log: log}
}

// Register creates a new account. Username uniqueness is checked before email
// uniqueness; the first collision found is the one reported.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	// The store re-checks uniqueness on insert; a concurrent registration
	// that wins the race surfaces as the same taken sentinels.
	user, err := s.repo.Insert(ctx, input.Username, input.Email, hash)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues an access token. The identifier may
// be a username or an email; username lookup runs first, email is the
// fallback. Unknown identifier and wrong password report the same cause.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*ports.LoginResult, error) {
	user, err := s.repo.FindByUsername(ctx, identifier)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.repo.FindByEmail(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	// Inactive is only reported once the password has checked out.
	if !user.Active {
		return nil, domain.ErrAccountInactive
	}

	token, err := s.codec.Issue(domain.Claims{
		domain.ClaimSubject: user.Username,
		domain.ClaimUserID:  user.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user logged in")
	return &ports.LoginResult{AccessToken: token, TokenType: domain.TokenTypeBearer}, nil
}

// Whoami resolves the bearer token into its account.
func (s *AuthService) Whoami(ctx context.Context, token string) (*domain.User, error) {
	return s.resolver.Resolve(ctx, token)
}
