package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// UserService implements self-service account maintenance.
type UserService struct {
	repo   ports.UserRepository
	hasher PasswordHasher
	log    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, log: log}
}

// UpdateAccount applies the requested profile changes. Uniqueness of a new
// username or email is checked first, with the same ordering and sentinels as
// registration. An input with no fields set is a no-op returning the current
// record.
func (s *UserService) UpdateAccount(ctx context.Context, id string, input ports.UpdateAccountInput) (*domain.User, error) {
	changes := ports.UserUpdate{}

	if input.Username != nil {
		existing, err := s.repo.FindByUsername(ctx, *input.Username)
		switch {
		case err == nil && existing.ID != id:
			return nil, domain.ErrUsernameTaken
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("update account: %w", err)
		}
		changes.Username = input.Username
	}

	if input.Email != nil {
		existing, err := s.repo.FindByEmail(ctx, *input.Email)
		switch {
		case err == nil && existing.ID != id:
			return nil, domain.ErrEmailTaken
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("update account: %w", err)
		}
		changes.Email = input.Email
	}

	user, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Msg("account updated")
	return user, nil
}

// ChangePassword verifies the current password before storing the new hash.
// A wrong current password reports ErrInvalidCredentials.
func (s *UserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if _, err := s.repo.Update(ctx, id, ports.UserUpdate{PasswordHash: &hash}); err != nil {
		return err
	}

	s.log.Info().Str("user_id", id).Msg("password changed")
	return nil
}

// Deactivate clears the active flag. Tokens already issued keep decoding but
// stop resolving.
func (s *UserService) Deactivate(ctx context.Context, id string) (*domain.User, error) {
	inactive := false
	user, err := s.repo.Update(ctx, id, ports.UserUpdate{Active: &inactive})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Msg("account deactivated")
	return user, nil
}

// DeleteAccount removes the record. Future resolutions for the id fail as
// invalid credentials.
func (s *UserService) DeleteAccount(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrUserNotFound
	}

	s.log.Info().Str("user_id", id).Msg("account deleted")
	return nil
}
