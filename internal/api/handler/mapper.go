package handler

import (
	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.Active,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

func toTokenResponse(r *ports.LoginResult) tokenResponse {
	return tokenResponse{
		AccessToken: r.AccessToken,
		TokenType:   r.TokenType,
	}
}
