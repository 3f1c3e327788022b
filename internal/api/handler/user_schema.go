package handler

// updateAccountRequest holds the PATCH fields for the account profile.
// Absent fields stay nil and are left untouched; present fields must pass
// the same shape rules as registration.
type updateAccountRequest struct {
	Username *string `json:"username" validate:"omitnil,min=3,max=50"`
	Email    *string `json:"email"    validate:"omitnil,email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6,max=100"`
}
