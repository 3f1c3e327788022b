package domain

import (
	"errors"
	"strconv"
)

// Claim names carried in issued access tokens.
const (
	ClaimSubject = "sub"
	ClaimExpiry  = "exp"
	ClaimUserID  = "user_id"
)

// TokenTypeBearer is the token_type accompanying every issued access token.
const TokenTypeBearer = "bearer"

// ErrInvalidToken covers every decode failure: malformed string, signature
// mismatch, wrong algorithm, or expiry in the past. The causes are
// deliberately indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the decoded payload of an access token.
type Claims map[string]any

// Subject returns the sub claim, or "" when absent or not a string.
func (c Claims) Subject() string {
	s, _ := c[ClaimSubject].(string)
	return s
}

// UserID returns the user_id claim as a string. Numeric values survive the
// JSON round-trip as float64 and are rendered back to their decimal form.
func (c Claims) UserID() string {
	switch v := c[ClaimUserID].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
