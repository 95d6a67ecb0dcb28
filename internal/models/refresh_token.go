package models

import "time"

// RefreshToken is one issued refresh credential. Only the fingerprint of the
// raw secret is stored; IsRevoked never goes back to false.
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	FamilyID  string    `json:"family_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpiredAt reports whether the token is no longer usable at now.
// A token expiring exactly at now is expired.
func (t *RefreshToken) IsExpiredAt(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

const TokenReuseEventName = "refresh_token_reuse"

// TokenReuseEvent is sent to the security webhook when a consumed or revoked
// refresh token is presented again.
type TokenReuseEvent struct {
	Event      string    `json:"event"`
	UserID     string    `json:"user_id"`
	FamilyID   string    `json:"family_id"`
	DetectedAt time.Time `json:"detected_at"`
}
