package service

import "github.com/rryowa/billtracker/internal/util"

var (
	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password.
	ErrInvalidCredentials  = util.NewAuthenticationError("Invalid credentials")
	ErrInvalidRefreshToken = util.NewAuthenticationError("Invalid refresh token")
	ErrRefreshTokenExpired = util.NewAuthenticationError("Refresh token expired")
	ErrRefreshTokenReuse   = util.NewSecurityError("Refresh token reuse detected")
	ErrEmailInUse          = util.NewConflictError("Email already in use")
	ErrUserNotFound        = util.NewNotFoundError("User not found")
	ErrBillNotFound        = util.NewNotFoundError("Bill not found")
	ErrBillAlreadyPaid     = util.NewConflictError("Bill is already paid")
)
