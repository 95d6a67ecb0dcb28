package models

//nolint:gosec //file not handles sensitive data
const (
	MwUserIDKey = "userID"
	MwTokenKey  = "token"

	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)
