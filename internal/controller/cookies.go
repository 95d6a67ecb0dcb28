package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rryowa/billtracker/internal/models"
)

func (c *Controller) setAuthCookies(ctx echo.Context, result *models.AuthResult) {
	ctx.SetCookie(c.newCookie(models.AccessTokenCookie, result.AccessToken, result.AccessExpiresAt))
	ctx.SetCookie(c.newCookie(models.RefreshTokenCookie, result.RefreshToken, result.RefreshExpiresAt))
}

func (c *Controller) clearAuthCookies(ctx echo.Context) {
	for _, name := range []string{models.AccessTokenCookie, models.RefreshTokenCookie} {
		cookie := c.newCookie(name, "", time.Unix(0, 0))
		cookie.MaxAge = -1
		ctx.SetCookie(cookie)
	}
}

func (c *Controller) newCookie(name, value string, expires time.Time) *http.Cookie {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge < 0 {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func cookieValue(ctx echo.Context, name string) string {
	cookie, err := ctx.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
