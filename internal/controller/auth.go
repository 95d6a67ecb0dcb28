package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/util"
)

// (POST /api/auth/register).
func (c *Controller) Register(ctx echo.Context) error {
	var req models.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return util.NewBadRequestError("Invalid request body")
	}

	user, err := c.authService.Register(ctx.Request().Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, models.UserResponse{User: *user})
}

// (POST /api/auth/login).
func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return util.NewBadRequestError("Invalid request body")
	}

	result, err := c.authService.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.setAuthCookies(ctx, result)
	return ctx.JSON(http.StatusOK, models.UserResponse{User: result.User})
}

// (POST /api/auth/refresh).
// Любая ошибка ротации сбрасывает обе cookie.
func (c *Controller) Refresh(ctx echo.Context) error {
	rawRefreshToken := cookieValue(ctx, models.RefreshTokenCookie)
	if rawRefreshToken == "" {
		return util.NewAuthenticationError("Missing refresh token")
	}

	result, err := c.sessionService.Refresh(ctx.Request().Context(), rawRefreshToken)
	if err != nil {
		c.clearAuthCookies(ctx)
		return err
	}

	c.setAuthCookies(ctx, result)
	return ctx.JSON(http.StatusOK, models.UserResponse{User: result.User})
}

// (POST /api/auth/logout).
func (c *Controller) Logout(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if rawRefreshToken := cookieValue(ctx, models.RefreshTokenCookie); rawRefreshToken != "" {
		if err := c.sessionService.Logout(reqCtx, rawRefreshToken); err != nil {
			return err
		}
	}

	if accessToken := AccessTokenFromRequest(ctx); accessToken != "" {
		if err := c.tokenService.InvalidateAccessToken(reqCtx, accessToken); err != nil {
			c.zapLogger.Warnw("Failed to invalidate access token on logout", "error", err)
		}
	}

	c.clearAuthCookies(ctx)
	return ctx.NoContent(http.StatusNoContent)
}

// (GET /api/auth/me).
func (c *Controller) Me(ctx echo.Context) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	user, err := c.authService.GetProfile(ctx.Request().Context(), userID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, models.UserResponse{User: *user})
}
