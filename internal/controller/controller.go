package controller

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/service"
	"github.com/rryowa/billtracker/internal/util"
)

type Controller struct {
	zapLogger      *zap.SugaredLogger
	authService    *service.AuthService
	sessionService *service.SessionService
	tokenService   *service.TokenService
	billService    *service.BillService
	cookieSecure   bool
}

func NewController(
	logger *zap.SugaredLogger,
	authService *service.AuthService,
	sessionService *service.SessionService,
	tokenService *service.TokenService,
	billService *service.BillService,
	securityCfg *util.SecurityConfig,
) *Controller {
	return &Controller{
		zapLogger:      logger,
		authService:    authService,
		sessionService: sessionService,
		tokenService:   tokenService,
		billService:    billService,
		cookieSecure:   securityCfg.CookieSecure,
	}
}

// (GET /health).
func (c *Controller) CheckServer(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// currentUserID is set by the access token middleware.
func currentUserID(ctx echo.Context) (string, error) {
	userID, ok := ctx.Get(models.MwUserIDKey).(string)
	if !ok || userID == "" {
		return "", util.NewAuthenticationError("Unauthenticated")
	}
	return userID, nil
}

// AccessTokenFromRequest prefers the accessToken cookie and falls back to an
// Authorization: Bearer header.
func AccessTokenFromRequest(ctx echo.Context) string {
	if token := cookieValue(ctx, models.AccessTokenCookie); token != "" {
		return token
	}
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
