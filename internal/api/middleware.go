package api

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/rryowa/billtracker/internal/controller"
	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/service"
	"github.com/rryowa/billtracker/internal/util"
)

type AccessTokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (string, error)
}

// AccessTokenMiddleware пропускает запрос только с валидным access токеном
// (cookie или Bearer). user id сохраняется в контексте Echo.
func AccessTokenMiddleware(tokens AccessTokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := controller.AccessTokenFromRequest(c)
			if token == "" {
				return util.NewAuthenticationError("Unauthenticated")
			}

			userID, err := tokens.ValidateAccessToken(c.Request().Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, service.ErrTokenExpired):
				return util.NewAuthenticationError("Access token expired")
			case errors.Is(err, service.ErrTokenInvalid), errors.Is(err, service.ErrTokenRevoked):
				return util.NewAuthenticationError("Invalid access token")
			default:
				return util.NewInternalError(err)
			}

			c.Set(models.MwUserIDKey, userID)
			c.Set(models.MwTokenKey, token)

			return next(c)
		}
	}
}

func GetLoggerMiddlewareConfig(a *API) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,

		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", c.Request().Method,
				"uri", v.URI,
				"status", v.Status,
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				a.log.Errorw("Request", fields...)
			} else {
				a.log.Infow("Request", fields...)
			}
			return nil
		},
	}
}
