package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rryowa/billtracker/internal/util"
)

type errorBody struct {
	Code    util.ErrorCode   `json:"code"`
	Message string           `json:"message"`
	Fields  util.FieldErrors `json:"fields,omitempty"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Error   errorBody `json:"error"`
}

// StatusFor is the only place an error code becomes an HTTP status.
func StatusFor(code util.ErrorCode) int {
	switch code {
	case util.CodeValidation, util.CodeBadRequest:
		return http.StatusBadRequest
	case util.CodeUnauthenticated, util.CodeTokenReuse:
		return http.StatusUnauthorized
	case util.CodeNotFound:
		return http.StatusNotFound
	case util.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := toAppError(err, c)
		status := StatusFor(appErr.Code)
		if status == http.StatusInternalServerError {
			log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
			appErr = util.NewInternalError(err)
		}

		resp := ErrorResponse{
			Success: false,
			Message: appErr.Msg,
			Error: errorBody{
				Code:    appErr.Code,
				Message: appErr.Msg,
				Fields:  appErr.Fields,
			},
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, resp)
		}
		if err != nil {
			log.Errorw("failed to write json response", "error", err)
		}
	}
}

func toAppError(err error, c echo.Context) *util.AppError {
	var appErr *util.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return util.NewInternalError(err)
	}

	msg := http.StatusText(he.Code)
	if m, ok := he.Message.(string); ok && m != "" {
		msg = m
	} else if he.Message != nil {
		msg = fmt.Sprint(he.Message)
	}

	switch {
	case he.Code == http.StatusUnauthorized:
		return util.NewAuthenticationError(msg)
	case he.Code == http.StatusNotFound, he.Code == http.StatusMethodNotAllowed:
		return util.NewNotFoundError(fmt.Sprintf("Route %s %s not found", c.Request().Method, c.Request().URL.Path))
	case he.Code >= http.StatusBadRequest && he.Code < http.StatusInternalServerError:
		return util.NewBadRequestError("%s", msg)
	}
	return util.NewInternalError(err)
}
