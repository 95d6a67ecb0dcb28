package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rryowa/billtracker/internal/service"
	"github.com/rryowa/billtracker/internal/util"
)

func runErrorHandler(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/bills/x", nil)
	rec := httptest.NewRecorder()

	ErrorHandler(zaptest.NewLogger(t).Sugar())(err, e.NewContext(req, rec))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   util.ErrorCode
	}{
		{util.NewBadRequestError("bad"), http.StatusBadRequest, util.CodeBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, util.CodeUnauthenticated},
		{service.ErrRefreshTokenReuse, http.StatusUnauthorized, util.CodeTokenReuse},
		{service.ErrBillNotFound, http.StatusNotFound, util.CodeNotFound},
		{service.ErrEmailInUse, http.StatusConflict, util.CodeConflict},
		{echo.NewHTTPError(http.StatusBadRequest, "request body has an error"), http.StatusBadRequest, util.CodeBadRequest},
		{echo.ErrNotFound, http.StatusNotFound, util.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			rec, body := runErrorHandler(t, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, body.Message, body.Error.Message)
		})
	}
}

func TestErrorHandler_ValidationFields(t *testing.T) {
	fields := util.FieldErrors{}
	fields.Add("email", "Email is required")

	rec, body := runErrorHandler(t, util.NewValidationError(fields))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Equal(t, []string{"Email is required"}, body.Error.Fields["email"])
}

func TestErrorHandler_InternalErrorsAreOpaque(t *testing.T) {
	rec, body := runErrorHandler(t, errors.New("pq: connection refused on 10.0.0.5"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, util.CodeInternal, body.Error.Code)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
