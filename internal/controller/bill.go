package controller

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"

	"github.com/rryowa/billtracker/internal/models"
	"github.com/rryowa/billtracker/internal/service"
	"github.com/rryowa/billtracker/internal/util"
)

// (GET /api/bills).
func (c *Controller) ListBills(ctx echo.Context) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	var (
		q      models.ListBillsQuery
		status string
	)
	params := ctx.QueryParams()
	if err := runtime.BindQueryParameter("form", true, false, "page", params, &q.Page); err != nil {
		return invalidQueryParam("page", "Page must be a positive integer")
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", params, &q.Limit); err != nil {
		return invalidQueryParam("limit", "Limit must be an integer")
	}
	if err := runtime.BindQueryParameter("form", true, false, "status", params, &status); err != nil {
		return invalidQueryParam("status", "Status must be a string")
	}
	q.Status = models.BillStatus(status)

	page, err := c.billService.List(ctx.Request().Context(), userID, q)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, page)
}

// (POST /api/bills).
func (c *Controller) CreateBill(ctx echo.Context) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}

	in, err := bindBillInput(ctx)
	if err != nil {
		return err
	}

	bill, err := c.billService.Create(ctx.Request().Context(), userID, in)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, models.BillResponse{Bill: *bill})
}

// (GET /api/bills/{id}).
func (c *Controller) GetBill(ctx echo.Context) error {
	userID, id, err := c.billRequest(ctx)
	if err != nil {
		return err
	}

	bill, err := c.billService.Get(ctx.Request().Context(), userID, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, models.BillResponse{Bill: *bill})
}

// (PUT /api/bills/{id}).
func (c *Controller) UpdateBill(ctx echo.Context) error {
	userID, id, err := c.billRequest(ctx)
	if err != nil {
		return err
	}

	in, err := bindBillInput(ctx)
	if err != nil {
		return err
	}

	bill, err := c.billService.Update(ctx.Request().Context(), userID, id, in)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, models.BillResponse{Bill: *bill})
}

// (DELETE /api/bills/{id}).
func (c *Controller) DeleteBill(ctx echo.Context) error {
	userID, id, err := c.billRequest(ctx)
	if err != nil {
		return err
	}

	bill, err := c.billService.Delete(ctx.Request().Context(), userID, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, models.BillResponse{Bill: *bill})
}

// (POST /api/bills/{id}/pay).
func (c *Controller) PayBill(ctx echo.Context) error {
	userID, id, err := c.billRequest(ctx)
	if err != nil {
		return err
	}

	bill, next, err := c.billService.Pay(ctx.Request().Context(), userID, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, models.PayBillResponse{Bill: *bill, NextBill: next})
}

// billRequest returns the caller and the bill id from the path. An id that
// is not a UUID cannot name any bill, so it is reported as not found.
func (c *Controller) billRequest(ctx echo.Context) (string, string, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return "", "", err
	}

	var id string
	err = runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", "", util.NewBadRequestError("Invalid format for parameter id")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", "", service.ErrBillNotFound
	}
	return userID, id, nil
}

// bindBillInput decodes the request body, turning undecodable bill fields
// into field errors.
func bindBillInput(ctx echo.Context) (models.BillInput, error) {
	var in models.BillInput
	if err := ctx.Bind(&in); err != nil {
		var inputErr *models.BillInputError
		if errors.As(err, &inputErr) {
			fields := util.FieldErrors{}
			for field, msg := range inputErr.Fields {
				fields.Add(field, msg)
			}
			return in, util.NewValidationError(fields)
		}
		return in, util.NewBadRequestError("Invalid request body")
	}
	return in, nil
}

func invalidQueryParam(field, msg string) error {
	fields := util.FieldErrors{}
	fields.Add(field, msg)
	return util.NewValidationError(fields)
}
