package controller

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
)

//go:embed openapi.yaml
var openapiSpec []byte

// GetSwagger returns the parsed and validated OpenAPI document the request
// validator checks /api traffic against.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := swagger.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}
	return swagger, nil
}

// RegisterHandlers mounts the API on g, which is expected to be the /api
// group. Everything except register, login, refresh and logout goes through
// auth.
func RegisterHandlers(g *echo.Group, c *Controller, auth echo.MiddlewareFunc) {
	g.POST("/auth/register", c.Register)
	g.POST("/auth/login", c.Login)
	g.POST("/auth/refresh", c.Refresh)
	g.POST("/auth/logout", c.Logout)
	g.GET("/auth/me", c.Me, auth)

	bills := g.Group("/bills", auth)
	bills.GET("", c.ListBills)
	bills.POST("", c.CreateBill)
	bills.GET("/:id", c.GetBill)
	bills.PUT("/:id", c.UpdateBill)
	bills.DELETE("/:id", c.DeleteBill)
	bills.POST("/:id/pay", c.PayBill)
}
