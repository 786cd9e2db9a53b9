// Package router registers the HTTP routes of the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/liftpass/internal/handler"
	"github.com/iliyamo/liftpass/internal/middleware"
	"github.com/iliyamo/liftpass/internal/utils"
)

// Handlers bundles everything RegisterRoutes wires.
type Handlers struct {
	Prices   *handler.PriceHandler
	Holidays *handler.HolidayHandler
	Auth     *handler.AuthHandler // nil disables admin login and write protection
}

// RegisterRoutes maps the public and admin routes on e.
//
//	GET    /healthz
//	GET    /prices      public
//	GET    /holidays    public
//	PUT    /prices      admin
//	PUT    /holidays    admin
//	DELETE /holidays    admin
//	POST   /auth/login  only when admin auth is configured
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	e.GET("/prices", h.Prices.GetPrice)
	e.GET("/holidays", h.Holidays.ListHolidays)

	var admin []echo.MiddlewareFunc
	if h.Auth != nil {
		e.POST("/auth/login", h.Auth.Login)
		admin = append(admin, middleware.JWTAuth(jwtSecret), middleware.RequireRole(utils.RoleAdmin))
	}
	e.PUT("/prices", h.Prices.PutPrice, admin...)
	e.PUT("/holidays", h.Holidays.PutHoliday, admin...)
	e.DELETE("/holidays", h.Holidays.DeleteHoliday, admin...)
}
