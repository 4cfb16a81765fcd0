// Package router maps the API surface onto handlers. All resource routes
// live under /api/parkmate; Django-style trailing slashes are stripped by a
// pre-middleware in main, so paths here are registered without them.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sanyovichhh/parkmate-backend/internal/handler"
)

// Deps carries the handlers and group middleware RegisterRoutes wires up.
// Nil middleware entries are skipped, which keeps test setups small.
type Deps struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Parking  *handler.ParkingHandler
	Bookings *handler.BookingHandler

	Principal echo.MiddlewareFunc // resolves the acting principal for every API route
	RateLimit echo.MiddlewareFunc // optional, applied to the whole API group
	Cache     echo.MiddlewareFunc // optional, applied to open parking reads only
}

// RegisterRoutes registers the health probe and the /api/parkmate surface.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	g := e.Group("/api/parkmate")
	if d.RateLimit != nil {
		g.Use(d.RateLimit)
	}
	if d.Principal != nil {
		g.Use(d.Principal)
	}

	// Authentication
	g.POST("/register", d.Auth.Register)
	g.POST("/login", d.Auth.Login)
	g.POST("/logout", d.Auth.Logout)

	// Users: admin or self
	g.GET("/users/:id", d.Users.Get)
	g.DELETE("/users/:id/delete", d.Users.Delete)

	// Parking: open CRUD; reads are cacheable since every caller sees the
	// same data
	var cache []echo.MiddlewareFunc
	if d.Cache != nil {
		cache = append(cache, d.Cache)
	}
	g.GET("/parking", d.Parking.List, cache...)
	g.POST("/parking", d.Parking.Create)
	g.GET("/parking/:id", d.Parking.Get, cache...)
	g.PUT("/parking/:id/update", d.Parking.Update)
	g.DELETE("/parking/:id/delete", d.Parking.Delete)

	// Bookings: principal required, admin-or-owner per item
	g.GET("/bookings", d.Bookings.List)
	g.POST("/bookings", d.Bookings.Create)
	g.GET("/bookings/:id", d.Bookings.Get)
	g.PUT("/bookings/:id/update", d.Bookings.Update)
	g.DELETE("/bookings/:id/delete", d.Bookings.Delete)
}
