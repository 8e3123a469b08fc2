package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework for routing

	"github.com/tryonlabs/fitpassport/internal/handler" // handlers implementing the business logic
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check, used
// by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.  Registration
// doubles as the identity bootstrap: it mints the account UUID and the
// profile row together.  None of these endpoints sit behind the JWT
// middleware; logout accepts either a bearer token or a refresh token so
// a client holding only one of them can still end its sessions.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)              // rotate: new access + new refresh
	g.POST("/refresh-access", a.RefreshAccess) // new access only, refresh kept
	g.POST("/logout", a.Logout)
	// Alias kept for clients that call logout outside the auth prefix.
	e.POST("/v1/logout", a.Logout)
}
