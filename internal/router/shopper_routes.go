package router

import (
	"github.com/labstack/echo/v4"

	"github.com/tryonlabs/fitpassport/internal/handler"
	"github.com/tryonlabs/fitpassport/internal/middleware"
)

// RegisterShopper registers the owner-scoped endpoints under /v1.  All
// routes require a valid JWT; both account types get through because a
// brand employee still owns a profile, passport and photos of their own.
// The per-row ownership boundary is enforced below the handlers, in the
// repositories, so no route here can reach another user's rows.
func RegisterShopper(e *echo.Echo, h *handler.ShopperHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("shopper", "brand"),
	)

	// ---- Profile ----
	g.GET("/me", h.Me)
	g.PATCH("/me", h.UpdateMe)
	g.DELETE("/me", h.DeleteMe)

	// ---- Fit passport ----
	g.POST("/passport", h.CreatePassport)
	g.GET("/passport", h.GetPassport)
	g.PATCH("/passport/measurements", h.UpdateMeasurements)
	g.PATCH("/passport/status", h.UpdateStatus)

	// ---- Photos ----
	g.POST("/photos", h.CreatePhoto)
	g.GET("/photos", h.ListPhotos)
	g.GET("/photos/:id", h.GetPhoto)
	g.PATCH("/photos/:id/processed", h.MarkPhotoProcessed)
	g.DELETE("/photos/:id", h.DeletePhoto)

	// ---- Try-on sessions ----
	g.POST("/sessions", h.CreateSession)
	g.GET("/sessions", h.ListSessions)
	g.GET("/sessions/:id", h.GetSession)
	g.PATCH("/sessions/:id", h.UpdateSession)

	// ---- Analytics events ----
	g.POST("/events", h.CreateEvent)
	g.GET("/events", h.ListEvents)
}
