package router

// This file splits the catalog surface in two: public reads that the
// storefront widget hits without credentials, and brand-role mutations.
// The public reads are the hottest endpoints in the system, so they take
// an optional response-cache middleware.

import (
	"github.com/labstack/echo/v4"

	"github.com/tryonlabs/fitpassport/internal/handler"
	"github.com/tryonlabs/fitpassport/internal/middleware"
)

// RegisterCatalog registers the public, read-only catalog endpoints.
// extra carries optional middleware (response cache, rate limiter); nil
// entries are skipped so callers can pass what they have.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, extra ...echo.MiddlewareFunc) {
	mws := make([]echo.MiddlewareFunc, 0, len(extra))
	for _, mw := range extra {
		if mw != nil {
			mws = append(mws, mw)
		}
	}
	g := e.Group("/v1", mws...)

	g.GET("/brands", h.ListBrands)
	g.GET("/brands/:id", h.GetBrand)
	g.GET("/brands/:id/garments", h.ListGarments)
	g.GET("/garments/:id", h.GetGarment)
}

// RegisterBrandAdmin registers catalog mutations.  All routes require a
// valid JWT with the brand role.
func RegisterBrandAdmin(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("brand"),
	)

	// ---- Brands ----
	g.POST("/brands", h.CreateBrand)
	g.PATCH("/brands/:id", h.UpdateBrand)
	g.DELETE("/brands/:id", h.DeleteBrand)

	// ---- Garments ----
	g.POST("/brands/:id/garments", h.CreateGarment)
	g.PATCH("/garments/:id", h.UpdateGarment)
	g.DELETE("/garments/:id", h.DeleteGarment)
}
