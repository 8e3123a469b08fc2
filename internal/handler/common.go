package handler // handler defines http handlers

import (
	"errors" // errors provides sentinel values used in getUserID

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/tryonlabs/fitpassport/internal/repository" // repository holds the data access layer
)

// ShopperHandler bundles the repositories behind the owner-scoped surface:
// profile, fit passport, photos, try-on sessions and analytics events.
// Every method extracts the acting identity from context and passes it to
// the repositories, which enforce the ownership boundary.
type ShopperHandler struct {
	Users     *repository.UserRepo
	Passports *repository.PassportRepo
	Photos    *repository.PhotoRepo
	Sessions  *repository.SessionRepo
	Events    *repository.EventRepo
}

// NewShopperHandler constructs a ShopperHandler and panics if any dependency is nil.
func NewShopperHandler(users *repository.UserRepo, passports *repository.PassportRepo, photos *repository.PhotoRepo, sessions *repository.SessionRepo, events *repository.EventRepo) *ShopperHandler {
	if users == nil || passports == nil || photos == nil || sessions == nil || events == nil {
		panic("nil repository passed to NewShopperHandler")
	}
	return &ShopperHandler{Users: users, Passports: passports, Photos: photos, Sessions: sessions, Events: events}
}

// CatalogHandler bundles the repositories behind the B2B catalog surface.
type CatalogHandler struct {
	Brands   *repository.BrandRepo
	Garments *repository.GarmentRepo
}

// NewCatalogHandler constructs a CatalogHandler and panics if any dependency is nil.
func NewCatalogHandler(brands *repository.BrandRepo, garments *repository.GarmentRepo) *CatalogHandler {
	if brands == nil || garments == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Brands: brands, Garments: garments}
}

// getUserID extracts the user UUID that JWTAuth stored in the context.
func getUserID(c echo.Context) (string, error) {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("invalid user_id in context")
}
