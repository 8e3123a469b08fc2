package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tryonlabs/fitpassport/internal/model"
	"github.com/tryonlabs/fitpassport/internal/repository"
)

type profileResp struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"name"`
	Phone     *string   `json:"phone"`
	Country   *string   `json:"country"`
	City      *string   `json:"city"`
	UserType  string    `json:"user_type"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProfileResp(u model.User) profileResp {
	return profileResp{
		ID: u.ID, Email: u.Email, FullName: u.FullName,
		Phone: u.Phone, Country: u.Country, City: u.City,
		UserType: u.UserType, IsActive: u.IsActive,
		CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

// Me returns the caller's profile.  A valid token whose row is missing
// gets a minimal profile recreated on the fly rather than a 404, so the
// client never sees a half-deleted account.
func (h *ShopperHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// The token carries no email, so the bootstrap row gets a placeholder
	// address until the account goes through password reset.
	u, err := h.Users.EnsureProfile(ctx, uid, uid+"@recovered.invalid")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, toProfileResp(u))
}

type profilePatchReq struct {
	FullName *string `json:"name"`
	Phone    *string `json:"phone"`
	Country  *string `json:"country"`
	City     *string `json:"city"`
}

// UpdateMe applies a partial update to the caller's own profile row.
func (h *ShopperHandler) UpdateMe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profilePatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, uid, repository.ProfileUpdate{
		FullName: req.FullName, Phone: req.Phone, Country: req.Country, City: req.City,
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}
	return c.JSON(http.StatusOK, toProfileResp(u))
}

// DeleteMe removes the caller's account.  Passport, photos and refresh
// tokens cascade away; sessions and analytics rows survive with their
// owner reference nulled.
func (h *ShopperHandler) DeleteMe(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, uid); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
