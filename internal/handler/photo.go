package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tryonlabs/fitpassport/internal/model"
	"github.com/tryonlabs/fitpassport/internal/repository"
)

type photoResp struct {
	ID                    uint64    `json:"id"`
	UserID                string    `json:"user_id"`
	FitPassportID         *uint64   `json:"fit_passport_id"`
	PhotoURL              string    `json:"photo_url"`
	PhotoType             string    `json:"photo_type"`
	IsProcessed           bool      `json:"is_processed"`
	DeleteAfterProcessing bool      `json:"delete_after_processing"`
	CreatedAt             time.Time `json:"created_at"`
}

func toPhotoResp(p model.UserPhoto) photoResp {
	return photoResp{
		ID: p.ID, UserID: p.UserID, FitPassportID: p.FitPassportID,
		PhotoURL: p.PhotoURL, PhotoType: p.PhotoType,
		IsProcessed: p.IsProcessed, DeleteAfterProcessing: p.DeleteAfterProcessing,
		CreatedAt: p.CreatedAt,
	}
}

type createPhotoReq struct {
	FitPassportID         *uint64 `json:"fit_passport_id"`
	PhotoURL              string  `json:"photo_url"`
	PhotoType             string  `json:"photo_type"`
	DeleteAfterProcessing bool    `json:"delete_after_processing"`
}

// CreatePhoto registers an uploaded photo.  The binary already sits in the
// private storage bucket; only its URL is recorded here.  The owner is
// always the acting identity, whatever the body says.
func (h *ShopperHandler) CreatePhoto(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPhotoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PhotoURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "photo_url required"})
	}
	if req.PhotoType == "" {
		req.PhotoType = model.PhotoTypeFront
	}
	if !model.ValidPhotoType(req.PhotoType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo_type"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Photos.Create(ctx, uid, req.FitPassportID, req.PhotoURL, req.PhotoType, req.DeleteAfterProcessing)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create photo failed"})
	}
	return c.JSON(http.StatusCreated, toPhotoResp(p))
}

// ListPhotos returns the caller's photos, newest first.
func (h *ShopperHandler) ListPhotos(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	photos, err := h.Photos.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]photoResp, 0, len(photos))
	for _, p := range photos {
		out = append(out, toPhotoResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// GetPhoto returns one photo; 403 if it belongs to someone else.
func (h *ShopperHandler) GetPhoto(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Photos.GetByID(ctx, id, uid)
	if err != nil {
		return photoErr(c, err)
	}
	return c.JSON(http.StatusOK, toPhotoResp(p))
}

// MarkPhotoProcessed flags a photo as consumed by the avatar pipeline.
func (h *ShopperHandler) MarkPhotoProcessed(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Photos.MarkProcessed(ctx, id, uid)
	if err != nil {
		return photoErr(c, err)
	}
	return c.JSON(http.StatusOK, toPhotoResp(p))
}

// DeletePhoto removes the caller's photo row.
func (h *ShopperHandler) DeletePhoto(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid photo id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Photos.Delete(ctx, id, uid); err != nil {
		return photoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func photoErr(c echo.Context, err error) error {
	switch err {
	case sql.ErrNoRows:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "photo not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your photo"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "photo operation failed"})
}
