package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tryonlabs/fitpassport/internal/model"
	"github.com/tryonlabs/fitpassport/internal/repository"
)

type sessionResp struct {
	ID              uint64    `json:"id"`
	UserID          *string   `json:"user_id"`
	SessionToken    string    `json:"session_token"`
	ShopDomain      *string   `json:"shop_domain"`
	ProductID       *string   `json:"product_id"`
	VariantID       *string   `json:"variant_id"`
	GarmentID       *uint64   `json:"garment_id"`
	SizesViewed     []string  `json:"sizes_viewed"`
	SizeRecommended *string   `json:"size_recommended"`
	SizeSelected    *string   `json:"size_selected"`
	Action          string    `json:"action"`
	CreatedAt       time.Time `json:"created_at"`
}

func toSessionResp(s model.TryOnSession) sessionResp {
	return sessionResp{
		ID: s.ID, UserID: s.UserID, SessionToken: s.SessionToken,
		ShopDomain: s.ShopDomain, ProductID: s.ProductID, VariantID: s.VariantID,
		GarmentID: s.GarmentID, SizesViewed: s.SizesViewed,
		SizeRecommended: s.SizeRecommended, SizeSelected: s.SizeSelected,
		Action: s.Action, CreatedAt: s.CreatedAt,
	}
}

type createSessionReq struct {
	SessionToken    string   `json:"session_token"`
	ShopDomain      *string  `json:"shop_domain"`
	ProductID       *string  `json:"product_id"`
	VariantID       *string  `json:"variant_id"`
	GarmentID       *uint64  `json:"garment_id"`
	SizesViewed     []string `json:"sizes_viewed"`
	SizeRecommended *string  `json:"size_recommended"`
	Action          string   `json:"action"`
}

// CreateSession opens a try-on session for the caller.  The widget may
// supply its own session token; otherwise one is minted here.
func (h *ShopperHandler) CreateSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SessionToken == "" {
		req.SessionToken = uuid.NewString()
	}
	if req.Action == "" {
		req.Action = model.ActionOpened
	}
	if !model.ValidAction(req.Action) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid action"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := model.TryOnSession{
		UserID:          &uid,
		SessionToken:    req.SessionToken,
		ShopDomain:      req.ShopDomain,
		ProductID:       req.ProductID,
		VariantID:       req.VariantID,
		GarmentID:       req.GarmentID,
		SizesViewed:     req.SizesViewed,
		SizeRecommended: req.SizeRecommended,
		Action:          req.Action,
	}
	if err := h.Sessions.Create(ctx, &s); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "session token already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}
	return c.JSON(http.StatusCreated, toSessionResp(s))
}

// GetSession returns one session; 403 if owned by someone else.
func (h *ShopperHandler) GetSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Sessions.GetByID(ctx, id, uid)
	if err != nil {
		return sessionErr(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResp(s))
}

// ListSessions returns the caller's sessions, newest first.
func (h *ShopperHandler) ListSessions(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Sessions.ListByUser(ctx, uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]sessionResp, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

type sessionPatchReq struct {
	SizesViewed     []string `json:"sizes_viewed"`
	SizeRecommended *string  `json:"size_recommended"`
	SizeSelected    *string  `json:"size_selected"`
	Action          *string  `json:"action"`
}

// UpdateSession records funnel progress on the caller's session.
func (h *ShopperHandler) UpdateSession(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var req sessionPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Action != nil && !model.ValidAction(*req.Action) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid action"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Sessions.Update(ctx, id, uid, repository.SessionUpdate{
		SizesViewed:     req.SizesViewed,
		SizeRecommended: req.SizeRecommended,
		SizeSelected:    req.SizeSelected,
		Action:          req.Action,
	})
	if err != nil {
		return sessionErr(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResp(s))
}

func sessionErr(c echo.Context, err error) error {
	switch err {
	case sql.ErrNoRows:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your session"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session operation failed"})
}
