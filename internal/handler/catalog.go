package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tryonlabs/fitpassport/internal/model"
	"github.com/tryonlabs/fitpassport/internal/repository"
)

type brandResp struct {
	ID                   uint64    `json:"id"`
	Name                 string    `json:"name"`
	ShopifyDomain        *string   `json:"shopify_domain"`
	PlanTier             string    `json:"plan_tier"`
	MonthlyAvatarLimit   uint32    `json:"monthly_avatar_limit"`
	AvatarsUsedThisMonth uint32    `json:"avatars_used_this_month"`
	BillingEmail         *string   `json:"billing_email"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func toBrandResp(b model.Brand) brandResp {
	return brandResp{
		ID: b.ID, Name: b.Name, ShopifyDomain: b.ShopifyDomain,
		PlanTier: b.PlanTier, MonthlyAvatarLimit: b.MonthlyAvatarLimit,
		AvatarsUsedThisMonth: b.AvatarsUsedThisMonth, BillingEmail: b.BillingEmail,
		Status: b.Status, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
	}
}

type garmentResp struct {
	ID        uint64          `json:"id"`
	BrandID   uint64          `json:"brand_id"`
	Name      string          `json:"name"`
	ProductID *string         `json:"product_id"`
	Sizes     json.RawMessage `json:"sizes,omitempty"`
	SizeChart json.RawMessage `json:"size_chart,omitempty"`
	FitType   string          `json:"fit_type"`
	Category  string          `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toGarmentResp(g model.Garment) garmentResp {
	return garmentResp{
		ID: g.ID, BrandID: g.BrandID, Name: g.Name, ProductID: g.ProductID,
		Sizes: g.Sizes, SizeChart: g.SizeChart, FitType: g.FitType,
		Category: g.Category, CreatedAt: g.CreatedAt, UpdatedAt: g.UpdatedAt,
	}
}

// ----- brands -----

// ListBrands is the public catalog listing.
func (h *CatalogHandler) ListBrands(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	brands, err := h.Brands.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]brandResp, 0, len(brands))
	for _, b := range brands {
		out = append(out, toBrandResp(b))
	}
	return c.JSON(http.StatusOK, out)
}

// GetBrand returns one brand.
func (h *CatalogHandler) GetBrand(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid brand id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Brands.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toBrandResp(b))
}

type createBrandReq struct {
	Name               string  `json:"name"`
	ShopifyDomain      *string `json:"shopify_domain"`
	PlanTier           string  `json:"plan_tier"`
	MonthlyAvatarLimit uint32  `json:"monthly_avatar_limit"`
	BillingEmail       *string `json:"billing_email"`
}

// CreateBrand registers a B2B tenant.  Role-gated to brand accounts at the
// router; there is no per-row owner check on brands.
func (h *CatalogHandler) CreateBrand(c echo.Context) error {
	var req createBrandReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.PlanTier == "" {
		req.PlanTier = model.PlanStarter
	}
	if !model.ValidPlanTier(req.PlanTier) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan_tier"})
	}
	if req.MonthlyAvatarLimit == 0 {
		req.MonthlyAvatarLimit = 100
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b := model.Brand{
		Name:               req.Name,
		ShopifyDomain:      req.ShopifyDomain,
		PlanTier:           req.PlanTier,
		MonthlyAvatarLimit: req.MonthlyAvatarLimit,
		BillingEmail:       req.BillingEmail,
		Status:             model.BrandActive,
	}
	if err := h.Brands.Create(ctx, &b); err != nil {
		if err == repository.ErrDomainExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "shopify domain already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create brand failed"})
	}
	created, err := h.Brands.GetByID(ctx, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create brand failed"})
	}
	return c.JSON(http.StatusCreated, toBrandResp(created))
}

type brandPatchReq struct {
	Name               *string `json:"name"`
	ShopifyDomain      *string `json:"shopify_domain"`
	PlanTier           *string `json:"plan_tier"`
	MonthlyAvatarLimit *uint32 `json:"monthly_avatar_limit"`
	BillingEmail       *string `json:"billing_email"`
	Status             *string `json:"status"`
}

// UpdateBrand applies a partial brand update.
func (h *CatalogHandler) UpdateBrand(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid brand id"})
	}
	var req brandPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PlanTier != nil && !model.ValidPlanTier(*req.PlanTier) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan_tier"})
	}
	if req.Status != nil && !model.ValidBrandStatus(*req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Brands.Update(ctx, id, repository.BrandUpdate{
		Name:               req.Name,
		ShopifyDomain:      req.ShopifyDomain,
		PlanTier:           req.PlanTier,
		MonthlyAvatarLimit: req.MonthlyAvatarLimit,
		BillingEmail:       req.BillingEmail,
		Status:             req.Status,
	})
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		case repository.ErrDomainExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "shopify domain already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update brand failed"})
	}
	return c.JSON(http.StatusOK, toBrandResp(b))
}

// DeleteBrand removes a brand and, through the cascade, its garments.
func (h *CatalogHandler) DeleteBrand(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid brand id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Brands.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete brand failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- garments -----

// ListGarments returns a brand's garments.
func (h *CatalogHandler) ListGarments(c echo.Context) error {
	brandID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid brand id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	garments, err := h.Garments.ListByBrand(ctx, brandID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]garmentResp, 0, len(garments))
	for _, g := range garments {
		out = append(out, toGarmentResp(g))
	}
	return c.JSON(http.StatusOK, out)
}

// GetGarment returns one garment.
func (h *CatalogHandler) GetGarment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid garment id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Garments.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "garment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toGarmentResp(g))
}

type createGarmentReq struct {
	Name      string          `json:"name"`
	ProductID *string         `json:"product_id"`
	Sizes     json.RawMessage `json:"sizes"`
	SizeChart json.RawMessage `json:"size_chart"`
	FitType   string          `json:"fit_type"`
	Category  string          `json:"category"`
}

// CreateGarment adds a catalog item under a brand.
func (h *CatalogHandler) CreateGarment(c echo.Context) error {
	brandID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid brand id"})
	}
	var req createGarmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.FitType == "" {
		req.FitType = model.FitRegular
	}
	if !model.ValidFitType(req.FitType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid fit_type"})
	}
	if !model.ValidCategory(req.Category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// A dangling brand id surfaces as a foreign key failure; map it to 404
	// by checking the parent first.
	if _, err := h.Brands.GetByID(ctx, brandID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "brand not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	g := model.Garment{
		BrandID:   brandID,
		Name:      req.Name,
		ProductID: req.ProductID,
		Sizes:     req.Sizes,
		SizeChart: req.SizeChart,
		FitType:   req.FitType,
		Category:  req.Category,
	}
	if err := h.Garments.Create(ctx, &g); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create garment failed"})
	}
	created, err := h.Garments.GetByID(ctx, g.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create garment failed"})
	}
	return c.JSON(http.StatusCreated, toGarmentResp(created))
}

type garmentPatchReq struct {
	Name      *string         `json:"name"`
	ProductID *string         `json:"product_id"`
	Sizes     json.RawMessage `json:"sizes"`
	SizeChart json.RawMessage `json:"size_chart"`
	FitType   *string         `json:"fit_type"`
	Category  *string         `json:"category"`
}

// UpdateGarment applies a partial update to a catalog item.
func (h *CatalogHandler) UpdateGarment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid garment id"})
	}
	var req garmentPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FitType != nil && !model.ValidFitType(*req.FitType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid fit_type"})
	}
	if req.Category != nil && !model.ValidCategory(*req.Category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Garments.Update(ctx, id, repository.GarmentUpdate{
		Name:      req.Name,
		ProductID: req.ProductID,
		Sizes:     req.Sizes,
		SizeChart: req.SizeChart,
		FitType:   req.FitType,
		Category:  req.Category,
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "garment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update garment failed"})
	}
	return c.JSON(http.StatusOK, toGarmentResp(g))
}

// DeleteGarment removes a catalog item.
func (h *CatalogHandler) DeleteGarment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid garment id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Garments.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "garment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete garment failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
