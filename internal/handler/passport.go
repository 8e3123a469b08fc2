package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tryonlabs/fitpassport/internal/model"
	"github.com/tryonlabs/fitpassport/internal/queue"
	"github.com/tryonlabs/fitpassport/internal/repository"
	queue_publisher "github.com/tryonlabs/fitpassport/internal/service"
)

type passportResp struct {
	ID                    uint64             `json:"id"`
	UserID                string             `json:"user_id"`
	HeightCm              uint16             `json:"height_cm"`
	WeightKg              *uint16            `json:"weight_kg"`
	Gender                string             `json:"gender"`
	AvatarURL             *string            `json:"avatar_url"`
	AvatarThumbnailURL    *string            `json:"avatar_thumbnail_url"`
	Measurements          model.Measurements `json:"measurements"`
	Status                string             `json:"status"`
	PipelineFiles         json.RawMessage    `json:"pipeline_files,omitempty"`
	ErrorMessage          *string            `json:"error_message,omitempty"`
	ProcessingStartedAt   *time.Time         `json:"processing_started_at"`
	ProcessingCompletedAt *time.Time         `json:"processing_completed_at"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

func toPassportResp(p model.FitPassport) passportResp {
	return passportResp{
		ID: p.ID, UserID: p.UserID, HeightCm: p.HeightCm, WeightKg: p.WeightKg,
		Gender: p.Gender, AvatarURL: p.AvatarURL, AvatarThumbnailURL: p.AvatarThumbnailURL,
		Measurements: model.Measurements{
			ChestCm: p.ChestCm, WaistCm: p.WaistCm, HipsCm: p.HipsCm, InseamCm: p.InseamCm,
			ShoulderWidthCm: p.ShoulderWidthCm, ArmLengthCm: p.ArmLengthCm,
			NeckCm: p.NeckCm, ThighCm: p.ThighCm, TorsoLengthCm: p.TorsoLengthCm,
		},
		Status: p.Status, PipelineFiles: p.PipelineFiles, ErrorMessage: p.ErrorMessage,
		ProcessingStartedAt: p.ProcessingStartedAt, ProcessingCompletedAt: p.ProcessingCompletedAt,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

type createPassportReq struct {
	HeightCm uint16  `json:"height_cm"`
	WeightKg *uint16 `json:"weight_kg"`
	Gender   string  `json:"gender"`
}

// CreatePassport opens the caller's fit passport in the 'pending' state.
// One per user; a second create returns 409.
func (h *ShopperHandler) CreatePassport(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPassportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.HeightCm < model.MinHeightCm || req.HeightCm > model.MaxHeightCm {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "height_cm out of range"})
	}
	if req.WeightKg != nil && (*req.WeightKg < model.MinWeightKg || *req.WeightKg > model.MaxWeightKg) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "weight_kg out of range"})
	}
	if req.Gender == "" {
		req.Gender = model.GenderOther
	}
	if !model.ValidGender(req.Gender) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid gender"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Passports.Create(ctx, uid, req.HeightCm, req.WeightKg, req.Gender)
	if err != nil {
		if err == repository.ErrPassportExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "fit passport already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create passport failed"})
	}
	return c.JSON(http.StatusCreated, toPassportResp(p))
}

// GetPassport returns the caller's passport.
func (h *ShopperHandler) GetPassport(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Passports.GetByUser(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "fit passport not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toPassportResp(p))
}

// UpdateMeasurements applies a user correction to the measurement columns.
// Only the fields present in the body change.
func (h *ShopperHandler) UpdateMeasurements(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var m model.Measurements
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if m.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no measurements provided"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Passports.UpdateMeasurements(ctx, uid, m)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "fit passport not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toPassportResp(p))
}

type statusPatchReq struct {
	Status        string              `json:"status"`
	ErrorMessage  *string             `json:"error_message"`
	AvatarURL     *string             `json:"avatar_url"`
	ThumbnailURL  *string             `json:"avatar_thumbnail_url"`
	Measurements  *model.Measurements `json:"measurements"`
	PipelineFiles json.RawMessage     `json:"pipeline_files"`
}

// UpdateStatus drives the passport through its processing state machine.
// Results (avatar URLs, measurements, pipeline files) are only applied on
// the move to 'completed'; error detail only on 'failed'.  Terminal
// transitions are announced on the message queue for downstream consumers.
func (h *ShopperHandler) UpdateStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req statusPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Passports.Transition(ctx, uid, repository.StatusUpdate{
		Status:        req.Status,
		ErrorMessage:  req.ErrorMessage,
		AvatarURL:     req.AvatarURL,
		ThumbnailURL:  req.ThumbnailURL,
		Measurements:  req.Measurements,
		PipelineFiles: req.PipelineFiles,
	})
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "fit passport not found"})
		case repository.ErrInvalidTransition:
			return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
	}

	if p.Status == model.StatusCompleted || p.Status == model.StatusFailed {
		ev := queue.PassportStatusEvent{
			PassportID:  p.ID,
			UserID:      p.UserID,
			Status:      p.Status,
			AvatarURL:   p.AvatarURL,
			ErrorDetail: p.ErrorMessage,
			HeightCm:    p.HeightCm,
			Gender:      p.Gender,
			OccurredAt:  time.Now().UTC().Format(time.RFC3339),
		}
		// Fire and forget: a broker outage must not fail the request.
		go func() {
			pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pubCancel()
			_ = queue_publisher.PublishPassportStatus(pubCtx, ev)
		}()
	}
	return c.JSON(http.StatusOK, toPassportResp(p))
}
