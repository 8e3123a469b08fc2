package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tryonlabs/fitpassport/internal/model"
)

type eventResp struct {
	ID         uint64          `json:"id"`
	UserID     *string         `json:"user_id"`
	SessionID  *uint64         `json:"session_id"`
	EventType  string          `json:"event_type"`
	EventData  json.RawMessage `json:"event_data,omitempty"`
	DeviceType *string         `json:"device_type"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toEventResp(e model.AnalyticsEvent) eventResp {
	return eventResp{
		ID: e.ID, UserID: e.UserID, SessionID: e.SessionID,
		EventType: e.EventType, EventData: e.EventData,
		DeviceType: e.DeviceType, CreatedAt: e.CreatedAt,
	}
}

type createEventReq struct {
	SessionID  *uint64         `json:"session_id"`
	EventType  string          `json:"event_type"`
	EventData  json.RawMessage `json:"event_data"`
	DeviceType *string         `json:"device_type"`
}

// CreateEvent appends an analytics event owned by the caller.  The event
// taxonomy is consumer-defined: event_type is free text.  User agent and
// client address come from the request, not the body.
func (h *ShopperHandler) CreateEvent(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.EventType) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_type required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var ua, ip *string
	if v := c.Request().UserAgent(); v != "" {
		ua = &v
	}
	if v := c.RealIP(); v != "" {
		ip = &v
	}
	e := model.AnalyticsEvent{
		UserID:     &uid,
		SessionID:  req.SessionID,
		EventType:  strings.TrimSpace(req.EventType),
		EventData:  req.EventData,
		DeviceType: req.DeviceType,
		UserAgent:  ua,
		IPAddress:  ip,
	}
	if err := h.Events.Create(ctx, &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, toEventResp(e))
}

// ListEvents returns the caller's events, newest first.
func (h *ShopperHandler) ListEvents(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	events, err := h.Events.ListByUser(ctx, uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]eventResp, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResp(e))
	}
	return c.JSON(http.StatusOK, out)
}
