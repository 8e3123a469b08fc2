package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/tryonlabs/fitpassport/internal/model"
)

// EventRepo provides append/list access to analytics_events.  Events are
// append-only; there is no update or delete surface.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventCols = "id, user_id, session_id, event_type, event_data, device_type, user_agent, ip_address, created_at"

// Create appends an analytics event.  The owner column is the acting
// identity; event_type is free text by design.
func (r *EventRepo) Create(ctx context.Context, e *model.AnalyticsEvent) error {
	var data interface{}
	if e.EventData != nil {
		data = []byte(e.EventData)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO analytics_events (user_id, session_id, event_type, event_data, device_type, user_agent, ip_address)
		 VALUES (?,?,?,?,?,?,?)`,
		e.UserID, e.SessionID, e.EventType, data, e.DeviceType, e.UserAgent, e.IPAddress)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// ListByUser returns the caller's events, newest first.
func (r *EventRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.AnalyticsEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+eventCols+" FROM analytics_events WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AnalyticsEvent{}
	for rows.Next() {
		var (
			e    model.AnalyticsEvent
			data []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.SessionID, &e.EventType, &data,
			&e.DeviceType, &e.UserAgent, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			e.EventData = json.RawMessage(data)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
