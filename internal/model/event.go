package model

import (
	"encoding/json"
	"time"
)

// AnalyticsEvent is a free-form event log row.  event_type carries no
// check constraint (the taxonomy is consumer-defined) and event_data is
// an arbitrary JSON payload.  Both owner references null out on delete so
// the analytics history survives account removal.
type AnalyticsEvent struct {
	ID         uint64          // analytics_events.id
	UserID     *string         // analytics_events.user_id (nullable)
	SessionID  *uint64         // analytics_events.session_id (nullable)
	EventType  string          // analytics_events.event_type
	EventData  json.RawMessage // analytics_events.event_data (JSON)
	DeviceType *string         // analytics_events.device_type
	UserAgent  *string         // analytics_events.user_agent
	IPAddress  *string         // analytics_events.ip_address
	CreatedAt  time.Time       // analytics_events.created_at
}
