// Package queue defines message payloads exchanged over the message broker.
package queue

// PassportStatusEvent is published when a fit passport reaches a terminal
// processing state (completed or failed).  It contains enough information
// for downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type PassportStatusEvent struct {
	PassportID  uint64  `json:"passport_id"`
	UserID      string  `json:"user_id"`
	Status      string  `json:"status"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	ErrorDetail *string `json:"error,omitempty"`
	HeightCm    uint16  `json:"height_cm"`
	Gender      string  `json:"gender"`
	OccurredAt  string  `json:"occurred_at"`
}
