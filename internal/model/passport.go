package model

import (
	"encoding/json"
	"time"
)

// Processing states for a fit passport.  The column itself only carries a
// membership check; the allowed transitions are enforced here.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Gender values follow the fit_passports.gender check constraint.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Height/weight bounds mirror the column checks (centimetres, kilograms).
const (
	MinHeightCm = 100
	MaxHeightCm = 250
	MinWeightKg = 30
	MaxWeightKg = 300
)

// FitPassport is the per-user body measurement and avatar record.  Exactly
// one exists per user (unique key on user_id).  All measurement fields are
// centimetres and nullable; they are filled in by the external pipeline or
// corrected by the user afterwards.  PipelineFiles is a free-form key→URL
// map of everything the avatar pipeline produced, stored as JSON.
//
// Fields:
//  ID                    – primary key identifier.
//  UserID                – owning user (UUID).
//  HeightCm              – required height in cm.
//  WeightKg              – optional weight in kg.
//  Gender                – 'male', 'female' or 'other'.
//  AvatarURL             – URL of the generated GLB avatar, if any.
//  AvatarThumbnailURL    – URL of the avatar preview image, if any.
//  ChestCm .. TorsoLengthCm – individual measurements in cm.
//  Status                – processing state.
//  PipelineFiles         – key→URL map of pipeline outputs (JSON).
//  ErrorMessage          – terminal failure detail reported by the caller.
//  ProcessingStartedAt   – when processing began.
//  ProcessingCompletedAt – when processing finished (completed or failed).
//  CreatedAt / UpdatedAt – row timestamps (updated_at trigger-maintained).
type FitPassport struct {
	ID                    uint64          // fit_passports.id
	UserID                string          // fit_passports.user_id
	HeightCm              uint16          // fit_passports.height_cm
	WeightKg              *uint16         // fit_passports.weight_kg (nullable)
	Gender                string          // fit_passports.gender
	AvatarURL             *string         // fit_passports.avatar_url (nullable)
	AvatarThumbnailURL    *string         // fit_passports.avatar_thumbnail_url (nullable)
	ChestCm               *uint16         // fit_passports.chest_cm
	WaistCm               *uint16         // fit_passports.waist_cm
	HipsCm                *uint16         // fit_passports.hips_cm
	InseamCm              *uint16         // fit_passports.inseam_cm
	ShoulderWidthCm       *uint16         // fit_passports.shoulder_width_cm
	ArmLengthCm           *uint16         // fit_passports.arm_length_cm
	NeckCm                *uint16         // fit_passports.neck_cm
	ThighCm               *uint16         // fit_passports.thigh_cm
	TorsoLengthCm         *uint16         // fit_passports.torso_length_cm
	Status                string          // fit_passports.status
	PipelineFiles         json.RawMessage // fit_passports.pipeline_files (JSON, nullable)
	ErrorMessage          *string         // fit_passports.error_message
	ProcessingStartedAt   *time.Time      // fit_passports.processing_started_at
	ProcessingCompletedAt *time.Time      // fit_passports.processing_completed_at
	CreatedAt             time.Time       // fit_passports.created_at
	UpdatedAt             time.Time       // fit_passports.updated_at
}

// Measurements groups the user-correctable measurement fields.  A nil
// pointer means "leave unchanged".
type Measurements struct {
	ChestCm         *uint16 `json:"chest"`
	WaistCm         *uint16 `json:"waist"`
	HipsCm          *uint16 `json:"hips"`
	InseamCm        *uint16 `json:"inseam"`
	ShoulderWidthCm *uint16 `json:"shoulder_width"`
	ArmLengthCm     *uint16 `json:"arm_length"`
	NeckCm          *uint16 `json:"neck"`
	ThighCm         *uint16 `json:"thigh"`
	TorsoLengthCm   *uint16 `json:"torso_length"`
}

// Empty reports whether no measurement was provided at all.
func (m Measurements) Empty() bool {
	return m.ChestCm == nil && m.WaistCm == nil && m.HipsCm == nil &&
		m.InseamCm == nil && m.ShoulderWidthCm == nil && m.ArmLengthCm == nil &&
		m.NeckCm == nil && m.ThighCm == nil && m.TorsoLengthCm == nil
}

// ValidGender reports whether g is an accepted gender value.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// ValidStatus reports whether s is a known processing state.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// CanTransition reports whether a passport may move from one processing
// state to another.  Forward flow is pending → processing → completed or
// failed.  A failed passport may be reprocessed, and a completed one may
// be regenerated, so both can return to processing.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed
	case StatusFailed, StatusCompleted:
		return to == StatusProcessing
	}
	return false
}
