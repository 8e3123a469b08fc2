package model

import "time"

// Photo angle values follow the user_photos.photo_type check constraint.
const (
	PhotoTypeFront = "front"
	PhotoTypeSide  = "side"
	PhotoTypeBack  = "back"
)

// UserPhoto references an uploaded image in the private photos storage
// area.  Only the URL is stored here; the binary lives in object storage.
// DeleteAfterProcessing is a privacy flag, not a mechanism; the actual
// removal from storage is an external responsibility.
type UserPhoto struct {
	ID                    uint64    // user_photos.id
	UserID                string    // user_photos.user_id
	FitPassportID         *uint64   // user_photos.fit_passport_id (nullable)
	PhotoURL              string    // user_photos.photo_url
	PhotoType             string    // user_photos.photo_type
	IsProcessed           bool      // user_photos.is_processed
	DeleteAfterProcessing bool      // user_photos.delete_after_processing
	CreatedAt             time.Time // user_photos.created_at
}

// ValidPhotoType reports whether t is an accepted photo_type value.
func ValidPhotoType(t string) bool {
	return t == PhotoTypeFront || t == PhotoTypeSide || t == PhotoTypeBack
}
