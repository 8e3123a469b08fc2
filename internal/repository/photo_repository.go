package repository

import (
	"context"
	"database/sql"

	"github.com/tryonlabs/fitpassport/internal/model"
)

// PhotoRepo provides access to user_photos.  Reads filter by the acting
// identity; mutations load the row first and compare owners, returning
// ErrForbidden when the row belongs to someone else.
type PhotoRepo struct {
	db *sql.DB
}

// NewPhotoRepo returns a new PhotoRepo bound to the given database.
func NewPhotoRepo(db *sql.DB) *PhotoRepo { return &PhotoRepo{db: db} }

const photoCols = "id, user_id, fit_passport_id, photo_url, photo_type, is_processed, delete_after_processing, created_at"

// Create registers an uploaded photo for the user.  The owner column is
// always the acting identity, never caller-supplied.
func (r *PhotoRepo) Create(ctx context.Context, userID string, passportID *uint64, photoURL, photoType string, deleteAfter bool) (model.UserPhoto, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO user_photos (user_id, fit_passport_id, photo_url, photo_type, delete_after_processing) VALUES (?,?,?,?,?)",
		userID, passportID, photoURL, photoType, deleteAfter)
	if err != nil {
		return model.UserPhoto{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.UserPhoto{}, err
	}
	return r.GetByID(ctx, uint64(id), userID)
}

// GetByID fetches a photo and verifies ownership.
func (r *PhotoRepo) GetByID(ctx context.Context, id uint64, userID string) (model.UserPhoto, error) {
	var p model.UserPhoto
	err := r.db.QueryRowContext(ctx,
		"SELECT "+photoCols+" FROM user_photos WHERE id=? LIMIT 1", id).Scan(
		&p.ID, &p.UserID, &p.FitPassportID, &p.PhotoURL, &p.PhotoType,
		&p.IsProcessed, &p.DeleteAfterProcessing, &p.CreatedAt)
	if err != nil {
		return model.UserPhoto{}, err
	}
	if p.UserID != userID {
		return model.UserPhoto{}, ErrForbidden
	}
	return p, nil
}

// ListByUser returns the caller's photos, newest first.
func (r *PhotoRepo) ListByUser(ctx context.Context, userID string) ([]model.UserPhoto, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+photoCols+" FROM user_photos WHERE user_id=? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.UserPhoto{}
	for rows.Next() {
		var p model.UserPhoto
		if err := rows.Scan(&p.ID, &p.UserID, &p.FitPassportID, &p.PhotoURL, &p.PhotoType,
			&p.IsProcessed, &p.DeleteAfterProcessing, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkProcessed flags a photo as processed after the pipeline consumed it.
// The delete_after_processing flag stays as recorded; the actual removal
// from storage is an external responsibility.
func (r *PhotoRepo) MarkProcessed(ctx context.Context, id uint64, userID string) (model.UserPhoto, error) {
	if _, err := r.GetByID(ctx, id, userID); err != nil {
		return model.UserPhoto{}, err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE user_photos SET is_processed=1 WHERE id=?", id); err != nil {
		return model.UserPhoto{}, err
	}
	return r.GetByID(ctx, id, userID)
}

// Delete removes the caller's photo row.
func (r *PhotoRepo) Delete(ctx context.Context, id uint64, userID string) error {
	if _, err := r.GetByID(ctx, id, userID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, "DELETE FROM user_photos WHERE id=?", id)
	return err
}
