package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/tryonlabs/fitpassport/internal/model"
)

// PassportRepo provides access to fit_passports.  Every operation is
// scoped to the owning user: the unique key on user_id means one passport
// per user, so the UUID is the natural lookup handle and no query ever
// crosses an ownership boundary.
type PassportRepo struct {
	db *sql.DB
}

// NewPassportRepo returns a new PassportRepo bound to the given database.
func NewPassportRepo(db *sql.DB) *PassportRepo { return &PassportRepo{db: db} }

// ErrPassportExists is returned when a second passport is created for a
// user that already has one.
var ErrPassportExists = errors.New("fit passport already exists")

const passportCols = `id, user_id, height_cm, weight_kg, gender, avatar_url, avatar_thumbnail_url,
chest_cm, waist_cm, hips_cm, inseam_cm, shoulder_width_cm, arm_length_cm, neck_cm, thigh_cm, torso_length_cm,
status, pipeline_files, error_message, processing_started_at, processing_completed_at, created_at, updated_at`

// Create inserts a passport for the user.  The unique key on user_id
// rejects a second row; that duplicate maps to ErrPassportExists.
func (r *PassportRepo) Create(ctx context.Context, userID string, heightCm uint16, weightKg *uint16, gender string) (model.FitPassport, error) {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO fit_passports (user_id, height_cm, weight_kg, gender) VALUES (?,?,?,?)",
		userID, heightCm, weightKg, gender)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.FitPassport{}, ErrPassportExists
		}
		return model.FitPassport{}, err
	}
	return r.GetByUser(ctx, userID)
}

// GetByUser fetches the caller's passport.
func (r *PassportRepo) GetByUser(ctx context.Context, userID string) (model.FitPassport, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+passportCols+" FROM fit_passports WHERE user_id=? LIMIT 1", userID)
	return scanPassport(row)
}

// UpdateMeasurements applies a user-corrected partial measurement update.
// Only non-nil fields change; updated_at is advanced by the DB trigger.
func (r *PassportRepo) UpdateMeasurements(ctx context.Context, userID string, m model.Measurements) (model.FitPassport, error) {
	sets := make([]string, 0, 9)
	args := make([]interface{}, 0, 10)
	add := func(col string, v *uint16) {
		if v != nil {
			sets = append(sets, col+"=?")
			args = append(args, *v)
		}
	}
	add("chest_cm", m.ChestCm)
	add("waist_cm", m.WaistCm)
	add("hips_cm", m.HipsCm)
	add("inseam_cm", m.InseamCm)
	add("shoulder_width_cm", m.ShoulderWidthCm)
	add("arm_length_cm", m.ArmLengthCm)
	add("neck_cm", m.NeckCm)
	add("thigh_cm", m.ThighCm)
	add("torso_length_cm", m.TorsoLengthCm)
	if len(sets) == 0 {
		return r.GetByUser(ctx, userID)
	}
	args = append(args, userID)
	res, err := r.db.ExecContext(ctx,
		"UPDATE fit_passports SET "+strings.Join(sets, ",")+" WHERE user_id=?", args...)
	if err != nil {
		return model.FitPassport{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "no passport" from "values unchanged".
		if _, err := r.GetByUser(ctx, userID); err != nil {
			return model.FitPassport{}, err
		}
	}
	return r.GetByUser(ctx, userID)
}

// StatusUpdate carries a requested status transition plus the results that
// accompany a terminal state.  Results are only applied when the target
// state is 'completed'; ErrorMessage only when it is 'failed'.
type StatusUpdate struct {
	Status        string
	ErrorMessage  *string
	AvatarURL     *string
	ThumbnailURL  *string
	Measurements  *model.Measurements
	PipelineFiles json.RawMessage
}

// Transition moves the passport through its processing flow inside a
// transaction.  The current status is read under FOR UPDATE so two
// concurrent transitions serialize; an illegal move returns
// ErrInvalidTransition and nothing changes.
func (r *PassportRepo) Transition(ctx context.Context, userID string, up StatusUpdate) (model.FitPassport, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.FitPassport{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	if err := tx.QueryRowContext(ctx,
		"SELECT status FROM fit_passports WHERE user_id=? FOR UPDATE", userID).Scan(&current); err != nil {
		return model.FitPassport{}, err
	}
	if !model.CanTransition(current, up.Status) {
		return model.FitPassport{}, ErrInvalidTransition
	}

	now := time.Now().UTC()
	sets := []string{"status=?"}
	args := []interface{}{up.Status}

	switch up.Status {
	case model.StatusProcessing:
		sets = append(sets, "processing_started_at=?", "processing_completed_at=NULL", "error_message=NULL")
		args = append(args, now)
	case model.StatusFailed:
		sets = append(sets, "processing_completed_at=?", "error_message=?")
		args = append(args, now, up.ErrorMessage)
	case model.StatusCompleted:
		sets = append(sets, "processing_completed_at=?", "error_message=NULL")
		args = append(args, now)
		if up.AvatarURL != nil {
			sets = append(sets, "avatar_url=?")
			args = append(args, *up.AvatarURL)
		}
		if up.ThumbnailURL != nil {
			sets = append(sets, "avatar_thumbnail_url=?")
			args = append(args, *up.ThumbnailURL)
		}
		if up.PipelineFiles != nil {
			sets = append(sets, "pipeline_files=?")
			args = append(args, []byte(up.PipelineFiles))
		}
		if m := up.Measurements; m != nil {
			addM := func(col string, v *uint16) {
				if v != nil {
					sets = append(sets, col+"=?")
					args = append(args, *v)
				}
			}
			addM("chest_cm", m.ChestCm)
			addM("waist_cm", m.WaistCm)
			addM("hips_cm", m.HipsCm)
			addM("inseam_cm", m.InseamCm)
			addM("shoulder_width_cm", m.ShoulderWidthCm)
			addM("arm_length_cm", m.ArmLengthCm)
			addM("neck_cm", m.NeckCm)
			addM("thigh_cm", m.ThighCm)
			addM("torso_length_cm", m.TorsoLengthCm)
		}
	}

	args = append(args, userID)
	if _, err := tx.ExecContext(ctx,
		"UPDATE fit_passports SET "+strings.Join(sets, ",")+" WHERE user_id=?", args...); err != nil {
		return model.FitPassport{}, err
	}

	row := tx.QueryRowContext(ctx,
		"SELECT "+passportCols+" FROM fit_passports WHERE user_id=? LIMIT 1", userID)
	p, err := scanPassport(row)
	if err != nil {
		return model.FitPassport{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.FitPassport{}, err
	}
	return p, nil
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanPassport(row rowScanner) (model.FitPassport, error) {
	var (
		p     model.FitPassport
		files []byte
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.HeightCm, &p.WeightKg, &p.Gender, &p.AvatarURL, &p.AvatarThumbnailURL,
		&p.ChestCm, &p.WaistCm, &p.HipsCm, &p.InseamCm, &p.ShoulderWidthCm, &p.ArmLengthCm,
		&p.NeckCm, &p.ThighCm, &p.TorsoLengthCm,
		&p.Status, &files, &p.ErrorMessage, &p.ProcessingStartedAt, &p.ProcessingCompletedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return model.FitPassport{}, err
	}
	if len(files) > 0 {
		p.PipelineFiles = json.RawMessage(files)
	}
	return p, nil
}
