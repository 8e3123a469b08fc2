package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/tryonlabs/fitpassport/internal/model"
)

// SessionRepo provides access to tryon_sessions.  Session rows outlive
// their owner (user_id nulls out on account deletion) but while the owner
// exists every read and write is scoped to them.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionCols = "id, user_id, session_token, shop_domain, product_id, variant_id, garment_id, sizes_viewed, size_recommended, size_selected, action, created_at"

// Create opens a try-on session.  A duplicate session token maps to
// ErrConflict via the unique key.
func (r *SessionRepo) Create(ctx context.Context, s *model.TryOnSession) error {
	viewed, err := marshalSizes(s.SizesViewed)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tryon_sessions (user_id, session_token, shop_domain, product_id, variant_id, garment_id, sizes_viewed, size_recommended, action)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		s.UserID, s.SessionToken, s.ShopDomain, s.ProductID, s.VariantID, s.GarmentID, viewed, s.SizeRecommended, s.Action)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches a session and verifies ownership.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64, userID string) (model.TryOnSession, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+sessionCols+" FROM tryon_sessions WHERE id=? LIMIT 1", id)
	s, err := scanSession(row)
	if err != nil {
		return model.TryOnSession{}, err
	}
	if s.UserID == nil || *s.UserID != userID {
		return model.TryOnSession{}, ErrForbidden
	}
	return s, nil
}

// ListByUser returns the caller's sessions, newest first.
func (r *SessionRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.TryOnSession, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+sessionCols+" FROM tryon_sessions WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TryOnSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SessionUpdate is a partial update of a session's funnel state.  SizesViewed
// replaces the stored list when non-nil.
type SessionUpdate struct {
	SizesViewed     []string
	SizeRecommended *string
	SizeSelected    *string
	Action          *string
}

// Update records progress on the caller's session.
func (r *SessionRepo) Update(ctx context.Context, id uint64, userID string, up SessionUpdate) (model.TryOnSession, error) {
	if _, err := r.GetByID(ctx, id, userID); err != nil {
		return model.TryOnSession{}, err
	}
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if up.SizesViewed != nil {
		viewed, err := marshalSizes(up.SizesViewed)
		if err != nil {
			return model.TryOnSession{}, err
		}
		sets = append(sets, "sizes_viewed=?")
		args = append(args, viewed)
	}
	if up.SizeRecommended != nil {
		sets = append(sets, "size_recommended=?")
		args = append(args, *up.SizeRecommended)
	}
	if up.SizeSelected != nil {
		sets = append(sets, "size_selected=?")
		args = append(args, *up.SizeSelected)
	}
	if up.Action != nil {
		sets = append(sets, "action=?")
		args = append(args, *up.Action)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE tryon_sessions SET "+strings.Join(sets, ",")+" WHERE id=?", args...); err != nil {
			return model.TryOnSession{}, err
		}
	}
	return r.GetByID(ctx, id, userID)
}

func marshalSizes(sizes []string) (interface{}, error) {
	if sizes == nil {
		return nil, nil
	}
	b, err := json.Marshal(sizes)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func scanSession(row rowScanner) (model.TryOnSession, error) {
	var (
		s      model.TryOnSession
		viewed []byte
	)
	err := row.Scan(&s.ID, &s.UserID, &s.SessionToken, &s.ShopDomain, &s.ProductID, &s.VariantID,
		&s.GarmentID, &viewed, &s.SizeRecommended, &s.SizeSelected, &s.Action, &s.CreatedAt)
	if err != nil {
		return model.TryOnSession{}, err
	}
	if len(viewed) > 0 {
		if err := json.Unmarshal(viewed, &s.SizesViewed); err != nil {
			return model.TryOnSession{}, err
		}
	}
	return s, nil
}
