package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/tryonlabs/fitpassport/internal/model"
	"github.com/tryonlabs/fitpassport/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userCols = "id,email,password_hash,full_name,phone,country,city,user_type,is_active,created_at,updated_at"

// Create inserts the credential and profile row in one statement; the
// caller supplies the identity UUID that every user-scoped table will
// reference.
func (r *UserRepo) Create(ctx context.Context, id, email, password, fullName, userType string, cost int) error {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, full_name, user_type) VALUES (?,?,?,?,?)",
		id, email, hash, fullName, userType)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx, "SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by its UUID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.scanOne(ctx, "SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
}

// EnsureProfile recreates a minimal profile row for an identity that has a
// valid token but no row, mirroring the client-side create-if-absent
// fallback from the original bootstrap design. The inserted row has no
// usable credential; the account must go through password reset to log in
// again.
func (r *UserRepo) EnsureProfile(ctx context.Context, id, email string) (model.User, error) {
	u, err := r.GetByID(ctx, id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, user_type) VALUES (?,?,'',?)",
		id, strings.ToLower(strings.TrimSpace(email)), model.UserTypeShopper)
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "1062") {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// ProfileUpdate lists the caller-editable profile fields. Nil means leave
// the column unchanged.
type ProfileUpdate struct {
	FullName *string
	Phone    *string
	Country  *string
	City     *string
}

// UpdateProfile applies a partial profile update to the caller's own row.
// updated_at is advanced by the database trigger, not here.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, up ProfileUpdate) (model.User, error) {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if up.FullName != nil {
		sets = append(sets, "full_name=?")
		args = append(args, *up.FullName)
	}
	if up.Phone != nil {
		sets = append(sets, "phone=?")
		args = append(args, *up.Phone)
	}
	if up.Country != nil {
		sets = append(sets, "country=?")
		args = append(args, *up.Country)
	}
	if up.City != nil {
		sets = append(sets, "city=?")
		args = append(args, *up.City)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(sets, ",")+" WHERE id=?", args...); err != nil {
			return model.User{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes the user row. Passports, photos and refresh tokens
// cascade away; try-on sessions and analytics events survive with their
// owner reference nulled, per the schema's delete rules.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Country,
		&u.City, &u.UserType, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
