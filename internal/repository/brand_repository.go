package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/tryonlabs/fitpassport/internal/model"
)

// BrandRepo provides CRUD for brands.  Brand rows have no per-row owner
// column; callers are role-gated at the routing layer instead.
// TODO: brands and garments have no per-row owner check; decide the
// tenancy model (brand account <-> brand row link) before opening the B2B
// surface beyond trusted users.
type BrandRepo struct {
	db *sql.DB
}

// NewBrandRepo returns a new BrandRepo bound to the given database.
func NewBrandRepo(db *sql.DB) *BrandRepo { return &BrandRepo{db: db} }

// ErrDomainExists is returned when the shopify domain is already taken.
var ErrDomainExists = errors.New("shopify domain already exists")

const brandCols = "id, name, shopify_domain, plan_tier, monthly_avatar_limit, avatars_used_this_month, billing_email, stripe_customer_id, status, created_at, updated_at"

// Create inserts a brand and populates its generated ID.
func (r *BrandRepo) Create(ctx context.Context, b *model.Brand) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO brands (name, shopify_domain, plan_tier, monthly_avatar_limit, billing_email, status)
		 VALUES (?,?,?,?,?,?)`,
		b.Name, b.ShopifyDomain, b.PlanTier, b.MonthlyAvatarLimit, b.BillingEmail, b.Status)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDomainExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID fetches a single brand.
func (r *BrandRepo) GetByID(ctx context.Context, id uint64) (model.Brand, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+brandCols+" FROM brands WHERE id=? LIMIT 1", id)
	return scanBrand(row)
}

// List returns all brands ordered by name.
func (r *BrandRepo) List(ctx context.Context) ([]model.Brand, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+brandCols+" FROM brands ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BrandUpdate is a partial brand update; nil fields are left unchanged.
type BrandUpdate struct {
	Name               *string
	ShopifyDomain      *string
	PlanTier           *string
	MonthlyAvatarLimit *uint32
	BillingEmail       *string
	Status             *string
}

// Update applies a partial update.  updated_at advances via trigger.
func (r *BrandRepo) Update(ctx context.Context, id uint64, up BrandUpdate) (model.Brand, error) {
	sets := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)
	if up.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *up.Name)
	}
	if up.ShopifyDomain != nil {
		sets = append(sets, "shopify_domain=?")
		args = append(args, *up.ShopifyDomain)
	}
	if up.PlanTier != nil {
		sets = append(sets, "plan_tier=?")
		args = append(args, *up.PlanTier)
	}
	if up.MonthlyAvatarLimit != nil {
		sets = append(sets, "monthly_avatar_limit=?")
		args = append(args, *up.MonthlyAvatarLimit)
	}
	if up.BillingEmail != nil {
		sets = append(sets, "billing_email=?")
		args = append(args, *up.BillingEmail)
	}
	if up.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, *up.Status)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE brands SET "+strings.Join(sets, ",")+" WHERE id=?", args...); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "1062") {
				return model.Brand{}, ErrDomainExists
			}
			return model.Brand{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a brand; its garments cascade away.
func (r *BrandRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM brands WHERE id=?", id)
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

func scanBrand(row rowScanner) (model.Brand, error) {
	var b model.Brand
	err := row.Scan(&b.ID, &b.Name, &b.ShopifyDomain, &b.PlanTier, &b.MonthlyAvatarLimit,
		&b.AvatarsUsedThisMonth, &b.BillingEmail, &b.StripeCustomerID, &b.Status,
		&b.CreatedAt, &b.UpdatedAt)
	return b, err
}
