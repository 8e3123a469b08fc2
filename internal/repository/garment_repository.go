package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/tryonlabs/fitpassport/internal/model"
)

// GarmentRepo provides CRUD for garments.  Like brands, garments carry no
// per-row owner restriction; mutation is role-gated at routing.
type GarmentRepo struct {
	db *sql.DB
}

// NewGarmentRepo returns a new GarmentRepo bound to the given database.
func NewGarmentRepo(db *sql.DB) *GarmentRepo { return &GarmentRepo{db: db} }

const garmentCols = "id, brand_id, name, product_id, sizes, size_chart, fit_type, category, created_at, updated_at"

// Create inserts a garment under a brand.  A missing brand surfaces as a
// foreign key failure, which the handler maps to 404.
func (r *GarmentRepo) Create(ctx context.Context, g *model.Garment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO garments (brand_id, name, product_id, sizes, size_chart, fit_type, category)
		 VALUES (?,?,?,?,?,?,?)`,
		g.BrandID, g.Name, g.ProductID, rawOrNil(g.Sizes), rawOrNil(g.SizeChart), g.FitType, g.Category)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// GetByID fetches a single garment.
func (r *GarmentRepo) GetByID(ctx context.Context, id uint64) (model.Garment, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+garmentCols+" FROM garments WHERE id=? LIMIT 1", id)
	return scanGarment(row)
}

// ListByBrand returns a brand's garments ordered by name.
func (r *GarmentRepo) ListByBrand(ctx context.Context, brandID uint64) ([]model.Garment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+garmentCols+" FROM garments WHERE brand_id=? ORDER BY name", brandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Garment{}
	for rows.Next() {
		g, err := scanGarment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GarmentUpdate is a partial garment update; nil fields stay unchanged.
type GarmentUpdate struct {
	Name      *string
	ProductID *string
	Sizes     json.RawMessage
	SizeChart json.RawMessage
	FitType   *string
	Category  *string
}

// Update applies a partial update.  updated_at advances via trigger.
func (r *GarmentRepo) Update(ctx context.Context, id uint64, up GarmentUpdate) (model.Garment, error) {
	sets := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)
	if up.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *up.Name)
	}
	if up.ProductID != nil {
		sets = append(sets, "product_id=?")
		args = append(args, *up.ProductID)
	}
	if up.Sizes != nil {
		sets = append(sets, "sizes=?")
		args = append(args, []byte(up.Sizes))
	}
	if up.SizeChart != nil {
		sets = append(sets, "size_chart=?")
		args = append(args, []byte(up.SizeChart))
	}
	if up.FitType != nil {
		sets = append(sets, "fit_type=?")
		args = append(args, *up.FitType)
	}
	if up.Category != nil {
		sets = append(sets, "category=?")
		args = append(args, *up.Category)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE garments SET "+strings.Join(sets, ",")+" WHERE id=?", args...); err != nil {
			return model.Garment{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a garment.
func (r *GarmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM garments WHERE id=?", id)
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

func rawOrNil(raw json.RawMessage) interface{} {
	if raw == nil {
		return nil
	}
	return []byte(raw)
}

func scanGarment(row rowScanner) (model.Garment, error) {
	var (
		g     model.Garment
		sizes []byte
		chart []byte
	)
	err := row.Scan(&g.ID, &g.BrandID, &g.Name, &g.ProductID, &sizes, &chart,
		&g.FitType, &g.Category, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return model.Garment{}, err
	}
	if len(sizes) > 0 {
		g.Sizes = json.RawMessage(sizes)
	}
	if len(chart) > 0 {
		g.SizeChart = json.RawMessage(chart)
	}
	return g, nil
}
