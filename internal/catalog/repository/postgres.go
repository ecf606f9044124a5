package repository

import (
	"context"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

type productRow struct {
	model.Product
	CatID        *string `db:"cat_id"`
	CatName      *string `db:"cat_name"`
	CatIsActive  *bool   `db:"cat_is_active"`
	CatIsDeleted *bool   `db:"cat_is_deleted"`
}

func (r *PGRepository) FindProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT p.id, p.category_id, p.sku, p.name, p.weight, p.is_active, p.is_deleted,
               p.created_at, p.updated_at,
               c.id AS cat_id, c.name AS cat_name,
               c.is_active AS cat_is_active, c.is_deleted AS cat_is_deleted
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id
        WHERE p.id IN (?)
    `, ids)
	if err != nil {
		return nil, err
	}

	// Rebind for Postgres ($1, $2...)
	query = r.DB.Rebind(query)

	var rows []productRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	products := make([]model.Product, len(rows))
	for i, row := range rows {
		p := row.Product
		if row.CatID != nil {
			p.Category = &model.Category{
				BaseModel: model.BaseModel{ID: *row.CatID},
				Name:      deref(row.CatName),
				IsActive:  row.CatIsActive != nil && *row.CatIsActive,
				IsDeleted: row.CatIsDeleted != nil && *row.CatIsDeleted,
			}
		}
		products[i] = p
	}
	return products, nil
}

func (r *PGRepository) FindVariantsByIDs(ctx context.Context, ids []string) ([]model.ProductVariant, error) {
	if len(ids) == 0 {
		return []model.ProductVariant{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT id, product_id, sku, variant_name, weight, is_active, created_at, updated_at
        FROM product_variants
        WHERE id IN (?)
    `, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var variants []model.ProductVariant
	err = r.DB.SelectContext(ctx, &variants, query, args...)
	return variants, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
