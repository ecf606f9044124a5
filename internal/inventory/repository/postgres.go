package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-checkout-service/internal/inventory"
	"github.com/fekuna/omnipos-checkout-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const inventoryColumns = `id, product_id, variant_id, quantity, sale_price, discount_type, discount_value, unit, updated_at`

const movementColumns = `id, inventory_id, product_id, variant_id, movement_type, quantity_change, quantity_before,
        quantity_after, reference_type, reference_id, notes, created_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func scopeQuery(base string, productID string, variantID *string) (string, []interface{}) {
	args := []interface{}{productID}
	if variantID != nil && *variantID != "" {
		base += ` AND variant_id = $2`
		args = append(args, *variantID)
	} else {
		base += ` AND variant_id IS NULL`
	}
	return base, args
}

func (r *PGRepository) FindForPricing(ctx context.Context, productID string, variantID *string) ([]model.Inventory, error) {
	query, args := scopeQuery(`SELECT `+inventoryColumns+` FROM inventory WHERE product_id = $1`, productID, variantID)
	query += ` ORDER BY id`

	var items []model.Inventory
	err := r.DB.SelectContext(ctx, &items, query, args...)
	return items, err
}

func (r *PGRepository) FindAnyByProduct(ctx context.Context, productID string) ([]model.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE product_id = $1 ORDER BY id`

	var items []model.Inventory
	err := r.DB.SelectContext(ctx, &items, query, productID)
	return items, err
}

func (r *PGRepository) FindForLine(ctx context.Context, productID string, variantID *string) (*model.Inventory, error) {
	query, args := scopeQuery(`SELECT `+inventoryColumns+` FROM inventory WHERE product_id = $1`, productID, variantID)
	query += ` ORDER BY id LIMIT 1`

	var inv model.Inventory
	err := r.DB.GetContext(ctx, &inv, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// AdjustStockWithMovement applies delta with a single conditional UPDATE so
// concurrent orders cannot oversell, then logs the movement in the same
// transaction.
func (r *PGRepository) AdjustStockWithMovement(ctx context.Context, inventoryID string, delta int64, movement *model.InventoryMovement) (*model.Inventory, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1. Update Inventory
	var inv model.Inventory
	updateQuery := `
        UPDATE inventory
        SET quantity = quantity + $1, updated_at = NOW()
        WHERE id = $2 AND quantity + $1 >= 0
        RETURNING ` + inventoryColumns
	err = tx.GetContext(ctx, &inv, updateQuery, delta, inventoryID)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM inventory WHERE id = $1)`, inventoryID); err != nil {
			return nil, fmt.Errorf("failed to check inventory: %w", err)
		}
		if !exists {
			return nil, inventory.ErrNotFound
		}
		return nil, inventory.ErrInsufficientStock
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}

	// 2. Log Movement
	movement.InventoryID = inv.ID
	movement.QuantityChange = delta
	movement.QuantityBefore = inv.Quantity - delta
	movement.QuantityAfter = inv.Quantity

	insertLogQuery := `
        INSERT INTO inventory_movements (
            id, inventory_id, product_id, variant_id,
            movement_type, quantity_change, quantity_before, quantity_after,
            reference_type, reference_id, notes, created_at
        )
        VALUES (
            :id, :inventory_id, :product_id, :variant_id,
            :movement_type, :quantity_change, :quantity_before, :quantity_after,
            :reference_type, :reference_id, :notes, :created_at
        )
    `
	_, err = tx.NamedExecContext(ctx, insertLogQuery, movement)
	if err != nil {
		return nil, fmt.Errorf("failed to log movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListMovements returns the movement history oldest first, so an order's
// commit, release and compensation rows read in the order they happened.
func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	where := []string{"1 = 1"}
	args := map[string]interface{}{}

	if f.ReferenceID != "" {
		where = append(where, "reference_id = :reference_id")
		args["reference_id"] = f.ReferenceID
	}
	if f.ProductID != "" {
		where = append(where, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		where = append(where, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	filter := " WHERE " + strings.Join(where, " AND ")

	var total int
	countStmt, err := r.DB.PrepareNamedContext(ctx, "SELECT COUNT(*) FROM inventory_movements"+filter)
	if err != nil {
		return nil, 0, err
	}
	defer countStmt.Close()
	if err := countStmt.GetContext(ctx, &total, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + movementColumns + " FROM inventory_movements" + filter + " ORDER BY created_at ASC, id ASC"
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listStmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer listStmt.Close()

	movements := []model.InventoryMovement{}
	if err := listStmt.SelectContext(ctx, &movements, args); err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}
