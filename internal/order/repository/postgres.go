package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/order/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
        INSERT INTO orders (
            id, currency, subtotal_amount, total_amount, status,
            contact, notes, created_at, updated_at
        )
        VALUES (
            :id, :currency, :subtotal_amount, :total_amount, :status,
            :contact, :notes, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) InsertChargeLines(ctx context.Context, lines []model.OrderChargeLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
        INSERT INTO order_charge_lines (
            id, order_id, type, calc_type, base_amount, applied_amount,
            delivery_id, coupon_id, charge_option_id, metadata, created_at
        )
        VALUES (
            :id, :order_id, :type, :calc_type, :base_amount, :applied_amount,
            :delivery_id, :coupon_id, :charge_option_id, :metadata, :created_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, lines)
	return err
}

func (r *PGRepository) InsertItemLines(ctx context.Context, lines []model.OrderItemLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
        INSERT INTO order_item_lines (
            id, order_id, product_id, variant_id, product_name, variant_name,
            quantity, unit_price, line_total, sku, created_at
        )
        VALUES (
            :id, :order_id, :product_id, :variant_id, :product_name, :variant_name,
            :quantity, :unit_price, :line_total, :sku, :created_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, lines)
	return err
}

// Delete relies on ON DELETE CASCADE for the line tables.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	return err
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) (bool, error) {
	query := `UPDATE orders SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`
	res, err := r.DB.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	query := `
        SELECT id, currency, subtotal_amount, total_amount, status, contact, notes, created_at, updated_at
        FROM orders WHERE id = $1 LIMIT 1
    `
	err := r.DB.GetContext(ctx, &o, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) ListItemLines(ctx context.Context, orderID string) ([]model.OrderItemLine, error) {
	items := []model.OrderItemLine{}
	query := `SELECT * FROM order_item_lines WHERE order_id = $1 ORDER BY created_at, id`
	err := r.DB.SelectContext(ctx, &items, query, orderID)
	return items, err
}

func (r *PGRepository) ListChargeLines(ctx context.Context, orderID string) ([]model.OrderChargeLine, error) {
	lines := []model.OrderChargeLine{}
	query := `SELECT * FROM order_charge_lines WHERE order_id = $1 ORDER BY created_at, id`
	err := r.DB.SelectContext(ctx, &lines, query, orderID)
	return lines, err
}

// customersCTE groups orders by normalized contact email. Name and phone
// come from the most recent order.
const customersCTE = `
    WITH contacts AS (
        SELECT LOWER(TRIM(contact->>'email')) AS email,
               COALESCE(contact->>'name', '') AS name,
               COALESCE(contact->>'phone', '') AS phone,
               total_amount, created_at
        FROM orders
        WHERE COALESCE(TRIM(contact->>'email'), '') <> ''
    ),
    customers AS (
        SELECT DISTINCT ON (email)
               email, name, phone,
               COUNT(*) OVER w AS order_count,
               SUM(total_amount) OVER w AS total_spent,
               MAX(created_at) OVER w AS last_order_at
        FROM contacts
        WINDOW w AS (PARTITION BY email)
        ORDER BY email, created_at DESC
    )
`

func (r *PGRepository) ListCustomers(ctx context.Context, f *dto.CustomerFilters) ([]model.Customer, int, error) {
	var items []model.Customer
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if s := strings.TrimSpace(f.Search); s != "" {
		conditions = append(conditions, "(email ILIKE :search OR name ILIKE :search)")
		args["search"] = "%" + s + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := customersCTE + "SELECT count(*) FROM customers" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := customersCTE + `
        SELECT email, name, phone, order_count, total_spent, last_order_at
        FROM customers` + whereClause + `
        ORDER BY last_order_at DESC, email`
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}
