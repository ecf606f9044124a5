package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindDeliveryByID(ctx context.Context, id string) (*model.DeliveryOption, error) {
	var option model.DeliveryOption
	query := `SELECT id, label, amount, is_default, is_active FROM delivery_options WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &option, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}

func (r *PGRepository) ListWeightRules(ctx context.Context, deliveryID string) ([]model.WeightRule, error) {
	query := `
        SELECT id, delivery_id, min_weight, max_weight, base_charge, base_weight,
               unit_weight, incremental_charge, rounding, sort_order, is_active
        FROM delivery_weight_rules
        WHERE delivery_id = $1 AND is_active = TRUE
        ORDER BY sort_order ASC, min_weight ASC
    `
	var rules []model.WeightRule
	err := r.DB.SelectContext(ctx, &rules, query, deliveryID)
	return rules, err
}

func (r *PGRepository) FindCouponByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	query := `
        SELECT id, code, calc_type, amount, min_order_amount, valid_from, valid_to, is_active
        FROM coupons
        WHERE UPPER(code) = $1
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &coupon, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *PGRepository) ListActiveCharges(ctx context.Context) ([]model.ChargeOption, error) {
	query := `
        SELECT id, label, calc_type, amount, type, is_active, sort_order
        FROM charge_options
        WHERE is_active = TRUE
        ORDER BY sort_order ASC, id ASC
    `
	var charges []model.ChargeOption
	err := r.DB.SelectContext(ctx, &charges, query)
	return charges, err
}
