package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-checkout-service/internal/inventory"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/order/dto"
	"github.com/fekuna/omnipos-checkout-service/pkg/apperror"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
)

var referenceTypeOrder = "order"

// stockDirection is -1 when the move commits stock, +1 when it releases
// stock, and 0 when it stays on the same side.
func stockDirection(from, to model.OrderStatus) int64 {
	switch {
	case !from.HoldsStock() && to.HoldsStock():
		return -1
	case from.HoldsStock() && !to.HoldsStock():
		return 1
	default:
		return 0
	}
}

type lineQuantity struct {
	ProductID string
	VariantID *string
	Quantity  int64
}

// aggregateLines sums quantities per (product, variant), keeping first-seen
// order so adjustments run deterministically.
func aggregateLines(lines []model.OrderItemLine) []lineQuantity {
	index := map[string]int{}
	out := []lineQuantity{}
	for _, l := range lines {
		key := l.ProductID + "\x00"
		if l.VariantID != nil {
			key += *l.VariantID
		}
		if i, ok := index[key]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[key] = len(out)
		out = append(out, lineQuantity{ProductID: l.ProductID, VariantID: l.VariantID, Quantity: l.Quantity})
	}
	return out
}

// TransitionStatus moves an order to status. Status and stock are updated
// without a shared transaction, so each applied stock write is recorded and
// undone, together with the status change, if a later write fails.
func (uc *orderUseCase) TransitionStatus(ctx context.Context, id string, status string) (*dto.TransitionResult, error) {
	target, ok := model.ParseOrderStatus(status)
	if !ok {
		return nil, apperror.Validationf(apperror.CodeInvalidStatus, "Unknown order status %q", status)
	}

	release, err := uc.lockOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	// 1. Load current status
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		uc.logger.Error("failed to load order", zap.String("order_id", id), zap.Error(err))
		return nil, apperror.Internal("failed to load order", err)
	}
	if o == nil {
		return nil, apperror.NotFound(apperror.CodeOrderNotFound, "Order not found")
	}

	result := &dto.TransitionResult{
		Order:       o,
		Adjustments: []dto.StockAdjustment{},
		Warnings:    []dto.Warning{},
	}
	if o.Status == target {
		return result, nil
	}
	if !o.Status.CanTransitionTo(target) {
		return nil, apperror.Validationf(apperror.CodeInvalidTransition,
			"Cannot change order status from %s to %s", o.Status, target)
	}
	from := o.Status

	// 2. Update status
	updated, err := uc.repo.UpdateStatus(ctx, id, from, target)
	if err != nil {
		uc.logger.Error("failed to update order status", zap.String("order_id", id), zap.Error(err))
		return nil, apperror.Internal("failed to update order status", err)
	}
	if !updated {
		return nil, apperror.Conflict(apperror.CodeStatusChanged, "Order status was changed by another request", nil)
	}

	// 3-5. Adjust stock across the reserved boundary
	if direction := stockDirection(from, target); direction != 0 {
		adjustments, warnings, err := uc.adjustStock(ctx, id, direction)
		if err != nil {
			uc.revertStatus(ctx, id, target, from)
			return nil, err
		}
		result.Adjustments = adjustments
		result.Warnings = warnings
	}

	o.Status = target
	o.UpdatedAt = uc.opts.Clock().UTC()
	result.Changed = true

	uc.logger.Info("order status changed",
		zap.String("order_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
		zap.Int("stock_adjustments", len(result.Adjustments)),
		zap.Int("warnings", len(result.Warnings)),
	)
	uc.publish(ctx, id, dto.EventOrderStatusChanged, dto.StatusChangedPayload{
		OrderID: id,
		From:    string(from),
		To:      string(target),
	})

	return result, nil
}

func (uc *orderUseCase) adjustStock(ctx context.Context, orderID string, direction int64) ([]dto.StockAdjustment, []dto.Warning, error) {
	lines, err := uc.repo.ListItemLines(ctx, orderID)
	if err != nil {
		uc.logger.Error("failed to load order lines", zap.String("order_id", orderID), zap.Error(err))
		return nil, nil, apperror.Internal("failed to load order lines", err)
	}

	movementType := model.MovementOrderCommit
	if direction > 0 {
		movementType = model.MovementOrderRelease
	}

	applied := []dto.StockAdjustment{}
	warnings := []dto.Warning{}

	for _, line := range aggregateLines(lines) {
		rec, err := uc.inventory.FindForLine(ctx, line.ProductID, line.VariantID)
		if err != nil {
			uc.rollbackStock(ctx, orderID, applied)
			return nil, nil, apperror.Internal("failed to load inventory", err)
		}
		if rec == nil {
			if uc.opts.MissingStockPolicy == MissingStockFail {
				uc.rollbackStock(ctx, orderID, applied)
				return nil, nil, apperror.Conflict(apperror.CodeMissingInventory,
					fmt.Sprintf("No inventory record for product %s", line.ProductID), nil)
			}
			uc.logger.Warn("no inventory record for order line, skipping stock adjustment",
				zap.String("order_id", orderID),
				zap.String("product_id", line.ProductID),
			)
			warnings = append(warnings, dto.Warning{
				Code:      apperror.CodeMissingInventory,
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				Message:   "No inventory record matched this line; stock was not adjusted",
			})
			continue
		}

		delta := direction * line.Quantity
		movement := uc.newMovement(orderID, line.ProductID, line.VariantID, movementType)
		after, err := uc.inventory.AdjustStockWithMovement(ctx, rec.ID, delta, movement)
		if err != nil {
			uc.logger.Error("stock adjustment failed, rolling back transition",
				zap.String("order_id", orderID),
				zap.String("inventory_id", rec.ID),
				zap.Int64("delta", delta),
				zap.Error(err),
			)
			uc.rollbackStock(ctx, orderID, applied)
			if errors.Is(err, inventory.ErrInsufficientStock) {
				return nil, nil, apperror.Conflict(apperror.CodeInsufficientStock,
					fmt.Sprintf("Insufficient stock for product %s", line.ProductID), err)
			}
			return nil, nil, apperror.Internal("failed to adjust inventory", err)
		}

		applied = append(applied, dto.StockAdjustment{
			InventoryID:    rec.ID,
			ProductID:      line.ProductID,
			VariantID:      line.VariantID,
			QuantityBefore: after.Quantity - delta,
			QuantityAfter:  after.Quantity,
		})
	}

	return applied, warnings, nil
}

// rollbackStock undoes applied adjustments newest first by writing the
// inverse delta.
func (uc *orderUseCase) rollbackStock(ctx context.Context, orderID string, applied []dto.StockAdjustment) {
	ctx = context.WithoutCancel(ctx)
	for i := len(applied) - 1; i >= 0; i-- {
		adj := applied[i]
		delta := adj.QuantityBefore - adj.QuantityAfter
		uc.logger.Warn("compensating: reverting stock adjustment",
			zap.String("order_id", orderID),
			zap.String("inventory_id", adj.InventoryID),
			zap.Int64("delta", delta),
		)
		movement := uc.newMovement(orderID, adj.ProductID, adj.VariantID, model.MovementCompensation)
		if _, err := uc.inventory.AdjustStockWithMovement(ctx, adj.InventoryID, delta, movement); err != nil {
			uc.logger.Error("compensation failed, inventory needs manual review",
				zap.String("order_id", orderID),
				zap.String("inventory_id", adj.InventoryID),
				zap.Int64("quantity_before", adj.QuantityBefore),
				zap.Error(err),
			)
		}
	}
}

func (uc *orderUseCase) revertStatus(ctx context.Context, id string, current, original model.OrderStatus) {
	reverted, err := uc.repo.UpdateStatus(context.WithoutCancel(ctx), id, current, original)
	if err != nil || !reverted {
		uc.logger.Error("compensation failed, order status not reverted",
			zap.String("order_id", id),
			zap.String("status", string(current)),
			zap.String("expected", string(original)),
			zap.Error(err),
		)
		return
	}
	uc.logger.Warn("compensating: order status reverted",
		zap.String("order_id", id),
		zap.String("status", string(original)),
	)
}

func (uc *orderUseCase) newMovement(orderID, productID string, variantID *string, mt model.MovementType) *model.InventoryMovement {
	ref := orderID
	return &model.InventoryMovement{
		ID:            uuid.New().String(),
		ProductID:     productID,
		VariantID:     variantID,
		MovementType:  mt,
		ReferenceType: &referenceTypeOrder,
		ReferenceID:   &ref,
		Notes:         fmt.Sprintf("order %s: %s", orderID, mt),
		CreatedAt:     uc.opts.Clock().UTC(),
	}
}

// lockOrder serializes transitions of one order across service instances.
func (uc *orderUseCase) lockOrder(ctx context.Context, orderID string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}

	key := "lock:order-status:" + orderID
	token := uuid.New().String()

	var lastErr error
	failures := 0
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, token, uc.opts.LockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire order lock", zap.String("order_id", orderID), zap.Error(err))
			lastErr = err
			failures++
		}
		if ok {
			return func() {
				if err := uc.locker.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
					uc.logger.Warn("failed to release order lock", zap.String("order_id", orderID), zap.Error(err))
				}
			}, nil
		}
		if i == lockAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, apperror.Conflict(apperror.CodeOrderBusy, "Order is being updated, please retry", ctx.Err())
		case <-time.After(lockBackoff):
		}
	}

	// A lock store that never answered is an outage, not contention.
	if failures == lockAttempts {
		return nil, apperror.Internal("failed to acquire order lock", lastErr)
	}
	return nil, apperror.Conflict(apperror.CodeOrderBusy, "Order is being updated, please retry", nil)
}
