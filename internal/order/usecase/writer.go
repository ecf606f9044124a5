package usecase

import (
	"context"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/order/dto"
	"github.com/fekuna/omnipos-checkout-service/pkg/apperror"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"
)

// Write inserts the header, then charge lines, then item lines. If either
// kind of line fails, the header is deleted again so no partial order is
// left behind.
func (uc *orderUseCase) Write(ctx context.Context, draft *dto.OrderDraft) (*model.Order, error) {
	now := uc.opts.Clock().UTC()

	contact := draft.Contact
	if len(contact) == 0 {
		contact = types.JSONText("{}")
	}

	o := &model.Order{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Currency:       draft.Currency,
		SubtotalAmount: draft.Subtotal,
		TotalAmount:    draft.Total,
		Status:         model.StatusPending,
		Contact:        contact,
		Notes:          draft.Notes,
	}

	// 1. Header
	if err := uc.repo.Create(ctx, o); err != nil {
		uc.logger.Error("failed to create order header", zap.Error(err))
		return nil, apperror.Internal("failed to create order", err)
	}

	// 2. Charge lines
	charges := make([]model.OrderChargeLine, len(draft.Charges))
	for i, c := range draft.Charges {
		c.ID = uuid.New().String()
		c.OrderID = o.ID
		c.CreatedAt = now
		if len(c.Metadata) == 0 {
			c.Metadata = types.JSONText("{}")
		}
		charges[i] = c
	}
	if len(charges) > 0 {
		if err := uc.repo.InsertChargeLines(ctx, charges); err != nil {
			uc.logger.Error("failed to insert order charge lines", zap.String("order_id", o.ID), zap.Error(err))
			uc.discard(ctx, o.ID)
			return nil, apperror.Internal("failed to create order", err)
		}
	}

	// 3. Item lines
	items := make([]model.OrderItemLine, len(draft.Items))
	for i, it := range draft.Items {
		it.ID = uuid.New().String()
		it.OrderID = o.ID
		it.CreatedAt = now
		items[i] = it
	}
	if err := uc.repo.InsertItemLines(ctx, items); err != nil {
		uc.logger.Error("failed to insert order item lines", zap.String("order_id", o.ID), zap.Error(err))
		uc.discard(ctx, o.ID)
		return nil, apperror.Internal("failed to create order", err)
	}

	o.Charges = charges
	o.Items = items

	uc.logger.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("total", o.TotalAmount.StringFixed(2)),
		zap.Int("items", len(items)),
	)
	uc.publish(ctx, o.ID, dto.EventOrderCreated, createdPayload(o))

	return o, nil
}

// discard is the compensating delete for a half-written order. It runs on a
// context detached from the caller so a client disconnect cannot skip it.
func (uc *orderUseCase) discard(ctx context.Context, orderID string) {
	uc.logger.Warn("compensating: deleting partially written order", zap.String("order_id", orderID))
	if err := uc.repo.Delete(context.WithoutCancel(ctx), orderID); err != nil {
		uc.logger.Error("compensating delete failed, order left partial",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
	}
}

func createdPayload(o *model.Order) dto.OrderPayload {
	items := make([]dto.OrderItemPayload, len(o.Items))
	for i, it := range o.Items {
		items[i] = dto.OrderItemPayload{ProductID: it.ProductID, VariantID: it.VariantID, Quantity: it.Quantity}
	}
	return dto.OrderPayload{
		ID:       o.ID,
		Status:   string(o.Status),
		Currency: o.Currency,
		Total:    o.TotalAmount,
		Items:    items,
	}
}
