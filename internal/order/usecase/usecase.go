package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-checkout-service/internal/inventory"
	invdto "github.com/fekuna/omnipos-checkout-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/order"
	"github.com/fekuna/omnipos-checkout-service/internal/order/dto"
	"github.com/fekuna/omnipos-checkout-service/pkg/apperror"
	"github.com/fekuna/omnipos-checkout-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MissingStockSkip = "skip"
	MissingStockFail = "fail"
)

type Options struct {
	// MissingStockPolicy decides what a status transition does when an
	// order line has no inventory row: "skip" warns, "fail" rolls back.
	MissingStockPolicy string
	LockTTL            time.Duration
	Clock              func() time.Time
}

type orderUseCase struct {
	repo      order.Repository
	inventory inventory.Repository
	publisher order.EventPublisher // optional
	locker    order.Locker         // optional
	opts      Options
	logger    logger.ZapLogger
}

func NewOrderUseCase(
	repo order.Repository,
	inv inventory.Repository,
	publisher order.EventPublisher,
	locker order.Locker,
	opts Options,
	log logger.ZapLogger,
) order.UseCase {
	if opts.MissingStockPolicy != MissingStockFail {
		opts.MissingStockPolicy = MissingStockSkip
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &orderUseCase{
		repo:      repo,
		inventory: inv,
		publisher: publisher,
		locker:    locker,
		opts:      opts,
		logger:    log,
	}
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to load order", err)
	}
	if o == nil {
		return nil, apperror.NotFound(apperror.CodeOrderNotFound, "Order not found")
	}

	items, err := uc.repo.ListItemLines(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to load order items", err)
	}
	charges, err := uc.repo.ListChargeLines(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to load order charges", err)
	}
	o.Items = items
	o.Charges = charges
	return o, nil
}

func (uc *orderUseCase) ListMovements(ctx context.Context, filters *invdto.MovementFilters) ([]model.InventoryMovement, int, error) {
	items, count, err := uc.inventory.ListMovements(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list movements", err)
	}
	return items, count, nil
}

func (uc *orderUseCase) ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error) {
	items, count, err := uc.repo.ListCustomers(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list customers", err)
	}
	return items, count, nil
}

// publish is best effort: the order is already committed, so a broker
// outage is logged and otherwise ignored.
func (uc *orderUseCase) publish(ctx context.Context, key, eventType string, payload any) {
	if uc.publisher == nil {
		return
	}
	event := dto.Event[any]{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   payload,
		Timestamp: uc.opts.Clock().UTC(),
	}
	if err := uc.publisher.Publish(ctx, key, event); err != nil {
		uc.logger.Warn("failed to publish order event",
			zap.String("order_id", key),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
