package order

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/order/dto"
)

type Repository interface {
	// Writes. Header, charge lines and item lines are separate calls; the
	// writer compensates with Delete when a later step fails.
	Create(ctx context.Context, o *model.Order) error
	InsertChargeLines(ctx context.Context, lines []model.OrderChargeLine) error
	InsertItemLines(ctx context.Context, lines []model.OrderItemLine) error
	Delete(ctx context.Context, id string) error

	// UpdateStatus is a compare-and-set: it only writes when the stored
	// status still equals from, and reports whether it did.
	UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) (bool, error)

	// Reads
	FindByID(ctx context.Context, id string) (*model.Order, error)
	ListItemLines(ctx context.Context, orderID string) ([]model.OrderItemLine, error)
	ListChargeLines(ctx context.Context, orderID string) ([]model.OrderChargeLine, error)
	ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
