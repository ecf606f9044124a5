package order

import (
	"context"

	invdto "github.com/fekuna/omnipos-checkout-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/order/dto"
)

// Writer persists a priced order header with its charge and item lines as
// one logical unit.
type Writer interface {
	Write(ctx context.Context, draft *dto.OrderDraft) (*model.Order, error)
}

type UseCase interface {
	Writer
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	TransitionStatus(ctx context.Context, id string, status string) (*dto.TransitionResult, error)
	ListMovements(ctx context.Context, filters *invdto.MovementFilters) ([]model.InventoryMovement, int, error)
	ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error)
}
