package checkout

import (
	"context"

	"github.com/fekuna/omnipos-checkout-service/internal/checkout/dto"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
)

type UseCase interface {
	// Quote prices a cart the same way PlaceOrder does, without writing.
	Quote(ctx context.Context, input *dto.CheckoutInput) (*dto.Quote, error)
	PlaceOrder(ctx context.Context, input *dto.CheckoutInput) (*model.Order, error)
}
