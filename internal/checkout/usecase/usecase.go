package usecase

import (
	"bytes"
	"context"
	"strings"

	"github.com/fekuna/omnipos-checkout-service/internal/catalog"
	"github.com/fekuna/omnipos-checkout-service/internal/checkout"
	"github.com/fekuna/omnipos-checkout-service/internal/checkout/dto"
	"github.com/fekuna/omnipos-checkout-service/internal/inventory"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/order"
	orderdto "github.com/fekuna/omnipos-checkout-service/internal/order/dto"
	"github.com/fekuna/omnipos-checkout-service/internal/pricing"
	pricingdto "github.com/fekuna/omnipos-checkout-service/internal/pricing/dto"
	"github.com/fekuna/omnipos-checkout-service/pkg/apperror"
	"github.com/fekuna/omnipos-checkout-service/pkg/logger"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"
)

type Options struct {
	DefaultCurrency    string
	RepriceConcurrency int
}

type checkoutUseCase struct {
	inventory inventory.Repository
	guard     catalog.Guard
	pricing   pricing.UseCase
	writer    order.Writer
	opts      Options
	logger    logger.ZapLogger
}

func NewCheckoutUseCase(
	inv inventory.Repository,
	guard catalog.Guard,
	calc pricing.UseCase,
	writer order.Writer,
	opts Options,
	log logger.ZapLogger,
) checkout.UseCase {
	if opts.RepriceConcurrency < 1 {
		opts.RepriceConcurrency = 1
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "IDR"
	}
	return &checkoutUseCase{
		inventory: inv,
		guard:     guard,
		pricing:   calc,
		writer:    writer,
		opts:      opts,
		logger:    log,
	}
}

// priced is a cart that passed every check and carries authoritative totals.
type priced struct {
	lines    []cartLine
	products map[string]model.Product
	variants map[string]model.ProductVariant
	totals   *pricingdto.Totals
}

// prepare runs everything up to, but not including, the write. Failures
// surface in a fixed order: empty cart, coupon, availability, price, then
// minimum order.
func (uc *checkoutUseCase) prepare(ctx context.Context, input *dto.CheckoutInput) (*priced, error) {
	// 1. Normalize
	lines := normalizeLines(input.Items)
	if len(lines) == 0 {
		return nil, apperror.Validation(apperror.CodeEmptyCart, "Cart is empty")
	}

	// 2. Re-price from inventory
	if err := uc.reprice(ctx, lines); err != nil {
		return nil, err
	}

	// 3. Coupon pre-check
	if input.CouponCode != nil && strings.TrimSpace(*input.CouponCode) != "" {
		if _, err := uc.pricing.LookupCoupon(ctx, *input.CouponCode); err != nil {
			return nil, err
		}
	}

	// 4. Availability
	productIDs := make([]string, 0, len(lines))
	variantRefs := []catalog.VariantRef{}
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
		if l.VariantID != nil {
			variantRefs = append(variantRefs, catalog.VariantRef{ProductID: l.ProductID, VariantID: *l.VariantID})
		}
	}
	products, err := uc.guard.Check(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	variants, err := uc.guard.Variants(ctx, variantRefs)
	if err != nil {
		return nil, err
	}

	if err := requirePrices(lines); err != nil {
		return nil, err
	}

	// 5. Totals
	pricedLines := make([]pricingdto.PricedLine, len(lines))
	for i, l := range lines {
		pricedLines[i] = pricingdto.PricedLine{
			ProductID:  l.ProductID,
			VariantID:  l.VariantID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			UnitWeight: unitWeight(l, products, variants),
		}
	}
	totals, err := uc.pricing.Calculate(ctx, &pricingdto.TotalsInput{
		Lines:      pricedLines,
		DeliveryID: input.DeliveryID,
		CouponCode: input.CouponCode,
	})
	if err != nil {
		return nil, err
	}

	return &priced{lines: lines, products: products, variants: variants, totals: totals}, nil
}

func (uc *checkoutUseCase) Quote(ctx context.Context, input *dto.CheckoutInput) (*dto.Quote, error) {
	p, err := uc.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	quote := &dto.Quote{
		Currency: uc.currency(input.Currency),
		Lines:    make([]dto.QuoteLine, len(p.lines)),
		Totals:   p.totals,
	}
	for i, l := range p.lines {
		quote.Lines[i] = dto.QuoteLine{
			ProductID:   l.ProductID,
			VariantID:   l.VariantID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   lineTotal(l),
			PriceSource: l.PriceSource,
		}
	}
	return quote, nil
}

func (uc *checkoutUseCase) PlaceOrder(ctx context.Context, input *dto.CheckoutInput) (*model.Order, error) {
	p, err := uc.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	charges, err := chargeLines(p.totals)
	if err != nil {
		return nil, apperror.Internal("failed to build charge lines", err)
	}

	o, err := uc.writer.Write(ctx, &orderdto.OrderDraft{
		Currency: uc.currency(input.Currency),
		Subtotal: p.totals.Subtotal,
		Total:    p.totals.Total,
		Contact:  contactSnapshot(input.Contact),
		Notes:    strings.TrimSpace(input.Notes),
		Charges:  charges,
		Items:    itemLines(p),
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("checkout completed",
		zap.String("order_id", o.ID),
		zap.Int("lines", len(p.lines)),
		zap.String("subtotal", p.totals.Subtotal.StringFixed(2)),
		zap.String("total", p.totals.Total.StringFixed(2)),
	)
	return o, nil
}

func (uc *checkoutUseCase) currency(requested string) string {
	if c := strings.ToUpper(strings.TrimSpace(requested)); c != "" {
		return c
	}
	return uc.opts.DefaultCurrency
}

// contactSnapshot keeps the client's blob as-is; anything that is not a
// JSON object is stored as an empty one.
func contactSnapshot(raw []byte) types.JSONText {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return types.JSONText("{}")
	}
	return types.JSONText(trimmed)
}
