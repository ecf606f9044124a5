package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-checkout-service/internal/checkout/dto"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/pkg/apperror"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type cartLine struct {
	ProductID   string
	VariantID   *string
	Quantity    int64
	ClientPrice *decimal.Decimal
	SKUHint     string

	UnitPrice   decimal.Decimal
	PriceSource dto.PriceSource // empty when nothing could price the line
}

// normalizeLines drops lines without a product id or with a non-positive
// quantity.
func normalizeLines(items []dto.CartItem) []cartLine {
	lines := make([]cartLine, 0, len(items))
	for _, it := range items {
		productID := strings.TrimSpace(it.ProductID)
		if productID == "" || it.Quantity <= 0 {
			continue
		}
		var variantID *string
		if it.VariantID != nil {
			if v := strings.TrimSpace(*it.VariantID); v != "" {
				variantID = &v
			}
		}
		var sku string
		if hint, ok := it.Metadata["sku"].(string); ok {
			sku = strings.TrimSpace(hint)
		}
		lines = append(lines, cartLine{
			ProductID:   productID,
			VariantID:   variantID,
			Quantity:    it.Quantity,
			ClientPrice: it.UnitPrice,
			SKUHint:     sku,
		})
	}
	return lines
}

func minFinalPrice(rows []model.Inventory) (decimal.Decimal, bool) {
	if len(rows) == 0 {
		return decimal.Zero, false
	}
	best := rows[0].FinalPrice()
	for _, r := range rows[1:] {
		if p := r.FinalPrice(); p.LessThan(best) {
			best = p
		}
	}
	return best, true
}

// reprice fills UnitPrice for every line from inventory. Lookups are
// read-only, so lines are priced concurrently; results keep cart order.
func (uc *checkoutUseCase) reprice(ctx context.Context, lines []cartLine) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.opts.RepriceConcurrency)

	for i := range lines {
		line := &lines[i]
		g.Go(func() error {
			return uc.priceLine(gctx, line)
		})
	}

	if err := g.Wait(); err != nil {
		uc.logger.Error("failed to re-price cart", zap.Error(err))
		return apperror.Internal("failed to load prices", err)
	}
	return nil
}

// priceLine walks the fallback chain: the line's own scope, then any record
// for the product, then the client's claim.
func (uc *checkoutUseCase) priceLine(ctx context.Context, line *cartLine) error {
	rows, err := uc.inventory.FindForPricing(ctx, line.ProductID, line.VariantID)
	if err != nil {
		return err
	}
	if price, ok := minFinalPrice(rows); ok {
		line.UnitPrice, line.PriceSource = price, dto.PriceFromInventory
		return nil
	}

	rows, err = uc.inventory.FindAnyByProduct(ctx, line.ProductID)
	if err != nil {
		return err
	}
	if price, ok := minFinalPrice(rows); ok {
		line.UnitPrice, line.PriceSource = price, dto.PriceFromAnyInventory
		return nil
	}

	if line.ClientPrice != nil && !line.ClientPrice.IsNegative() {
		uc.logger.Warn("no inventory price, accepting client price",
			zap.String("product_id", line.ProductID),
			zap.String("price", line.ClientPrice.String()),
		)
		line.UnitPrice, line.PriceSource = line.ClientPrice.Round(2), dto.PriceFromClient
	}
	return nil
}

func requirePrices(lines []cartLine) error {
	var missing []string
	for _, l := range lines {
		if l.PriceSource == "" {
			missing = append(missing, l.ProductID)
		}
	}
	if len(missing) > 0 {
		return apperror.Validationf(apperror.CodePriceUnavailable,
			"No price available for: %s", strings.Join(missing, ", "))
	}
	return nil
}
