package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-checkout-service/internal/catalog"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/pkg/apperror"
	"github.com/fekuna/omnipos-checkout-service/pkg/logger"
	"go.uber.org/zap"
)

// maxNamedOffenders bounds how many product names go into the error message.
const maxNamedOffenders = 3

type availabilityGuard struct {
	repo   catalog.Repository
	logger logger.ZapLogger
}

func NewAvailabilityGuard(repo catalog.Repository, log logger.ZapLogger) catalog.Guard {
	return &availabilityGuard{
		repo:   repo,
		logger: log,
	}
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Check always reads the store; callers must not substitute a cached
// product list, since a product may go inactive between page load and
// submit.
func (g *availabilityGuard) Check(ctx context.Context, productIDs []string) (map[string]model.Product, error) {
	ids := distinct(productIDs)

	products, err := g.repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		g.logger.Error("failed to load products for availability check", zap.Error(err))
		return nil, apperror.Internal("failed to load products", err)
	}

	found := make(map[string]model.Product, len(products))
	for _, p := range products {
		found[p.ID] = p
	}

	var offenders []string
	for _, id := range ids {
		p, ok := found[id]
		if !ok {
			offenders = append(offenders, id)
			continue
		}
		if !p.Sellable() {
			offenders = append(offenders, p.Name)
			delete(found, id)
		}
	}

	if len(offenders) > 0 {
		g.logger.Info("checkout blocked by unavailable products", zap.Strings("products", offenders))
		return nil, apperror.Validation(apperror.CodeProductUnavailable, unavailableMessage(offenders))
	}

	return found, nil
}

func unavailableMessage(names []string) string {
	if len(names) <= maxNamedOffenders {
		return fmt.Sprintf("Some products are no longer available: %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Some products are no longer available: %s and %d more",
		strings.Join(names[:maxNamedOffenders], ", "), len(names)-maxNamedOffenders)
}

func (g *availabilityGuard) Variants(ctx context.Context, refs []catalog.VariantRef) (map[string]model.ProductVariant, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.VariantID)
	}
	ids = distinct(ids)
	if len(ids) == 0 {
		return map[string]model.ProductVariant{}, nil
	}

	variants, err := g.repo.FindVariantsByIDs(ctx, ids)
	if err != nil {
		g.logger.Error("failed to load variants", zap.Error(err))
		return nil, apperror.Internal("failed to load variants", err)
	}

	found := make(map[string]model.ProductVariant, len(variants))
	for _, v := range variants {
		found[v.ID] = v
	}

	var offenders []string
	seen := make(map[catalog.VariantRef]struct{}, len(refs))
	for _, ref := range refs {
		if ref.VariantID == "" {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}

		v, ok := found[ref.VariantID]
		switch {
		case !ok:
			offenders = append(offenders, ref.VariantID)
		case !v.IsActive || v.ProductID != ref.ProductID:
			offenders = append(offenders, v.VariantName)
		}
	}

	if len(offenders) > 0 {
		g.logger.Info("checkout blocked by unavailable variants", zap.Strings("variants", offenders))
		return nil, apperror.Validation(apperror.CodeProductUnavailable, unavailableMessage(offenders))
	}

	return found, nil
}
