package memstore

import (
	"context"

	"github.com/fekuna/omnipos-checkout-service/internal/catalog"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
)

type Catalog struct{ store *Store }

func NewCatalog(store *Store) *Catalog { return &Catalog{store: store} }

var _ catalog.Repository = (*Catalog)(nil)

func (c *Catalog) FindProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		p, ok := c.store.products[id]
		if !ok {
			continue
		}
		if p.CategoryID != nil {
			if cat, ok := c.store.categories[*p.CategoryID]; ok {
				cp := cat
				p.Category = &cp
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Catalog) FindVariantsByIDs(ctx context.Context, ids []string) ([]model.ProductVariant, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	out := make([]model.ProductVariant, 0, len(ids))
	for _, id := range ids {
		if v, ok := c.store.variants[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}
