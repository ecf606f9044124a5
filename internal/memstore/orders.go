package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/order"
	"github.com/fekuna/omnipos-checkout-service/internal/order/dto"
	"github.com/shopspring/decimal"
)

var errOrderMissing = errors.New("order does not exist")

type Orders struct{ store *Store }

func NewOrders(store *Store) *Orders { return &Orders{store: store} }

var _ order.Repository = (*Orders)(nil)

func (o *Orders) Create(ctx context.Context, ord *model.Order) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	cp := *ord
	cp.Items = nil
	cp.Charges = nil
	o.store.orders[ord.ID] = cp
	o.store.orderKeys = append(o.store.orderKeys, ord.ID)
	return nil
}

func (o *Orders) InsertChargeLines(ctx context.Context, lines []model.OrderChargeLine) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	for _, l := range lines {
		if _, ok := o.store.orders[l.OrderID]; !ok {
			return errOrderMissing
		}
	}
	o.store.chargeLines = append(o.store.chargeLines, lines...)
	return nil
}

func (o *Orders) InsertItemLines(ctx context.Context, lines []model.OrderItemLine) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	for _, l := range lines {
		if _, ok := o.store.orders[l.OrderID]; !ok {
			return errOrderMissing
		}
	}
	o.store.itemLines = append(o.store.itemLines, lines...)
	return nil
}

// Delete removes the header and cascades to its lines, like the FK does in
// Postgres.
func (o *Orders) Delete(ctx context.Context, id string) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	delete(o.store.orders, id)

	keys := o.store.orderKeys[:0]
	for _, k := range o.store.orderKeys {
		if k != id {
			keys = append(keys, k)
		}
	}
	o.store.orderKeys = keys

	charges := o.store.chargeLines[:0]
	for _, l := range o.store.chargeLines {
		if l.OrderID != id {
			charges = append(charges, l)
		}
	}
	o.store.chargeLines = charges

	items := o.store.itemLines[:0]
	for _, l := range o.store.itemLines {
		if l.OrderID != id {
			items = append(items, l)
		}
	}
	o.store.itemLines = items
	return nil
}

func (o *Orders) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) (bool, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	ord, ok := o.store.orders[id]
	if !ok || ord.Status != from {
		return false, nil
	}
	ord.Status = to
	ord.UpdatedAt = o.store.now()
	o.store.orders[id] = ord
	return true, nil
}

func (o *Orders) FindByID(ctx context.Context, id string) (*model.Order, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()
	ord, ok := o.store.orders[id]
	if !ok {
		return nil, nil
	}
	return &ord, nil
}

func (o *Orders) ListItemLines(ctx context.Context, orderID string) ([]model.OrderItemLine, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()
	out := []model.OrderItemLine{}
	for _, l := range o.store.itemLines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (o *Orders) ListChargeLines(ctx context.Context, orderID string) ([]model.OrderChargeLine, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()
	out := []model.OrderChargeLine{}
	for _, l := range o.store.chargeLines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (o *Orders) ListCustomers(ctx context.Context, f *dto.CustomerFilters) ([]model.Customer, int, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()

	byEmail := map[string]*model.Customer{}
	for _, id := range o.store.orderKeys {
		ord := o.store.orders[id]
		contact := model.ContactFromSnapshot(ord.Contact)
		if contact.Email == "" {
			continue
		}
		c, ok := byEmail[contact.Email]
		if !ok {
			c = &model.Customer{Email: contact.Email, TotalSpent: decimal.Zero}
			byEmail[contact.Email] = c
		}
		if !ord.CreatedAt.Before(c.LastOrderAt) {
			c.LastOrderAt = ord.CreatedAt
			if contact.Name != "" {
				c.Name = contact.Name
			}
			if contact.Phone != "" {
				c.Phone = contact.Phone
			}
		}
		c.OrderCount++
		c.TotalSpent = c.TotalSpent.Add(ord.TotalAmount)
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := []model.Customer{}
	for _, c := range byEmail {
		if search != "" && !strings.Contains(c.Email, search) && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastOrderAt.Equal(out[j].LastOrderAt) {
			return out[i].Email < out[j].Email
		}
		return out[i].LastOrderAt.After(out[j].LastOrderAt)
	})
	total := len(out)
	return paginate(out, f.Page, f.PageSize), total, nil
}
