// Package memstore keeps every repository in process memory. It backs the
// tests and STORE_DRIVER=memory.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
)

// Store is the shared in-memory dataset; the domain repositories are thin
// wrappers around it.
type Store struct {
	mu sync.RWMutex

	categories map[string]model.Category
	products   map[string]model.Product
	variants   map[string]model.ProductVariant

	inventory     map[string]model.Inventory
	inventoryKeys []string // insertion order
	movements     []model.InventoryMovement

	deliveries  map[string]model.DeliveryOption
	weightRules []model.WeightRule
	coupons     map[string]model.Coupon
	charges     []model.ChargeOption

	orders      map[string]model.Order
	orderKeys   []string
	chargeLines []model.OrderChargeLine
	itemLines   []model.OrderItemLine
	locks       map[string]lockEntry
	locksMu     sync.Mutex
	now         func() time.Time
}

type lockEntry struct {
	value     string
	expiresAt time.Time
}

func New() *Store {
	return &Store{
		categories: make(map[string]model.Category),
		products:   make(map[string]model.Product),
		variants:   make(map[string]model.ProductVariant),
		inventory:  make(map[string]model.Inventory),
		deliveries: make(map[string]model.DeliveryOption),
		coupons:    make(map[string]model.Coupon),
		orders:     make(map[string]model.Order),
		locks:      make(map[string]lockEntry),
		now:        time.Now,
	}
}

// Seeding helpers

func (s *Store) PutCategory(c model.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

func (s *Store) PutProduct(p model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Category = nil
	s.products[p.ID] = p
}

func (s *Store) PutVariant(v model.ProductVariant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variants[v.ID] = v
}

func (s *Store) PutInventory(inv model.Inventory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inventory[inv.ID]; !ok {
		s.inventoryKeys = append(s.inventoryKeys, inv.ID)
	}
	s.inventory[inv.ID] = inv
}

func (s *Store) PutDelivery(d model.DeliveryOption, rules ...model.WeightRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries[d.ID] = d
	for _, r := range rules {
		r.DeliveryID = d.ID
		s.weightRules = append(s.weightRules, r)
	}
}

func (s *Store) PutCoupon(c model.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons[c.ID] = c
}

func (s *Store) PutCharge(c model.ChargeOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.charges = append(s.charges, c)
}

// Quantity returns the on-hand quantity of an inventory record.
func (s *Store) Quantity(inventoryID string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventory[inventoryID]
	return inv.Quantity, ok
}

func (s *Store) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// Locker is an in-process stand-in for the Redis order lock.
type Locker struct {
	store *Store
}

func NewLocker(store *Store) *Locker { return &Locker{store: store} }

func (l *Locker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	l.store.locksMu.Lock()
	defer l.store.locksMu.Unlock()
	now := l.store.now()
	if e, ok := l.store.locks[key]; ok && now.Before(e.expiresAt) {
		return false, nil
	}
	l.store.locks[key] = lockEntry{value: value, expiresAt: now.Add(ttl)}
	return true, nil
}

func (l *Locker) ReleaseLock(ctx context.Context, key, value string) error {
	l.store.locksMu.Lock()
	defer l.store.locksMu.Unlock()
	if e, ok := l.store.locks[key]; ok && e.value == value {
		delete(l.store.locks, key)
	}
	return nil
}
