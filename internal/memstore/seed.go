package memstore

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fekuna/omnipos-checkout-service/internal/model"
)

// Seed is the JSON layout accepted by LoadSeed.
type Seed struct {
	Categories []model.Category       `json:"categories"`
	Products   []model.Product        `json:"products"`
	Variants   []model.ProductVariant `json:"variants"`
	Inventory  []model.Inventory      `json:"inventory"`
	Deliveries []SeedDelivery         `json:"deliveries"`
	Coupons    []model.Coupon         `json:"coupons"`
	Charges    []model.ChargeOption   `json:"charges"`
}

type SeedDelivery struct {
	model.DeliveryOption
	Rules []model.WeightRule `json:"rules"`
}

// LoadSeed decodes a Seed from r and puts every record into the store.
func (s *Store) LoadSeed(r io.Reader) (int, error) {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return 0, fmt.Errorf("decode seed: %w", err)
	}

	for _, c := range seed.Categories {
		s.PutCategory(c)
	}
	for _, p := range seed.Products {
		s.PutProduct(p)
	}
	for _, v := range seed.Variants {
		s.PutVariant(v)
	}
	for _, inv := range seed.Inventory {
		s.PutInventory(inv)
	}
	for _, d := range seed.Deliveries {
		s.PutDelivery(d.DeliveryOption, d.Rules...)
	}
	for _, c := range seed.Coupons {
		s.PutCoupon(c)
	}
	for _, c := range seed.Charges {
		s.PutCharge(c)
	}

	return len(seed.Categories) + len(seed.Products) + len(seed.Variants) + len(seed.Inventory) +
		len(seed.Deliveries) + len(seed.Coupons) + len(seed.Charges), nil
}

func (s *Store) LoadSeedFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return s.LoadSeed(f)
}
