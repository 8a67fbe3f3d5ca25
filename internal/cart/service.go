// Package cart holds the per-session cart for a public checkout page.
// Carts live in the key-value store under a (page, session) key and are
// rebuilt from defaults whenever the stored value is missing or mangled.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lipachap/lipachap-backend/pkg/db/models"
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/kv"
	"github.com/lipachap/lipachap-backend/pkg/money"
)

// Keyer builds the storage key for a session cart. The shared Redis
// client satisfies this.
type Keyer interface {
	CartKey(checkoutID, sessionID string) string
}

// Cart maps catalog item ids to requested quantities. Zero-quantity
// entries are dropped on write.
type Cart struct {
	CheckoutPageID uuid.UUID         `json:"checkoutPageId"`
	SessionID      string            `json:"sessionId"`
	Quantities     map[uuid.UUID]int `json:"quantities"`
}

// Line is one priced cart row, resolved against the page catalog.
type Line struct {
	Item     models.CatalogItem
	Quantity int
	Total    decimal.Decimal
}

// Summary is the cart priced against a catalog.
type Summary struct {
	Lines []Line
	Total decimal.Decimal
}

// Service manages session carts.
type Service interface {
	Get(ctx context.Context, checkoutID uuid.UUID, sessionID string) (*Cart, error)
	SetQuantity(ctx context.Context, checkoutID uuid.UUID, sessionID string, itemID uuid.UUID, quantity int) (*Cart, error)
	Clear(ctx context.Context, checkoutID uuid.UUID, sessionID string) error
	Summarize(cart *Cart, items []models.CatalogItem) Summary
}

type service struct {
	store kv.Store
	keys  Keyer
	ttl   time.Duration
}

func NewService(store kv.Store, keys Keyer, ttl time.Duration) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if keys == nil {
		return nil, fmt.Errorf("key builder required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &service{store: store, keys: keys, ttl: ttl}, nil
}

func emptyCart(checkoutID uuid.UUID, sessionID string) *Cart {
	return &Cart{
		CheckoutPageID: checkoutID,
		SessionID:      sessionID,
		Quantities:     map[uuid.UUID]int{},
	}
}

// Get loads the session cart. A missing or unreadable snapshot yields a
// fresh empty cart rather than an error.
func (s *service) Get(ctx context.Context, checkoutID uuid.UUID, sessionID string) (*Cart, error) {
	if checkoutID == uuid.Nil || sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout page and session are required")
	}

	raw, err := s.store.Get(ctx, s.keys.CartKey(checkoutID.String(), sessionID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return emptyCart(checkoutID, sessionID), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil || cart.Quantities == nil {
		return emptyCart(checkoutID, sessionID), nil
	}
	cart.CheckoutPageID = checkoutID
	cart.SessionID = sessionID
	return &cart, nil
}

// SetQuantity writes a quantity for one catalog item, clamping negatives
// to zero. Zero quantities remove the entry.
func (s *service) SetQuantity(ctx context.Context, checkoutID uuid.UUID, sessionID string, itemID uuid.UUID, quantity int) (*Cart, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog item id is required")
	}

	cart, err := s.Get(ctx, checkoutID, sessionID)
	if err != nil {
		return nil, err
	}

	if quantity < 0 {
		quantity = 0
	}
	if quantity == 0 {
		delete(cart.Quantities, itemID)
	} else {
		cart.Quantities[itemID] = quantity
	}

	payload, err := json.Marshal(cart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode cart")
	}
	key := s.keys.CartKey(checkoutID.String(), sessionID)
	if err := s.store.Set(ctx, key, string(payload), s.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save cart")
	}
	return cart, nil
}

// Clear drops the session cart entirely.
func (s *service) Clear(ctx context.Context, checkoutID uuid.UUID, sessionID string) error {
	if checkoutID == uuid.Nil || sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout page and session are required")
	}
	key := s.keys.CartKey(checkoutID.String(), sessionID)
	if err := s.store.Remove(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to clear cart")
	}
	return nil
}

// Summarize prices the cart against the page catalog in display order.
// Cart entries that no longer match a catalog item are ignored.
func (s *service) Summarize(cart *Cart, items []models.CatalogItem) Summary {
	summary := Summary{Total: decimal.Zero}
	if cart == nil {
		return summary
	}
	for _, item := range items {
		qty, ok := cart.Quantities[item.ID]
		if !ok || qty <= 0 {
			continue
		}
		lineTotal := money.LineAmount(decimal.NewFromInt(int64(qty)), item.Price)
		summary.Lines = append(summary.Lines, Line{Item: item, Quantity: qty, Total: lineTotal})
		summary.Total = summary.Total.Add(lineTotal)
	}
	return summary
}
