// Package orders appends settled checkout payments to the order log and
// answers ledger questions over it. Totals are recomputed from the full
// order collection on every read rather than kept as running counters.
package orders

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lipachap/lipachap-backend/internal/cart"
	"github.com/lipachap/lipachap-backend/internal/payments"
	"github.com/lipachap/lipachap-backend/pkg/db/models"
	"github.com/lipachap/lipachap-backend/pkg/enums"
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/ident"
	"github.com/lipachap/lipachap-backend/pkg/metrics"
	"github.com/lipachap/lipachap-backend/pkg/pagination"
	"github.com/lipachap/lipachap-backend/pkg/validate"
)

const orderPrefix = "LC"

// Ledger is the aggregate view over a set of orders.
type Ledger struct {
	TotalOrders  int
	TotalRevenue decimal.Decimal
}

// PlaceOrderInput carries everything needed to settle a checkout.
type PlaceOrderInput struct {
	Page          *models.CheckoutPage
	Summary       cart.Summary
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	PaymentMethod string
}

// Service settles checkouts into orders and aggregates the ledger.
type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	ListByPage(ctx context.Context, pageID uuid.UUID, params pagination.Params) ([]models.Order, error)
	PageLedger(ctx context.Context, pageID uuid.UUID) (Ledger, error)
	VendorLedger(ctx context.Context, vendorID uuid.UUID) (Ledger, error)
}

type service struct {
	repo      Repository
	processor payments.Processor
	ids       ident.Source
	metrics   *metrics.PaymentMetrics
}

// NewService wires the order service. metrics may be nil.
func NewService(repo Repository, processor payments.Processor, ids ident.Source, m *metrics.PaymentMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if processor == nil {
		return nil, fmt.Errorf("payment processor required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id source required")
	}
	return &service{repo: repo, processor: processor, ids: ids, metrics: m}, nil
}

// Place charges the cart total through the simulated processor and
// appends the resulting order. Line items snapshot the catalog name and
// price at payment time.
func (s *service) Place(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if input.Page == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout page is required")
	}

	fe := validate.FieldErrors{}
	validate.RequireString(fe, "customerName", "Name", input.CustomerName)
	validate.RequireString(fe, "customerPhone", "Phone", input.CustomerPhone)

	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		fe.Add("paymentMethod", "Payment method is invalid")
	} else if !slices.Contains(input.Page.PaymentMethods, method.String()) {
		fe.Add("paymentMethod", "Payment method is not accepted on this page")
	}

	if len(input.Summary.Lines) == 0 {
		fe.Add("cart", "Cart is empty")
	}
	if !fe.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout is incomplete").WithDetails(fe)
	}

	receipt, err := s.processor.Charge(ctx, payments.ChargeRequest{
		Method: method,
		Amount: input.Summary.Total,
		Phone:  strings.TrimSpace(input.CustomerPhone),
	})
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:             s.ids.NewID(),
		CheckoutPageID: input.Page.ID,
		OrderNumber:    s.ids.Reference(orderPrefix),
		CustomerName:   strings.TrimSpace(input.CustomerName),
		CustomerPhone:  strings.TrimSpace(input.CustomerPhone),
		CustomerEmail:  input.CustomerEmail,
		TotalAmount:    receipt.Amount,
		PaymentMethod:  receipt.Method,
		TransactionID:  receipt.TransactionID,
		PlacedAt:       receipt.SettledAt,
	}
	for _, line := range input.Summary.Lines {
		itemID := line.Item.ID
		order.Items = append(order.Items, models.OrderLineItem{
			ID:            s.ids.NewID(),
			OrderID:       order.ID,
			CatalogItemID: &itemID,
			Name:          line.Item.Name,
			UnitPrice:     line.Item.Price,
			Qty:           line.Quantity,
			LineTotal:     line.Total,
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncOrder(order.PaymentMethod.String())
	}
	return order, nil
}

func (s *service) ListByPage(ctx context.Context, pageID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	if pageID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout page id is required")
	}
	return s.repo.ListByPage(ctx, pageID, params)
}

func (s *service) PageLedger(ctx context.Context, pageID uuid.UUID) (Ledger, error) {
	if pageID == uuid.Nil {
		return Ledger{}, pkgerrors.New(pkgerrors.CodeValidation, "checkout page id is required")
	}
	all, err := s.repo.AllByPage(ctx, pageID)
	if err != nil {
		return Ledger{}, err
	}
	return aggregate(all), nil
}

func (s *service) VendorLedger(ctx context.Context, vendorID uuid.UUID) (Ledger, error) {
	if vendorID == uuid.Nil {
		return Ledger{}, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	all, err := s.repo.AllByVendor(ctx, vendorID)
	if err != nil {
		return Ledger{}, err
	}
	return aggregate(all), nil
}

func aggregate(all []models.Order) Ledger {
	ledger := Ledger{TotalRevenue: decimal.Zero}
	for _, order := range all {
		ledger.TotalOrders++
		ledger.TotalRevenue = ledger.TotalRevenue.Add(order.TotalAmount)
	}
	return ledger
}
