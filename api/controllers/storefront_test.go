package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lipachap/lipachap-backend/api/middleware"
	cartsvc "github.com/lipachap/lipachap-backend/internal/cart"
	checkoutsvc "github.com/lipachap/lipachap-backend/internal/checkout"
	"github.com/lipachap/lipachap-backend/internal/orders"
	"github.com/lipachap/lipachap-backend/pkg/db/models"
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/kv"
	"github.com/lipachap/lipachap-backend/pkg/logger"
	"github.com/lipachap/lipachap-backend/pkg/pagination"
)

type stubPages struct {
	page *models.CheckoutPage
	err  error
}

func (s stubPages) CreatePage(ctx context.Context, input checkoutsvc.CreatePageInput) (*models.CheckoutPage, error) {
	panic("unimplemented")
}

func (s stubPages) GetByID(ctx context.Context, id uuid.UUID) (*models.CheckoutPage, error) {
	panic("unimplemented")
}

func (s stubPages) GetBySlug(ctx context.Context, slug string) (*models.CheckoutPage, error) {
	return s.page, s.err
}

func (s stubPages) ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]models.CheckoutPage, error) {
	return nil, nil
}

func (s stubPages) CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	return 0, nil
}

func (s stubPages) ShareURL(page *models.CheckoutPage) string {
	return "https://lipachap.app/pay/" + page.Slug
}

type stubOrders struct {
	placed *orders.PlaceOrderInput
}

func (s *stubOrders) Place(ctx context.Context, input orders.PlaceOrderInput) (*models.Order, error) {
	s.placed = &input
	return &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "LC-1001",
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		TotalAmount:   input.Summary.Total,
	}, nil
}

func (s *stubOrders) ListByPage(ctx context.Context, pageID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrders) PageLedger(ctx context.Context, pageID uuid.UUID) (orders.Ledger, error) {
	return orders.Ledger{}, nil
}

func (s *stubOrders) VendorLedger(ctx context.Context, vendorID uuid.UUID) (orders.Ledger, error) {
	return orders.Ledger{}, nil
}

type storefrontKeyer struct{}

func (storefrontKeyer) CartKey(checkoutID, sessionID string) string {
	return "cart:" + checkoutID + ":" + sessionID
}

func freshProducePage() *models.CheckoutPage {
	return &models.CheckoutPage{
		ID:             uuid.New(),
		VendorID:       uuid.New(),
		Title:          "Fresh Produce",
		Slug:           "fresh-produce",
		PaymentMethods: []string{"mpesa"},
		Items: []models.CatalogItem{
			{ID: uuid.New(), Name: "Sukuma wiki bundle", Price: decimal.NewFromInt(50)},
			{ID: uuid.New(), Name: "Tomato crate", Price: decimal.NewFromInt(200)},
		},
	}
}

func newStorefront(t *testing.T, pages stubPages, placed *stubOrders) (*Storefront, cartsvc.Service) {
	t.Helper()
	carts, err := cartsvc.NewService(kv.NewMemoryStore(), storefrontKeyer{}, time.Hour)
	require.NoError(t, err)
	return &Storefront{
		Pages:  pages,
		Carts:  carts,
		Orders: placed,
		Logger: logger.New(logger.Options{Level: zerolog.ErrorLevel}),
	}, carts
}

func mountStorefront(s *Storefront) http.Handler {
	r := chi.NewRouter()
	r.Route("/pages/{slug}", func(r chi.Router) {
		r.Get("/", s.GetPage())
		r.Put("/cart/items/{itemID}", s.SetCartQuantity())
		r.Post("/checkout", s.Checkout())
	})
	return r
}

func withSession(req *http.Request, sessionID string) *http.Request {
	return req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
}

func TestStorefrontGetPageUnknownSlug(t *testing.T) {
	s, _ := newStorefront(t, stubPages{err: pkgerrors.New(pkgerrors.CodeNotFound, "checkout page not found")}, &stubOrders{})
	handler := mountStorefront(s)

	req := withSession(httptest.NewRequest(http.MethodGet, "/pages/nope", nil), uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestStorefrontCheckoutFlow(t *testing.T) {
	page := freshProducePage()
	placed := &stubOrders{}
	s, _ := newStorefront(t, stubPages{page: page}, placed)
	handler := mountStorefront(s)
	sessionID := uuid.NewString()

	// put one tomato crate and one sukuma bundle in the cart
	for _, item := range page.Items {
		body := strings.NewReader(`{"quantity":1}`)
		req := withSession(httptest.NewRequest(http.MethodPut, "/pages/fresh-produce/cart/items/"+item.ID.String(), body), sessionID)
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	}

	body := strings.NewReader(`{"customerName":"Wanjiku Mwangi","customerPhone":"+254700111222","paymentMethod":"mpesa"}`)
	req := withSession(httptest.NewRequest(http.MethodPost, "/pages/fresh-produce/checkout", body), sessionID)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	require.NotNil(t, placed.placed)
	assert.Equal(t, "250", placed.placed.Summary.Total.String())

	var envelope struct {
		Data struct {
			ShareText    string `json:"shareText"`
			WhatsappLink string `json:"whatsappLink"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Contains(t, envelope.Data.ShareText, "LC-1001")
	assert.True(t, strings.HasPrefix(envelope.Data.WhatsappLink, "https://wa.me/"), envelope.Data.WhatsappLink)

	// the cart is cleared after checkout
	req = withSession(httptest.NewRequest(http.MethodGet, "/pages/fresh-produce", nil), sessionID)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var pageEnvelope struct {
		Data struct {
			Cart struct {
				Total decimal.Decimal `json:"total"`
			} `json:"cart"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pageEnvelope))
	assert.True(t, pageEnvelope.Data.Cart.Total.IsZero(), pageEnvelope.Data.Cart.Total.String())
}

func TestStorefrontCheckoutRejectsMissingCustomer(t *testing.T) {
	page := freshProducePage()
	s, _ := newStorefront(t, stubPages{page: page}, &stubOrders{})
	handler := mountStorefront(s)

	body := strings.NewReader(`{"paymentMethod":"mpesa"}`)
	req := withSession(httptest.NewRequest(http.MethodPost, "/pages/fresh-produce/checkout", body), uuid.NewString())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}
