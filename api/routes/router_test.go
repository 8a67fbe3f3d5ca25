package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lipachap/lipachap-backend/internal/cart"
	"github.com/lipachap/lipachap-backend/internal/checkout"
	"github.com/lipachap/lipachap-backend/internal/invoices"
	"github.com/lipachap/lipachap-backend/internal/orders"
	"github.com/lipachap/lipachap-backend/internal/vendors"
	"github.com/lipachap/lipachap-backend/pkg/config"
	"github.com/lipachap/lipachap-backend/pkg/db/models"
	"github.com/lipachap/lipachap-backend/pkg/docrender"
	"github.com/lipachap/lipachap-backend/pkg/enums"
	"github.com/lipachap/lipachap-backend/pkg/logger"
	"github.com/lipachap/lipachap-backend/pkg/pagination"
	"github.com/lipachap/lipachap-backend/pkg/validate"
	"github.com/rs/zerolog"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubVendorService struct{}

func (stubVendorService) Register(ctx context.Context, input vendors.RegisterVendorInput) (*models.Vendor, error) {
	return &models.Vendor{ID: uuid.New(), BusinessName: input.BusinessName}, nil
}

func (stubVendorService) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	return &models.Vendor{ID: id, BusinessName: "Mama Njeri's Kiosk"}, nil
}

type stubPageService struct{}

func (stubPageService) CreatePage(ctx context.Context, input checkout.CreatePageInput) (*models.CheckoutPage, error) {
	panic("unimplemented")
}

func (stubPageService) GetByID(ctx context.Context, id uuid.UUID) (*models.CheckoutPage, error) {
	panic("unimplemented")
}

func (stubPageService) GetBySlug(ctx context.Context, slug string) (*models.CheckoutPage, error) {
	return &models.CheckoutPage{ID: uuid.New(), Title: "Fresh Produce", Slug: slug}, nil
}

func (stubPageService) ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]models.CheckoutPage, error) {
	return nil, nil
}

func (stubPageService) CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	return 2, nil
}

func (stubPageService) ShareURL(page *models.CheckoutPage) string {
	return "https://lipachap.app/pay/" + page.Slug
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, checkoutID uuid.UUID, sessionID string) (*cart.Cart, error) {
	return &cart.Cart{CheckoutPageID: checkoutID, SessionID: sessionID}, nil
}

func (stubCartService) SetQuantity(ctx context.Context, checkoutID uuid.UUID, sessionID string, itemID uuid.UUID, quantity int) (*cart.Cart, error) {
	panic("unimplemented")
}

func (stubCartService) Clear(ctx context.Context, checkoutID uuid.UUID, sessionID string) error {
	return nil
}

func (stubCartService) Summarize(c *cart.Cart, items []models.CatalogItem) cart.Summary {
	return cart.Summary{}
}

type stubOrderService struct{}

func (stubOrderService) Place(ctx context.Context, input orders.PlaceOrderInput) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) ListByPage(ctx context.Context, pageID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	return nil, nil
}

func (stubOrderService) PageLedger(ctx context.Context, pageID uuid.UUID) (orders.Ledger, error) {
	return orders.Ledger{}, nil
}

func (stubOrderService) VendorLedger(ctx context.Context, vendorID uuid.UUID) (orders.Ledger, error) {
	return orders.Ledger{TotalOrders: 3}, nil
}

type stubInvoiceService struct{}

func (stubInvoiceService) GetDraft(ctx context.Context, vendorID uuid.UUID) (*invoices.InvoiceDraft, error) {
	return &invoices.InvoiceDraft{VendorID: vendorID, Number: "INV-1001", Step: enums.InvoiceStepDetails}, nil
}

func (stubInvoiceService) UpdateDetails(ctx context.Context, vendorID uuid.UUID, input invoices.DetailsInput) (*invoices.InvoiceDraft, error) {
	panic("unimplemented")
}

func (stubInvoiceService) AddItem(ctx context.Context, vendorID uuid.UUID) (*invoices.InvoiceDraft, error) {
	panic("unimplemented")
}

func (stubInvoiceService) RemoveItem(ctx context.Context, vendorID, itemID uuid.UUID) (*invoices.InvoiceDraft, error) {
	panic("unimplemented")
}

func (stubInvoiceService) UpdateItem(ctx context.Context, vendorID, itemID uuid.UUID, field, value string) (*invoices.InvoiceDraft, error) {
	panic("unimplemented")
}

func (stubInvoiceService) Advance(ctx context.Context, vendorID uuid.UUID) (*invoices.InvoiceDraft, validate.FieldErrors, error) {
	panic("unimplemented")
}

func (stubInvoiceService) Back(ctx context.Context, vendorID uuid.UUID) (*invoices.InvoiceDraft, error) {
	panic("unimplemented")
}

func (stubInvoiceService) GoTo(ctx context.Context, vendorID uuid.UUID, step enums.InvoiceStep) (*invoices.InvoiceDraft, error) {
	panic("unimplemented")
}

func (stubInvoiceService) ClearDraft(ctx context.Context, vendorID uuid.UUID) (*invoices.InvoiceDraft, error) {
	panic("unimplemented")
}

func (stubInvoiceService) Finalize(ctx context.Context, vendorID uuid.UUID) (*models.Invoice, error) {
	panic("unimplemented")
}

func (stubInvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	panic("unimplemented")
}

func (stubInvoiceService) ListInvoices(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]models.Invoice, error) {
	return nil, nil
}

func (stubInvoiceService) RenderInvoice(ctx context.Context, id uuid.UUID) (*docrender.Rendered, error) {
	panic("unimplemented")
}

func newTestRouter(t *testing.T, dbErr, redisErr error) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{Level: zerolog.ErrorLevel})

	return NewRouter(
		cfg,
		logg,
		stubPinger{err: dbErr},
		stubPinger{err: redisErr},
		prometheus.NewRegistry(),
		stubVendorService{},
		stubPageService{},
		stubCartService{},
		stubOrderService{},
		stubInvoiceService{},
	)
}

func TestHealthLive(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-LipaChap-Env"))
}

func TestHealthReadyReportsDegraded(t *testing.T) {
	r := newTestRouter(t, assert.AnError, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"postgres":"down"`)
	assert.Contains(t, rec.Body.String(), `"redis":"up"`)
}

func TestMetricsEndpointServesRegistry(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterVendorRoute(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	body := strings.NewReader(`{"businessName":"Mama Njeri's Kiosk","ownerName":"Njeri Kamau","phone":"+254700111222"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendors", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var payload struct {
		Data struct {
			BusinessName string `json:"businessName"`
		} `json:"data"`
	}
	raw, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "Mama Njeri's Kiosk", payload.Data.BusinessName)
}

func TestVendorRouteRejectsBadID(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvoiceDraftRoute(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors/"+uuid.NewString()+"/invoice-draft", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "INV-1001")
}

func TestStorefrontIssuesSessionID(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/public/pages/fresh-produce", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	issued := rec.Header().Get("X-Session-Id")
	require.NotEmpty(t, issued)
	_, err := uuid.Parse(issued)
	assert.NoError(t, err)
}

func TestStorefrontEchoesSessionID(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	sessionID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/public/pages/fresh-produce", nil)
	req.Header.Set("X-Session-Id", sessionID)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sessionID, rec.Header().Get("X-Session-Id"))
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
