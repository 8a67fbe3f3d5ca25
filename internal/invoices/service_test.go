package invoices

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lipachap/lipachap-backend/pkg/db/models"
	"github.com/lipachap/lipachap-backend/pkg/docrender"
	"github.com/lipachap/lipachap-backend/pkg/enums"
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/ident"
	"github.com/lipachap/lipachap-backend/pkg/kv"
	"github.com/lipachap/lipachap-backend/pkg/logger"
	"github.com/lipachap/lipachap-backend/pkg/pagination"
)

type draftKeyer struct{}

func (draftKeyer) DraftKey(vendorID string) string {
	return "lc:draft:" + vendorID
}

type fakeInvoiceRepo struct {
	invoices  map[uuid.UUID]*models.Invoice
	createErr error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: map[uuid.UUID]*models.Invoice{}}
}

func (f *fakeInvoiceRepo) Create(_ context.Context, invoice *models.Invoice) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice, ok := f.invoices[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
	}
	return invoice, nil
}

func (f *fakeInvoiceRepo) ListByVendor(_ context.Context, vendorID uuid.UUID, _ pagination.Params) ([]models.Invoice, error) {
	var out []models.Invoice
	for _, invoice := range f.invoices {
		if invoice.VendorID == vendorID {
			out = append(out, *invoice)
		}
	}
	return out, nil
}

type fakeVendorLookup struct {
	vendor *models.Vendor
}

func (f *fakeVendorLookup) GetByID(_ context.Context, id uuid.UUID) (*models.Vendor, error) {
	if f.vendor == nil || f.vendor.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	return f.vendor, nil
}

type invoiceFixture struct {
	svc    Service
	store  kv.Store
	repo   *fakeInvoiceRepo
	vendor *models.Vendor
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()

	vendor := testVendor()
	store := kv.NewMemoryStore()
	repo := newFakeInvoiceRepo()
	logg := logger.New(logger.Options{Level: zerolog.ErrorLevel})

	svc, err := NewService(Config{
		Repo:             repo,
		Store:            store,
		Keys:             draftKeyer{},
		Vendors:          &fakeVendorLookup{vendor: vendor},
		IDs:              ident.NewSequenceSource(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
		Renderer:         docrender.NewTextRenderer(),
		Logger:           logg,
		DebounceInterval: 10 * time.Millisecond,
		SnapshotTTL:      time.Hour,
	})
	require.NoError(t, err)
	return &invoiceFixture{svc: svc, store: store, repo: repo, vendor: vendor}
}

func (f *invoiceFixture) draftKey() string {
	return draftKeyer{}.DraftKey(f.vendor.ID.String())
}

func completeDraft(t *testing.T, f *invoiceFixture) *InvoiceDraft {
	t.Helper()
	ctx := context.Background()

	draft, err := f.svc.UpdateDetails(ctx, f.vendor.ID, DetailsInput{
		BusinessName:  f.vendor.BusinessName,
		BusinessPhone: f.vendor.Phone,
		ClientName:    "Wanjiku Mwangi",
		ClientPhone:   "0722000111",
		TaxRate:       "16",
	})
	require.NoError(t, err)

	itemID := draft.Items[0].ID
	_, err = f.svc.UpdateItem(ctx, f.vendor.ID, itemID, FieldDescription, "Event catering")
	require.NoError(t, err)
	_, err = f.svc.UpdateItem(ctx, f.vendor.ID, itemID, FieldQuantity, "2")
	require.NoError(t, err)
	draft, err = f.svc.UpdateItem(ctx, f.vendor.ID, itemID, FieldRate, "1000")
	require.NoError(t, err)
	return draft
}

func TestGetDraftDefaultsWhenMissing(t *testing.T) {
	f := newInvoiceFixture(t)

	draft, err := f.svc.GetDraft(context.Background(), f.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-1001", draft.Number)
	assert.Equal(t, f.vendor.BusinessName, draft.BusinessName)
	assert.Equal(t, enums.InvoiceStepDetails, draft.Step)
	require.Len(t, draft.Items, 1)
}

func TestDraftPersistsAfterDebounce(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	completeDraft(t, f)

	assert.Eventually(t, func() bool {
		_, err := f.store.Get(ctx, f.draftKey())
		return err == nil
	}, time.Second, 5*time.Millisecond)

	draft, err := f.svc.GetDraft(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wanjiku Mwangi", draft.ClientName)
	assert.True(t, draft.Subtotal.Equal(decimal.NewFromInt(2000)))
	assert.True(t, draft.TaxAmount.Equal(decimal.NewFromInt(320)))
	assert.True(t, draft.Total.Equal(decimal.NewFromInt(2320)))
}

func TestGetDraftFallsBackOnCorruptSnapshot(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Set(ctx, f.draftKey(), "{definitely not a draft", time.Hour))

	draft, err := f.svc.GetDraft(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, f.vendor.BusinessName, draft.BusinessName)
	require.Len(t, draft.Items, 1)
	assert.True(t, draft.Total.IsZero())
}

func TestDraftSnapshotRoundTrips(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	saved := completeDraft(t, f)
	payload, err := json.Marshal(saved)
	require.NoError(t, err)
	require.NoError(t, f.store.Set(ctx, f.draftKey(), string(payload), time.Hour))

	loaded, err := f.svc.GetDraft(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Number, loaded.Number)
	assert.Equal(t, saved.Items[0].ID, loaded.Items[0].ID)
	assert.True(t, saved.Total.Equal(loaded.Total))
}

func TestClearDraftRegeneratesNumber(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	first, err := f.svc.GetDraft(ctx, f.vendor.ID)
	require.NoError(t, err)

	cleared, err := f.svc.ClearDraft(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.Number, cleared.Number)
	assert.Equal(t, enums.InvoiceStepDetails, cleared.Step)
	require.Len(t, cleared.Items, 1)
	assert.True(t, cleared.Total.IsZero())
}

func TestAdvanceGatedByStepRules(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	// details step fails while the client name is missing
	draft, fieldErrs, err := f.svc.Advance(ctx, f.vendor.ID)
	require.NoError(t, err)
	require.NotNil(t, fieldErrs)
	assert.Equal(t, "Client name is required", fieldErrs["clientName"])
	assert.Equal(t, enums.InvoiceStepDetails, draft.Step)

	completeDraft(t, f)

	draft, fieldErrs, err = f.svc.Advance(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.Empty(t, fieldErrs)
	assert.Equal(t, enums.InvoiceStepItems, draft.Step)

	draft, fieldErrs, err = f.svc.Advance(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.Empty(t, fieldErrs)
	assert.Equal(t, enums.InvoiceStepPreview, draft.Step)

	// preview is terminal
	_, _, err = f.svc.Advance(ctx, f.vendor.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestBackAndGoToMoveFreelyBackward(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	completeDraft(t, f)
	_, _, err := f.svc.Advance(ctx, f.vendor.ID)
	require.NoError(t, err)
	_, _, err = f.svc.Advance(ctx, f.vendor.ID)
	require.NoError(t, err)

	draft, err := f.svc.Back(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.InvoiceStepItems, draft.Step)

	draft, err = f.svc.GoTo(ctx, f.vendor.ID, enums.InvoiceStepDetails)
	require.NoError(t, err)
	assert.Equal(t, enums.InvoiceStepDetails, draft.Step)

	// forward jumps must go through Advance
	_, err = f.svc.GoTo(ctx, f.vendor.ID, enums.InvoiceStepPreview)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestFinalizeStoresInvoiceAndResetsDraft(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	draft := completeDraft(t, f)

	invoice, err := f.svc.Finalize(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Number, invoice.Number)
	assert.Equal(t, "Wanjiku Mwangi", invoice.ClientName)
	assert.True(t, invoice.Subtotal.Equal(decimal.NewFromInt(2000)))
	assert.True(t, invoice.TaxAmount.Equal(decimal.NewFromInt(320)))
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(2320)))
	require.Len(t, invoice.Items, 1)
	assert.Equal(t, "Event catering", invoice.Items[0].Description)
	require.Len(t, f.repo.invoices, 1)

	// the draft cycle starts over with a new number
	next, err := f.svc.GetDraft(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.NotEqual(t, invoice.Number, next.Number)
	assert.True(t, next.Total.IsZero())
}

func TestFinalizeKeepsDraftWhenSaveFails(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	draft := completeDraft(t, f)
	f.repo.createErr = pkgerrors.New(pkgerrors.CodeDependency, "invoice insert failed")

	_, err := f.svc.Finalize(ctx, f.vendor.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())

	// the failed save must not destroy the vendor's work
	kept, err := f.svc.GetDraft(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Number, kept.Number)
	assert.Equal(t, "Wanjiku Mwangi", kept.ClientName)
	assert.True(t, kept.Total.Equal(decimal.NewFromInt(2320)))

	// a retry after the dependency recovers succeeds with the same number
	f.repo.createErr = nil
	invoice, err := f.svc.Finalize(ctx, f.vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Number, invoice.Number)
	require.Len(t, f.repo.invoices, 1)
}

func TestFinalizeRejectsIncompleteDraft(t *testing.T) {
	f := newInvoiceFixture(t)

	_, err := f.svc.Finalize(context.Background(), f.vendor.ID)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.NotNil(t, appErr.Details())
	assert.Empty(t, f.repo.invoices)
}

func TestRenderInvoice(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	completeDraft(t, f)
	invoice, err := f.svc.Finalize(ctx, f.vendor.ID)
	require.NoError(t, err)

	rendered, err := f.svc.RenderInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, rendered.Pages)
	assert.Contains(t, rendered.Filename, "INV_")
	assert.Contains(t, rendered.Pages[0], "Event catering")
	assert.Contains(t, rendered.Pages[0], "KES 2320.00")
}
