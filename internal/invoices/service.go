// Package invoices drives the invoice builder: a draft held in the
// key-value store, mutated through the three-step wizard and written
// back on a debounce, then finalized into the invoices table.
package invoices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lipachap/lipachap-backend/pkg/db/models"
	"github.com/lipachap/lipachap-backend/pkg/debounce"
	"github.com/lipachap/lipachap-backend/pkg/docrender"
	"github.com/lipachap/lipachap-backend/pkg/enums"
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/ident"
	"github.com/lipachap/lipachap-backend/pkg/kv"
	"github.com/lipachap/lipachap-backend/pkg/logger"
	"github.com/lipachap/lipachap-backend/pkg/money"
	"github.com/lipachap/lipachap-backend/pkg/pagination"
	"github.com/lipachap/lipachap-backend/pkg/validate"
	"github.com/lipachap/lipachap-backend/pkg/wizard"
)

const invoicePrefix = "INV"

// Keyer builds the storage key for a vendor's draft snapshot. The shared
// Redis client satisfies this.
type Keyer interface {
	DraftKey(vendorID string) string
}

// VendorLookup resolves the vendor profile that prefills new drafts.
// The vendors service satisfies this.
type VendorLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

// Service manages invoice drafts and finalized invoices.
type Service interface {
	GetDraft(ctx context.Context, vendorID uuid.UUID) (*InvoiceDraft, error)
	UpdateDetails(ctx context.Context, vendorID uuid.UUID, input DetailsInput) (*InvoiceDraft, error)
	AddItem(ctx context.Context, vendorID uuid.UUID) (*InvoiceDraft, error)
	RemoveItem(ctx context.Context, vendorID, itemID uuid.UUID) (*InvoiceDraft, error)
	UpdateItem(ctx context.Context, vendorID, itemID uuid.UUID, field, value string) (*InvoiceDraft, error)
	Advance(ctx context.Context, vendorID uuid.UUID) (*InvoiceDraft, validate.FieldErrors, error)
	Back(ctx context.Context, vendorID uuid.UUID) (*InvoiceDraft, error)
	GoTo(ctx context.Context, vendorID uuid.UUID, step enums.InvoiceStep) (*InvoiceDraft, error)
	ClearDraft(ctx context.Context, vendorID uuid.UUID) (*InvoiceDraft, error)
	Finalize(ctx context.Context, vendorID uuid.UUID) (*models.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ListInvoices(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]models.Invoice, error)
	RenderInvoice(ctx context.Context, id uuid.UUID) (*docrender.Rendered, error)
}

type service struct {
	repo     Repository
	store    kv.Store
	keys     Keyer
	vendors  VendorLookup
	ids      ident.Source
	renderer docrender.Renderer
	logg     *logger.Logger

	debounceInterval time.Duration
	snapshotTTL      time.Duration

	// mu guards the authoritative drafts and their debouncers. The KV
	// snapshot trails the in-memory draft by up to one debounce interval.
	mu         sync.Mutex
	drafts     map[uuid.UUID]*InvoiceDraft
	debouncers map[uuid.UUID]*debounce.Debouncer
}

// Config bundles the service dependencies.
type Config struct {
	Repo             Repository
	Store            kv.Store
	Keys             Keyer
	Vendors          VendorLookup
	IDs              ident.Source
	Renderer         docrender.Renderer
	Logger           *logger.Logger
	DebounceInterval time.Duration
	SnapshotTTL      time.Duration
}

func NewService(cfg Config) (Service, error) {
	switch {
	case cfg.Repo == nil:
		return nil, fmt.Errorf("invoice repository required")
	case cfg.Store == nil:
		return nil, fmt.Errorf("kv store required")
	case cfg.Keys == nil:
		return nil, fmt.Errorf("key builder required")
	case cfg.Vendors == nil:
		return nil, fmt.Errorf("vendor lookup required")
	case cfg.IDs == nil:
		return nil, fmt.Errorf("id source required")
	case cfg.Renderer == nil:
		return nil, fmt.Errorf("renderer required")
	case cfg.Logger == nil:
		return nil, fmt.Errorf("logger required")
	case cfg.DebounceInterval <= 0:
		return nil, fmt.Errorf("debounce interval must be positive")
	case cfg.SnapshotTTL <= 0:
		return nil, fmt.Errorf("snapshot ttl must be positive")
	}
	return &service{
		repo:             cfg.Repo,
		store:            cfg.Store,
		keys:             cfg.Keys,
		vendors:          cfg.Vendors,
		ids:              cfg.IDs,
		renderer:         cfg.Renderer,
		logg:             cfg.Logger,
		debounceInterval: cfg.DebounceInterval,
		snapshotTTL:      cfg.SnapshotTTL,
		drafts:           map[uuid.UUID]*InvoiceDraft{},
		debouncers:       map[uuid.UUID]*debounce.Debouncer{},
	}, nil
}

// DetailsInput replaces the draft's party and document fields wholesale;
// the builder form submits the complete details section on each edit.
type DetailsInput struct {
	BusinessName  string
	BusinessPhone string
	ClientName    string
	ClientPhone   string
	ClientEmail   string
	IssuedOn      *time.Time
	DueOn         *time.Time
	TaxRate       string
	Notes         string
}

// GetDraft loads the vendor's draft, falling back to a fresh default when
// the snapshot is missing or unreadable.
func (s *service) GetDraft(ctx context.Context, vendorID uuid.UUID) (*InvoiceDraft, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.draftLocked(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return draft.Clone(), nil
}

// draftLocked returns the authoritative draft, loading the snapshot on a
// cache miss. Callers must hold s.mu.
func (s *service) draftLocked(ctx context.Context, vendorID uuid.UUID) (*InvoiceDraft, error) {
	if cached, ok := s.drafts[vendorID]; ok {
		return cached, nil
	}

	raw, err := s.store.Get(ctx, s.keys.DraftKey(vendorID.String()))
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load draft")
	}

	var draft *InvoiceDraft
	if err == nil {
		var snapshot InvoiceDraft
		if unmarshalErr := json.Unmarshal([]byte(raw), &snapshot); unmarshalErr == nil && len(snapshot.Items) > 0 {
			if snapshot.Step == "" {
				snapshot.Step = enums.InvoiceStepDetails
			}
			snapshot.VendorID = vendorID
			draft = &snapshot
		} else {
			s.logg.Warn(s.logg.WithVendorID(ctx, vendorID.String()), "draft snapshot unreadable, resetting to default")
		}
	}
	if draft == nil {
		draft, err = s.defaultDraft(ctx, vendorID)
		if err != nil {
			return nil, err
		}
	}
	s.drafts[vendorID] = draft
	return draft, nil
}

func (s *service) defaultDraft(ctx context.Context, vendorID uuid.UUID) (*InvoiceDraft, error) {
	vendor, err := s.vendors.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	number := s.ids.Reference(invoicePrefix)
	issued := s.ids.Now().Truncate(24 * time.Hour)
	return NewDraft(vendor, number, issued, s.ids.NewID()), nil
}

func (s *service) UpdateDetails(ctx context.Context, vendorID uuid.UUID, input DetailsInput) (*InvoiceDraft, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.draftLocked(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	draft.BusinessName = input.BusinessName
	draft.BusinessPhone = input.BusinessPhone
	draft.ClientName = input.ClientName
	draft.ClientPhone = input.ClientPhone
	draft.ClientEmail = input.ClientEmail
	if input.IssuedOn != nil {
		draft.IssuedOn = *input.IssuedOn
	}
	draft.DueOn = input.DueOn
	draft.TaxRate = money.Parse(input.TaxRate)
	draft.Notes = input.Notes
	draft.recompute()

	s.scheduleSaveLocked(vendorID, draft)
	return draft.Clone(), nil
}

func (s *service) AddItem(ctx context.Context, vendorID uuid.UUID) (*InvoiceDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.draftLocked(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	draft.AddItem(s.ids.NewID())
	s.scheduleSaveLocked(vendorID, draft)
	return draft.Clone(), nil
}

func (s *service) RemoveItem(ctx context.Context, vendorID, itemID uuid.UUID) (*InvoiceDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.draftLocked(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if draft.RemoveItem(itemID) {
		s.scheduleSaveLocked(vendorID, draft)
	}
	return draft.Clone(), nil
}

func (s *service) UpdateItem(ctx context.Context, vendorID, itemID uuid.UUID, field, value string) (*InvoiceDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.draftLocked(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if err := draft.UpdateItem(itemID, field, value); err != nil {
		return nil, err
	}
	s.scheduleSaveLocked(vendorID, draft)
	return draft.Clone(), nil
}

// Advance moves the wizard forward when the current step's ruleset
// passes. Field errors come back as a value for inline display; the
// draft stays on its step when they are non-empty.
func (s *service) Advance(ctx context.Context, vendorID uuid.UUID) (*InvoiceDraft, validate.FieldErrors, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.draftLocked(ctx, vendorID)
	if err != nil {
		return nil, nil, err
	}

	machine, err := s.machineAt(draft.Step)
	if err != nil {
		return nil, nil, err
	}
	fieldErrs, err := machine.Advance(func() validate.FieldErrors {
		return stepGuard(draft.Step, draft)
	})
	if err != nil {
		return nil, nil, err
	}
	if !fieldErrs.Valid() {
		return draft.Clone(), fieldErrs, nil
	}

	draft.Step = machine.Current()
	s.scheduleSaveLocked(vendorID, draft)
	return draft.Clone(), nil, nil
}

func (s *service) Back(ctx context.Context, vendorID uuid.UUID) (*InvoiceDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.draftLocked(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	machine, err := s.machineAt(draft.Step)
	if err != nil {
		return nil, err
	}
	if err := machine.Back(); err != nil {
		return nil, err
	}

	draft.Step = machine.Current()
	s.scheduleSaveLocked(vendorID, draft)
	return draft.Clone(), nil
}

// GoTo jumps back to an earlier step directly; forward jumps are
// rejected so guards always run.
func (s *service) GoTo(ctx context.Context, vendorID uuid.UUID, step enums.InvoiceStep) (*InvoiceDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.draftLocked(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	machine, err := s.machineAt(draft.Step)
	if err != nil {
		return nil, err
	}
	if err := machine.GoTo(step); err != nil {
		return nil, err
	}

	draft.Step = machine.Current()
	s.scheduleSaveLocked(vendorID, draft)
	return draft.Clone(), nil
}

// ClearDraft discards the snapshot and starts over with a fresh invoice
// number.
func (s *service) ClearDraft(ctx context.Context, vendorID uuid.UUID) (*InvoiceDraft, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgetLocked(vendorID)
	if err := s.store.Remove(ctx, s.keys.DraftKey(vendorID.String())); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to clear draft")
	}
	draft, err := s.draftLocked(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return draft.Clone(), nil
}

// Finalize validates the whole draft, stores it as an invoice and starts
// a fresh draft cycle.
func (s *service) Finalize(ctx context.Context, vendorID uuid.UUID) (*models.Invoice, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}

	s.mu.Lock()
	draft, err := s.draftLocked(ctx, vendorID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if fieldErrs := finalizeErrors(draft); !fieldErrs.Valid() {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice is incomplete").WithDetails(fieldErrs)
	}
	draft = draft.Clone()
	s.mu.Unlock()

	invoice := &models.Invoice{
		ID:            s.ids.NewID(),
		VendorID:      vendorID,
		Number:        draft.Number,
		BusinessName:  draft.BusinessName,
		BusinessPhone: draft.BusinessPhone,
		ClientName:    draft.ClientName,
		ClientPhone:   optional(draft.ClientPhone),
		ClientEmail:   optional(draft.ClientEmail),
		IssuedOn:      draft.IssuedOn,
		DueOn:         draft.DueOn,
		Subtotal:      draft.Subtotal,
		TaxRate:       draft.TaxRate,
		TaxAmount:     draft.TaxAmount,
		Total:         draft.Total,
		Notes:         optional(draft.Notes),
	}
	for _, item := range draft.Items {
		row := validate.LineRow{Description: item.Description, Quantity: item.Quantity, Rate: item.Rate}
		if !row.Complete() {
			continue
		}
		invoice.Items = append(invoice.Items, models.InvoiceItemSnapshot{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
		})
	}

	// The cached draft stays authoritative until the invoice is saved, so
	// a failed create leaves the vendor's work intact.
	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.forgetLocked(vendorID)
	s.mu.Unlock()
	if err := s.store.Remove(ctx, s.keys.DraftKey(vendorID.String())); err != nil {
		s.logg.Error(s.logg.WithVendorID(ctx, vendorID.String()), "failed to drop draft after finalize", err)
	}
	return invoice, nil
}

func (s *service) GetInvoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListInvoices(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]models.Invoice, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	return s.repo.ListByVendor(ctx, vendorID, params)
}

// RenderInvoice produces the printable representation of a stored
// invoice.
func (s *service) RenderInvoice(ctx context.Context, id uuid.UUID) (*docrender.Rendered, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := docrender.Document{
		Number:       invoice.Number,
		BusinessName: invoice.BusinessName,
		BusinessInfo: []string{invoice.BusinessPhone},
		ClientName:   invoice.ClientName,
		IssuedOn:     invoice.IssuedOn.Format("2006-01-02"),
		Subtotal:     money.FormatKES(invoice.Subtotal),
		TaxLabel:     fmt.Sprintf("Tax (%s%%)", invoice.TaxRate.String()),
		TaxAmount:    money.FormatKES(invoice.TaxAmount),
		Total:        money.FormatKES(invoice.Total),
	}
	if invoice.ClientPhone != nil {
		doc.ClientInfo = append(doc.ClientInfo, *invoice.ClientPhone)
	}
	if invoice.ClientEmail != nil {
		doc.ClientInfo = append(doc.ClientInfo, *invoice.ClientEmail)
	}
	if invoice.DueOn != nil {
		doc.DueOn = invoice.DueOn.Format("2006-01-02")
	}
	if invoice.Notes != nil {
		doc.Notes = *invoice.Notes
	}
	for _, item := range invoice.Items {
		doc.Lines = append(doc.Lines, docrender.Line{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			Rate:        item.Rate.String(),
			Amount:      money.FormatKES(item.Amount),
		})
	}

	rendered, err := s.renderer.Render(doc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to render invoice")
	}
	return &rendered, nil
}

// machineAt rebuilds the three-step wizard positioned at the persisted
// step.
func (s *service) machineAt(step enums.InvoiceStep) (*wizard.Machine[enums.InvoiceStep], error) {
	machine, err := wizard.New([]enums.InvoiceStep{
		enums.InvoiceStepDetails,
		enums.InvoiceStepItems,
		enums.InvoiceStepPreview,
	})
	if err != nil {
		return nil, err
	}
	if err := machine.Restore(step); err != nil {
		return nil, err
	}
	return machine, nil
}

// scheduleSaveLocked queues a debounced snapshot write; bursts of edits
// collapse to one write per quiet interval. Callers must hold s.mu.
func (s *service) scheduleSaveLocked(vendorID uuid.UUID, draft *InvoiceDraft) {
	payload, err := json.Marshal(draft)
	if err != nil {
		s.logg.Error(context.Background(), "failed to encode draft snapshot", err)
		return
	}
	key := s.keys.DraftKey(vendorID.String())

	d, ok := s.debouncers[vendorID]
	if !ok {
		d = debounce.New(s.debounceInterval)
		s.debouncers[vendorID] = d
	}
	d.Trigger(func() {
		ctx := s.logg.WithVendorID(context.Background(), vendorID.String())
		if err := s.store.Set(ctx, key, string(payload), s.snapshotTTL); err != nil {
			s.logg.Error(ctx, "failed to write draft snapshot", err)
		}
	})
}

// forgetLocked drops the cached draft and cancels any pending snapshot
// write. Callers must hold s.mu.
func (s *service) forgetLocked(vendorID uuid.UUID) {
	delete(s.drafts, vendorID)
	if d, ok := s.debouncers[vendorID]; ok {
		d.Stop()
		delete(s.debouncers, vendorID)
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
