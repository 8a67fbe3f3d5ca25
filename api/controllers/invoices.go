package controllers

import (
	"net/http"
	"time"

	"github.com/lipachap/lipachap-backend/api/responses"
	"github.com/lipachap/lipachap-backend/api/validators"
	"github.com/lipachap/lipachap-backend/internal/invoices"
	"github.com/lipachap/lipachap-backend/pkg/enums"
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/logger"
	"github.com/lipachap/lipachap-backend/pkg/money"
	"github.com/lipachap/lipachap-backend/pkg/share"
	"github.com/lipachap/lipachap-backend/pkg/validate"
)

// InvoiceBuilder exposes the invoice draft wizard and the finalized
// invoice registry.
type InvoiceBuilder struct {
	Invoices invoices.Service
	Logger   *logger.Logger
}

func (b *InvoiceBuilder) GetDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.ParseUUIDParam(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		draft, err := b.Invoices.GetDraft(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

type DraftDetailsBody struct {
	BusinessName  string  `json:"businessName" validate:"max=120"`
	BusinessPhone string  `json:"businessPhone" validate:"max=20"`
	ClientName    string  `json:"clientName" validate:"max=120"`
	ClientPhone   string  `json:"clientPhone" validate:"max=20"`
	ClientEmail   string  `json:"clientEmail" validate:"omitempty,email"`
	IssuedOn      *string `json:"issuedOn"`
	DueOn         *string `json:"dueOn"`
	TaxRate       string  `json:"taxRate" validate:"max=10"`
	Notes         string  `json:"notes" validate:"max=1000"`
}

func (b *InvoiceBuilder) UpdateDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.ParseUUIDParam(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		var body DraftDetailsBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		input := invoices.DetailsInput{
			BusinessName:  body.BusinessName,
			BusinessPhone: body.BusinessPhone,
			ClientName:    body.ClientName,
			ClientPhone:   body.ClientPhone,
			ClientEmail:   body.ClientEmail,
			TaxRate:       body.TaxRate,
			Notes:         body.Notes,
		}
		if input.IssuedOn, err = parseDate(body.IssuedOn, "issuedOn"); err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		if input.DueOn, err = parseDate(body.DueOn, "dueOn"); err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		draft, err := b.Invoices.UpdateDetails(r.Context(), vendorID, input)
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

func (b *InvoiceBuilder) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.ParseUUIDParam(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		draft, err := b.Invoices.AddItem(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

func (b *InvoiceBuilder) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.ParseUUIDParam(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		itemID, err := validators.ParseUUIDParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		draft, err := b.Invoices.RemoveItem(r.Context(), vendorID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

type UpdateItemBody struct {
	Field string `json:"field" validate:"required,oneof=description quantity rate"`
	Value string `json:"value" validate:"max=500"`
}

func (b *InvoiceBuilder) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.ParseUUIDParam(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		itemID, err := validators.ParseUUIDParam(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		var body UpdateItemBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		draft, err := b.Invoices.UpdateItem(r.Context(), vendorID, itemID, body.Field, body.Value)
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

// wizardView is the draft plus any field errors blocking the advance.
type wizardView struct {
	Draft       *invoices.InvoiceDraft `json:"draft"`
	FieldErrors validate.FieldErrors   `json:"fieldErrors,omitempty"`
}

func (b *InvoiceBuilder) Advance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.ParseUUIDParam(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		draft, fieldErrs, err := b.Invoices.Advance(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, wizardView{Draft: draft, FieldErrors: fieldErrs})
	}
}

func (b *InvoiceBuilder) Back() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.ParseUUIDParam(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		draft, err := b.Invoices.Back(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, wizardView{Draft: draft})
	}
}

type GoToBody struct {
	Step string `json:"step" validate:"required,oneof=details items preview"`
}

func (b *InvoiceBuilder) GoTo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.ParseUUIDParam(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		var body GoToBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		draft, err := b.Invoices.GoTo(r.Context(), vendorID, enums.InvoiceStep(body.Step))
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, wizardView{Draft: draft})
	}
}

func (b *InvoiceBuilder) ClearDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.ParseUUIDParam(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		draft, err := b.Invoices.ClearDraft(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, draft)
	}
}

func (b *InvoiceBuilder) Finalize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.ParseUUIDParam(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		invoice, err := b.Invoices.Finalize(r.Context(), vendorID)
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		message := share.InvoiceMessage(invoice.BusinessName, invoice.Number, money.FormatKES(invoice.Total))
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"invoice":   invoice,
			"shareText": message,
		})
	}
}

func (b *InvoiceBuilder) ListInvoices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := validators.ParseUUIDParam(r, "vendorID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		listed, err := b.Invoices.ListInvoices(r.Context(), vendorID, params)
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, listed)
	}
}

func (b *InvoiceBuilder) GetInvoice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invoiceID, err := validators.ParseUUIDParam(r, "invoiceID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		invoice, err := b.Invoices.GetInvoice(r.Context(), invoiceID)
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

func (b *InvoiceBuilder) RenderInvoice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invoiceID, err := validators.ParseUUIDParam(r, "invoiceID")
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}

		rendered, err := b.Invoices.RenderInvoice(r.Context(), invoiceID)
		if err != nil {
			responses.WriteError(r.Context(), b.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, rendered)
	}
}

func parseDate(raw *string, field string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD").
			WithDetails(map[string]any{"field": field})
	}
	return &parsed, nil
}
