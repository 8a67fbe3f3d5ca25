package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lipachap/lipachap-backend/pkg/db/models"
	"github.com/lipachap/lipachap-backend/pkg/enums"
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/money"
	"github.com/lipachap/lipachap-backend/pkg/validate"
)

// DraftItem is one editable invoice line. Amount is derived and
// recomputed whenever quantity or rate changes.
type DraftItem struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceDraft is the in-progress invoice. Its JSON form is the snapshot
// written to the key-value store, so field tags are part of the storage
// contract.
type InvoiceDraft struct {
	VendorID      uuid.UUID         `json:"vendorId"`
	Number        string            `json:"number"`
	BusinessName  string            `json:"businessName"`
	BusinessPhone string            `json:"businessPhone"`
	ClientName    string            `json:"clientName"`
	ClientPhone   string            `json:"clientPhone"`
	ClientEmail   string            `json:"clientEmail"`
	IssuedOn      time.Time         `json:"issuedOn"`
	DueOn         *time.Time        `json:"dueOn,omitempty"`
	Items         []DraftItem       `json:"items"`
	TaxRate       decimal.Decimal   `json:"taxRate"`
	Notes         string            `json:"notes"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	TaxAmount     decimal.Decimal   `json:"taxAmount"`
	Total         decimal.Decimal   `json:"total"`
	Step          enums.InvoiceStep `json:"step"`
}

// NewDraft builds the default draft: vendor details prefilled, one empty
// line item, a fresh invoice number and today's issue date.
func NewDraft(vendor *models.Vendor, number string, issuedOn time.Time, firstItemID uuid.UUID) *InvoiceDraft {
	draft := &InvoiceDraft{
		VendorID: vendor.ID,
		Number:   number,
		IssuedOn: issuedOn,
		Items: []DraftItem{{
			ID:       firstItemID,
			Quantity: decimal.NewFromInt(1),
			Rate:     decimal.Zero,
			Amount:   decimal.Zero,
		}},
		TaxRate: decimal.Zero,
		Step:    enums.InvoiceStepDetails,
	}
	draft.BusinessName = vendor.BusinessName
	draft.BusinessPhone = vendor.Phone
	draft.recompute()
	return draft
}

// Clone returns an independent copy safe to hand to callers while the
// original keeps absorbing edits.
func (d *InvoiceDraft) Clone() *InvoiceDraft {
	c := *d
	c.Items = append([]DraftItem(nil), d.Items...)
	if d.DueOn != nil {
		due := *d.DueOn
		c.DueOn = &due
	}
	return &c
}

// AddItem appends an empty line with quantity 1.
func (d *InvoiceDraft) AddItem(id uuid.UUID) *DraftItem {
	d.Items = append(d.Items, DraftItem{
		ID:       id,
		Quantity: decimal.NewFromInt(1),
		Rate:     decimal.Zero,
		Amount:   decimal.Zero,
	})
	d.recompute()
	return &d.Items[len(d.Items)-1]
}

// RemoveItem drops a line by id. The last remaining line can never be
// removed; the call reports whether anything changed.
func (d *InvoiceDraft) RemoveItem(id uuid.UUID) bool {
	if len(d.Items) <= 1 {
		return false
	}
	for i, item := range d.Items {
		if item.ID == id {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			d.recompute()
			return true
		}
	}
	return false
}

// Editable line item fields.
const (
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldRate        = "rate"
)

// UpdateItem sets one field of a line by id. Quantity and rate edits
// recompute the row amount and the draft totals in the same mutation.
func (d *InvoiceDraft) UpdateItem(id uuid.UUID, field, value string) error {
	for i := range d.Items {
		if d.Items[i].ID != id {
			continue
		}
		switch field {
		case FieldDescription:
			d.Items[i].Description = value
		case FieldQuantity:
			d.Items[i].Quantity = money.Parse(value)
		case FieldRate:
			d.Items[i].Rate = money.Parse(value)
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown line item field")
		}
		d.recompute()
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
}

// recompute refreshes every row amount and the document totals.
func (d *InvoiceDraft) recompute() {
	amounts := make([]decimal.Decimal, len(d.Items))
	for i := range d.Items {
		d.Items[i].Amount = money.LineAmount(d.Items[i].Quantity, d.Items[i].Rate)
		amounts[i] = d.Items[i].Amount
	}
	d.Subtotal = money.Subtotal(amounts)
	d.TaxAmount = money.TaxAmount(d.Subtotal, d.TaxRate)
	d.Total = money.GrandTotal(d.Subtotal, d.TaxAmount)
}

// rows projects the draft lines into the shared row-validation shape.
func (d *InvoiceDraft) rows() []validate.LineRow {
	rows := make([]validate.LineRow, len(d.Items))
	for i, item := range d.Items {
		rows[i] = validate.LineRow{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
		}
	}
	return rows
}
