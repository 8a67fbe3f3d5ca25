package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItemSnapshot is one line of a finalized invoice, stored as part
// of the invoice's jsonb items column.
type InvoiceItemSnapshot struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceItemSnapshots is the jsonb-serialized items collection.
type InvoiceItemSnapshots []InvoiceItemSnapshot

// Invoice is a finalized invoice document. Drafts live in the key-value
// store; only completed invoices land here.
type Invoice struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorID      uuid.UUID            `gorm:"column:vendor_id;type:uuid;not null" json:"vendorId"`
	Number        string               `gorm:"column:number;not null" json:"number"`
	BusinessName  string               `gorm:"column:business_name;not null" json:"businessName"`
	BusinessPhone string               `gorm:"column:business_phone;not null" json:"businessPhone"`
	ClientName    string               `gorm:"column:client_name;not null" json:"clientName"`
	ClientPhone   *string              `gorm:"column:client_phone" json:"clientPhone"`
	ClientEmail   *string              `gorm:"column:client_email" json:"clientEmail"`
	IssuedOn      time.Time            `gorm:"column:issued_on;not null" json:"issuedOn"`
	DueOn         *time.Time           `gorm:"column:due_on" json:"dueOn"`
	Items         InvoiceItemSnapshots `gorm:"column:items;type:jsonb;serializer:json" json:"items"`
	Subtotal      decimal.Decimal      `gorm:"column:subtotal;type:numeric;not null" json:"subtotal"`
	TaxRate       decimal.Decimal      `gorm:"column:tax_rate;type:numeric;not null" json:"taxRate"`
	TaxAmount     decimal.Decimal      `gorm:"column:tax_amount;type:numeric;not null" json:"taxAmount"`
	Total         decimal.Decimal      `gorm:"column:total;type:numeric;not null" json:"total"`
	Notes         *string              `gorm:"column:notes" json:"notes"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
