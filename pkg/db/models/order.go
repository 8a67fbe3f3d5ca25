package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lipachap/lipachap-backend/pkg/enums"
)

// Order is the immutable result of a settled simulated payment. Line
// items capture name and price at payment time so later catalog edits
// never rewrite history.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CheckoutPageID uuid.UUID           `gorm:"column:checkout_page_id;type:uuid;not null" json:"checkoutPageId"`
	OrderNumber    string              `gorm:"column:order_number;not null" json:"orderNumber"`
	CustomerName   string              `gorm:"column:customer_name;not null" json:"customerName"`
	CustomerPhone  string              `gorm:"column:customer_phone;not null" json:"customerPhone"`
	CustomerEmail  *string             `gorm:"column:customer_email" json:"customerEmail"`
	TotalAmount    decimal.Decimal     `gorm:"column:total_amount;type:numeric;not null" json:"totalAmount"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;type:text;not null" json:"paymentMethod"`
	TransactionID  string              `gorm:"column:transaction_id;not null" json:"transactionId"`
	Items          []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	PlacedAt       time.Time           `gorm:"column:placed_at;not null" json:"placedAt"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
