package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineItem captures the snapshot of one purchased item.
type OrderLineItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null" json:"orderId"`
	CatalogItemID *uuid.UUID      `gorm:"column:catalog_item_id;type:uuid" json:"catalogItemId"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric;not null" json:"unitPrice"`
	Qty           int             `gorm:"column:qty;not null" json:"qty"`
	LineTotal     decimal.Decimal `gorm:"column:line_total;type:numeric;not null" json:"lineTotal"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
