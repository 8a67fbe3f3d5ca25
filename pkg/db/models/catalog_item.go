package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogItem is one sellable entry on a checkout page. Identity is a
// stable id distinct from display position so cart lookups survive
// catalog edits.
type CatalogItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CheckoutPageID uuid.UUID       `gorm:"column:checkout_page_id;type:uuid;not null" json:"checkoutPageId"`
	Name           string          `gorm:"column:name;not null" json:"name"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric;not null" json:"price"`
	Description    *string         `gorm:"column:description" json:"description"`
	ImageURL       *string         `gorm:"column:image_url" json:"imageUrl"`
	Position       int             `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
