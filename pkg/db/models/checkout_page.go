package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CheckoutPage is a vendor's shareable multi-item payment page. Pages are
// created once and never deleted; orders accumulate on them append-only.
type CheckoutPage struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorID       uuid.UUID      `gorm:"column:vendor_id;type:uuid;not null" json:"vendorId"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Description    *string        `gorm:"column:description" json:"description"`
	Slug           string         `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	PaymentMethods pq.StringArray `gorm:"column:payment_methods;type:text[]" json:"paymentMethods"`
	Items          []CatalogItem  `gorm:"foreignKey:CheckoutPageID;constraint:OnDelete:CASCADE" json:"items"`
	Orders         []Order        `gorm:"foreignKey:CheckoutPageID;constraint:OnDelete:CASCADE" json:"orders,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
