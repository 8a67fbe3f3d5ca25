package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lipachap/lipachap-backend/pkg/enums"
)

// Vendor is a registered merchant profile. Profiles are immutable after
// setup; there is no edit flow.
type Vendor struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BusinessName string             `gorm:"column:business_name;not null" json:"businessName"`
	OwnerName    string             `gorm:"column:owner_name;not null" json:"ownerName"`
	Phone        string             `gorm:"column:phone;not null" json:"phone"`
	Email        *string            `gorm:"column:email" json:"email"`
	BusinessType enums.BusinessType `gorm:"column:business_type;type:text;not null;default:'retail'" json:"businessType"`
	LogoURL      *string            `gorm:"column:logo_url" json:"logoUrl"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
