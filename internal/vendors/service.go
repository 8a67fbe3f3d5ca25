package vendors

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lipachap/lipachap-backend/pkg/db/models"
	"github.com/lipachap/lipachap-backend/pkg/enums"
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/ident"
	"github.com/lipachap/lipachap-backend/pkg/validate"
)

// Service exposes vendor registry operations. Profiles are write-once:
// there is no update path.
type Service interface {
	Register(ctx context.Context, input RegisterVendorInput) (*models.Vendor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

type service struct {
	repo Repository
	ids  ident.Source
}

// NewService wires a vendor service with the provided stack.
func NewService(repo Repository, ids ident.Source) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id source required")
	}
	return &service{repo: repo, ids: ids}, nil
}

// RegisterVendorInput captures the one-time vendor setup payload.
type RegisterVendorInput struct {
	BusinessName string
	OwnerName    string
	Phone        string
	Email        *string
	BusinessType string
	LogoURL      *string
}

func (s *service) Register(ctx context.Context, input RegisterVendorInput) (*models.Vendor, error) {
	fe := validate.FieldErrors{}
	validate.RequireString(fe, "businessName", "Business name", input.BusinessName)
	validate.RequireString(fe, "ownerName", "Owner name", input.OwnerName)
	validate.RequireString(fe, "phone", "Phone", input.Phone)

	businessType, err := enums.ParseBusinessType(input.BusinessType)
	if err != nil {
		fe.Add("businessType", "Business type is invalid")
	}
	if !fe.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor setup failed").WithDetails(fe)
	}

	vendor := &models.Vendor{
		ID:           s.ids.NewID(),
		BusinessName: strings.TrimSpace(input.BusinessName),
		OwnerName:    strings.TrimSpace(input.OwnerName),
		Phone:        strings.TrimSpace(input.Phone),
		Email:        input.Email,
		BusinessType: businessType,
		LogoURL:      input.LogoURL,
		CreatedAt:    s.ids.Now(),
	}

	if err := s.repo.Create(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	return s.repo.FindByID(ctx, id)
}
