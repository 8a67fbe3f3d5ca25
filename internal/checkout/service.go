package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lipachap/lipachap-backend/pkg/db/models"
	"github.com/lipachap/lipachap-backend/pkg/enums"
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/ident"
	"github.com/lipachap/lipachap-backend/pkg/money"
	"github.com/lipachap/lipachap-backend/pkg/pagination"
	"github.com/lipachap/lipachap-backend/pkg/validate"
)

// slugAttempts bounds how many suffixed candidates we try before giving up
// on a pathological slug collision streak.
const slugAttempts = 5

// Service manages checkout page creation and storefront lookups.
type Service interface {
	CreatePage(ctx context.Context, input CreatePageInput) (*models.CheckoutPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.CheckoutPage, error)
	GetBySlug(ctx context.Context, slug string) (*models.CheckoutPage, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]models.CheckoutPage, error)
	CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error)
	ShareURL(page *models.CheckoutPage) string
}

type service struct {
	repo    Repository
	ids     ident.Source
	baseURL string
}

func NewService(repo Repository, ids ident.Source, baseURL string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id source required")
	}
	return &service{repo: repo, ids: ids, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// CatalogItemInput is one sellable row on the page being built.
type CatalogItemInput struct {
	Name        string
	Price       string
	Description *string
	ImageURL    *string
}

// CreatePageInput captures the page builder payload.
type CreatePageInput struct {
	VendorID       uuid.UUID
	Title          string
	Description    *string
	PaymentMethods []string
	Items          []CatalogItemInput
}

func (s *service) CreatePage(ctx context.Context, input CreatePageInput) (*models.CheckoutPage, error) {
	fe := validate.FieldErrors{}
	if input.VendorID == uuid.Nil {
		fe.Add("vendorId", "Vendor is required")
	}
	validate.RequireString(fe, "title", "Title", input.Title)

	methods := make([]string, 0, len(input.PaymentMethods))
	for i, raw := range input.PaymentMethods {
		method, err := enums.ParsePaymentMethod(raw)
		if err != nil {
			fe.Add(fmt.Sprintf("paymentMethods.%d", i), "Payment method is invalid")
			continue
		}
		methods = append(methods, method.String())
	}

	rows := make([]validate.LineRow, len(input.Items))
	prices := make([]decimal.Decimal, len(input.Items))
	for i, item := range input.Items {
		prices[i] = money.Parse(item.Price)
		rows[i] = validate.LineRow{
			Description: item.Name,
			Quantity:    decimal.NewFromInt(1),
			Rate:        prices[i],
		}
	}
	rowErrs := validate.FieldErrors{}
	validate.CheckRows(rowErrs, rows)
	fe.Merge(renameRowErrors(rowErrs))

	if !fe.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout page is incomplete").WithDetails(fe)
	}

	slug, err := s.uniqueSlug(ctx, input.Title)
	if err != nil {
		return nil, err
	}

	page := &models.CheckoutPage{
		ID:             s.ids.NewID(),
		VendorID:       input.VendorID,
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		Slug:           slug,
		PaymentMethods: methods,
	}
	for i, item := range input.Items {
		if !rows[i].Complete() {
			continue
		}
		page.Items = append(page.Items, models.CatalogItem{
			ID:             s.ids.NewID(),
			CheckoutPageID: page.ID,
			Name:           strings.TrimSpace(item.Name),
			Price:          prices[i],
			Description:    item.Description,
			ImageURL:       item.ImageURL,
			Position:       len(page.Items),
		})
	}

	if err := s.repo.Create(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.CheckoutPage, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout page id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.CheckoutPage, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	return s.repo.FindBySlug(ctx, slug)
}

func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]models.CheckoutPage, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	return s.repo.ListByVendor(ctx, vendorID, params)
}

func (s *service) CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	if vendorID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	return s.repo.CountByVendor(ctx, vendorID)
}

// ShareURL builds the public storefront link for a page.
func (s *service) ShareURL(page *models.CheckoutPage) string {
	return fmt.Sprintf("%s/pay/%s", s.baseURL, page.Slug)
}

// uniqueSlug derives a URL slug from the title and appends a short
// reference suffix until the slug is free.
// renameRowErrors rewrites shared row-rule results into the page builder's
// vocabulary: catalog rows call the text field a name, not a description.
func renameRowErrors(rowErrs validate.FieldErrors) validate.FieldErrors {
	out := validate.FieldErrors{}
	for key, message := range rowErrs {
		if key == "items" {
			out.Add(key, "At least one item with a name and price is required")
			continue
		}
		if strings.HasSuffix(key, ".description") {
			out.Add(strings.TrimSuffix(key, ".description")+".name", "Name is required")
			continue
		}
		out.Add(key, message)
	}
	return out
}

func (s *service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "page"
	}

	candidate := base
	for attempt := 0; attempt < slugAttempts; attempt++ {
		taken, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		suffix := strings.ToLower(strings.TrimPrefix(s.ids.Reference("S"), "S-"))
		candidate = base + "-" + suffix
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique page link")
}

// Slugify lowercases the input and collapses non-alphanumeric runs into
// single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
