package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lipachap/lipachap-backend/pkg/db/models"
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/pagination"
)

// Repository persists checkout pages and their catalog items.
type Repository interface {
	Create(ctx context.Context, page *models.CheckoutPage) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutPage, error)
	FindBySlug(ctx context.Context, slug string) (*models.CheckoutPage, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]models.CheckoutPage, error)
	CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, page *models.CheckoutPage) error {
	if err := r.db.WithContext(ctx).Create(page).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create checkout page")
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutPage, error) {
	var page models.CheckoutPage
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&page, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout page not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load checkout page")
	}
	return &page, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.CheckoutPage, error) {
	var page models.CheckoutPage
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&page, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout page not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load checkout page")
	}
	return &page, nil
}

func (r *repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) ([]models.CheckoutPage, error) {
	params = params.Normalize()
	var pages []models.CheckoutPage
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&pages).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list checkout pages")
	}
	return pages, nil
}

func (r *repository) CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CheckoutPage{}).
		Where("vendor_id = ?", vendorID).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count checkout pages")
	}
	return count, nil
}

func (r *repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CheckoutPage{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to check slug")
	}
	return count > 0, nil
}
