package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lipachap/lipachap-backend/pkg/db/models"
	pkgerrors "github.com/lipachap/lipachap-backend/pkg/errors"
	"github.com/lipachap/lipachap-backend/pkg/pagination"
)

// Repository persists the append-only order log. There are no update or
// delete operations on purpose.
type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	ListByPage(ctx context.Context, pageID uuid.UUID, params pagination.Params) ([]models.Order, error)
	AllByPage(ctx context.Context, pageID uuid.UUID) ([]models.Order, error)
	AllByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record order")
	}
	return nil
}

func (r *repository) ListByPage(ctx context.Context, pageID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	params = params.Normalize()
	var out []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("checkout_page_id = ?", pageID).
		Order("placed_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list orders")
	}
	return out, nil
}

func (r *repository) AllByPage(ctx context.Context, pageID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).
		Where("checkout_page_id = ?", pageID).
		Order("placed_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load orders")
	}
	return out, nil
}

func (r *repository) AllByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).
		Joins("JOIN checkout_pages ON checkout_pages.id = orders.checkout_page_id").
		Where("checkout_pages.vendor_id = ?", vendorID).
		Order("orders.placed_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load vendor orders")
	}
	return out, nil
}
