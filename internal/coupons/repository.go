package coupons

import (
	"context"
	"fmt"

	"github.com/angelmondragon/tastetrack-storefront/pkg/db/models"
	"github.com/angelmondragon/tastetrack-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"gorm.io/gorm"
)

// Repository reads coupon definitions from the coupons table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns active coupon rows ordered by code.
func (r *Repository) ListActive(ctx context.Context) ([]models.Coupon, error) {
	var rows []models.Coupon
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	return rows, nil
}

// LoadCatalog builds an immutable catalog from the active rows.
func (r *Repository) LoadCatalog(ctx context.Context) (*StaticCatalog, error) {
	rows, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]Coupon, 0, len(rows))
	for _, row := range rows {
		c, err := fromModel(row)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return NewCatalog(list...), nil
}

func fromModel(row models.Coupon) (Coupon, error) {
	kind, err := enums.ParseCouponKind(row.Kind)
	if err != nil {
		return Coupon{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("coupon %s", row.Code))
	}
	if row.Discount.IsNegative() {
		return Coupon{}, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("coupon %s has a negative discount", row.Code))
	}
	return Coupon{
		Code:        row.Code,
		Discount:    row.Discount,
		Kind:        kind,
		MinOrder:    row.MinOrder,
		Description: row.Description,
	}, nil
}
