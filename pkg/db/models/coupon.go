package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon is a row of the coupons table backing the DB coupon source.
type Coupon struct {
	Code        string              `gorm:"column:code;primaryKey"`
	Discount    decimal.Decimal     `gorm:"column:discount;type:numeric(10,2);not null"`
	Kind        string              `gorm:"column:kind;not null"`
	MinOrder    decimal.NullDecimal `gorm:"column:min_order;type:numeric(10,2)"`
	Description string              `gorm:"column:description;not null;default:''"`
	Active      bool                `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (Coupon) TableName() string {
	return "coupons"
}
