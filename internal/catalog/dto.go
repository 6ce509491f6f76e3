package catalog

import (
	"strings"

	"github.com/angelmondragon/tastetrack-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// MenuItem is a product offered by a restaurant. The core treats it as read-only.
type MenuItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	IsVeg        bool            `json:"is_veg"`
	Rating       float64         `json:"rating"`
	RestaurantID string          `json:"restaurant_id"`
	Image        string          `json:"image,omitempty"`
}

// Restaurant is a storefront listing.
type Restaurant struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Cuisine      string          `json:"cuisine"`
	Rating       float64         `json:"rating"`
	DeliveryTime string          `json:"delivery_time"`
	MinOrder     decimal.Decimal `json:"min_order"`
	Image        string          `json:"image,omitempty"`
	Address      string          `json:"address"`
	IsOpen       bool            `json:"is_open"`
}

// MenuItemPayload is the REST API's menu item shape.
type MenuItemPayload struct {
	ID           types.FlexID        `json:"id" validate:"required"`
	Name         string              `json:"name" validate:"required"`
	Description  string              `json:"description"`
	Price        decimal.NullDecimal `json:"price" validate:"required,gte=0"`
	Image        string              `json:"image"`
	Category     string              `json:"category"`
	RestaurantID types.FlexID        `json:"restaurantId"`
	IsVeg        bool                `json:"isVeg"`
	Rating       float64             `json:"rating" validate:"gte=0,lte=5"`
}

// RestaurantPayload is the REST API's restaurant shape.
type RestaurantPayload struct {
	ID           types.FlexID    `json:"id" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Cuisine      string          `json:"cuisine"`
	Rating       float64         `json:"rating" validate:"gte=0,lte=5"`
	DeliveryTime string          `json:"deliveryTime"`
	MinOrder     decimal.Decimal `json:"minOrder"`
	Image        string          `json:"image"`
	Address      string          `json:"address"`
	IsOpen       bool            `json:"isOpen"`
}

// ToMenuItem converts a payload that passed upstream validation.
func (p MenuItemPayload) ToMenuItem() MenuItem {
	return MenuItem{
		ID:           p.ID.String(),
		Name:         strings.TrimSpace(p.Name),
		Description:  p.Description,
		Price:        p.Price.Decimal,
		Category:     p.Category,
		IsVeg:        p.IsVeg,
		Rating:       p.Rating,
		RestaurantID: p.RestaurantID.String(),
		Image:        p.Image,
	}
}

func (p RestaurantPayload) ToRestaurant() Restaurant {
	return Restaurant{
		ID:           p.ID.String(),
		Name:         strings.TrimSpace(p.Name),
		Cuisine:      p.Cuisine,
		Rating:       p.Rating,
		DeliveryTime: p.DeliveryTime,
		MinOrder:     p.MinOrder,
		Image:        p.Image,
		Address:      p.Address,
		IsOpen:       p.IsOpen,
	}
}
