package cart

import "strings"

const defaultQuantity = 1

type addItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required,max=64"`
	Quantity   int    `json:"quantity" validate:"omitempty,gte=1,lte=99"`
}

func (r addItemRequest) normalized() addItemRequest {
	r.MenuItemID = strings.TrimSpace(r.MenuItemID)
	if r.Quantity == 0 {
		r.Quantity = defaultQuantity
	}
	return r
}

// updateItemRequest sets a line's quantity; zero or less removes the line.
type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,lte=99"`
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required,max=32"`
}
