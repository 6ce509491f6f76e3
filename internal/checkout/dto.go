package checkout

import (
	"github.com/angelmondragon/tastetrack-storefront/internal/orders"
	"github.com/angelmondragon/tastetrack-storefront/internal/pricing"
)

// DeliveryInput is the delivery form of the checkout page.
type DeliveryInput struct {
	CustomerName  string `json:"customer_name" validate:"required,max=120"`
	CustomerPhone string `json:"customer_phone" validate:"required,max=32"`
	Address       string `json:"address" validate:"required,max=255"`
	City          string `json:"city" validate:"required,max=100"`
	State         string `json:"state" validate:"required,max=100"`
	Zip           string `json:"zip" validate:"required,max=20"`
	Instructions  string `json:"instructions" validate:"omitempty,max=500"`
}

// PaymentInput selects how the order is paid. Card fields are only read for CARD.
type PaymentInput struct {
	Method     string `json:"method" validate:"required,max=32"`
	CardNumber string `json:"card_number" validate:"omitempty,min=12,max=19"`
	ExpiryDate string `json:"expiry_date" validate:"omitempty,max=7"`
	CVV        string `json:"cvv" validate:"omitempty,min=3,max=4"`
}

// Request is the checkout submission.
type Request struct {
	Delivery DeliveryInput `json:"delivery"`
	Payment  PaymentInput  `json:"payment"`
}

// Result is the created order and the cart breakdown it was placed with.
type Result struct {
	Order     orders.Order    `json:"order"`
	Breakdown pricing.Display `json:"breakdown"`
}
