package orders

import (
	"github.com/angelmondragon/tastetrack-storefront/internal/catalog"
	"github.com/angelmondragon/tastetrack-storefront/internal/pricing"
	"github.com/angelmondragon/tastetrack-storefront/pkg/enums"
	"github.com/angelmondragon/tastetrack-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// Order is an order as the storefront presents it.
type Order struct {
	ID                string              `json:"id"`
	OrderNumber       string              `json:"order_number"`
	Status            enums.OrderStatus   `json:"status"`
	Total             decimal.Decimal     `json:"total"`
	DeliveryAddress   string              `json:"delivery_address"`
	OrderDate         string              `json:"order_date,omitempty"`
	EstimatedDelivery string              `json:"estimated_delivery,omitempty"`
	Items             []OrderItem         `json:"items"`
	Restaurant        *catalog.Restaurant `json:"restaurant,omitempty"`
}

type OrderItem struct {
	MenuItem *catalog.MenuItem `json:"menu_item,omitempty"`
	Quantity int               `json:"quantity"`
	Price    decimal.Decimal   `json:"price"`
}

// OrderPayload is the REST API's order shape.
type OrderPayload struct {
	ID                types.FlexID               `json:"id" validate:"required"`
	OrderNumber       string                     `json:"orderNumber"`
	Status            string                     `json:"status" validate:"required"`
	Total             decimal.Decimal            `json:"total"`
	DeliveryAddress   string                     `json:"deliveryAddress"`
	OrderDate         string                     `json:"orderDate"`
	EstimatedDelivery string                     `json:"estimatedDelivery"`
	Items             []OrderItemPayload         `json:"items" validate:"dive"`
	Restaurant        *catalog.RestaurantPayload `json:"restaurant"`
}

type OrderItemPayload struct {
	MenuItem *catalog.MenuItemPayload `json:"menuItem"`
	Quantity int                      `json:"quantity" validate:"gte=0"`
	Price    decimal.Decimal          `json:"price"`
}

// ToOrder converts a validated payload. Unknown statuses are kept verbatim
// so tracking can still render them.
func (p OrderPayload) ToOrder() Order {
	status, err := enums.ParseOrderStatus(p.Status)
	if err != nil {
		status = enums.OrderStatus(p.Status)
	}
	order := Order{
		ID:                p.ID.String(),
		OrderNumber:       p.OrderNumber,
		Status:            status,
		Total:             p.Total,
		DeliveryAddress:   p.DeliveryAddress,
		OrderDate:         p.OrderDate,
		EstimatedDelivery: p.EstimatedDelivery,
		Items:             make([]OrderItem, 0, len(p.Items)),
	}
	for _, item := range p.Items {
		converted := OrderItem{Quantity: item.Quantity, Price: item.Price}
		if item.MenuItem != nil {
			mi := item.MenuItem.ToMenuItem()
			converted.MenuItem = &mi
		}
		order.Items = append(order.Items, converted)
	}
	if p.Restaurant != nil {
		r := p.Restaurant.ToRestaurant()
		order.Restaurant = &r
	}
	return order
}

// CreateRequest is the order submission body the REST API expects.
type CreateRequest struct {
	RestaurantID types.FlexID    `json:"restaurantId"`
	Items        []CreateItem    `json:"items"`
	Delivery     DeliveryDetails `json:"delivery"`
	Payment      PaymentDetails  `json:"payment"`
}

type CreateItem struct {
	MenuItemID types.FlexID `json:"menuItemId"`
	Quantity   int          `json:"quantity"`
}

type DeliveryDetails struct {
	CustomerName         string `json:"customerName"`
	CustomerPhone        string `json:"customerPhone"`
	DeliveryAddress      string `json:"deliveryAddress"`
	DeliveryCity         string `json:"deliveryCity"`
	DeliveryState        string `json:"deliveryState"`
	DeliveryZip          string `json:"deliveryZip"`
	DeliveryInstructions string `json:"deliveryInstructions,omitempty"`
}

type PaymentDetails struct {
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	CardNumber    string              `json:"cardNumber,omitempty"`
	ExpiryDate    string              `json:"expiryDate,omitempty"`
	CVV           string              `json:"cvv,omitempty"`
}

// TrackingStep is one stage of the delivery timeline.
type TrackingStep struct {
	Status    enums.OrderStatus `json:"status"`
	Label     string            `json:"label"`
	Completed bool              `json:"completed"`
	Current   bool              `json:"current"`
	Time      string            `json:"time,omitempty"`
}

// Tracking is the order tracking view.
type Tracking struct {
	Order     Order           `json:"order"`
	Steps     []TrackingStep  `json:"steps"`
	Breakdown pricing.Display `json:"breakdown"`
	// EstimatedDelivery is omitted once the order reaches a terminal status.
	EstimatedDelivery string `json:"estimated_delivery,omitempty"`
}
