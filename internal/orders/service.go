package orders

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/tastetrack-storefront/internal/pricing"
	"github.com/angelmondragon/tastetrack-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/upstream"
)

// Service wraps the REST API's order endpoints. Every call carries the
// signed-in user's upstream token.
type Service interface {
	Create(ctx context.Context, token string, req CreateRequest) (*Order, error)
	ListMine(ctx context.Context, token string) ([]Order, error)
	Get(ctx context.Context, token, id string) (*Order, error)
	GetByNumber(ctx context.Context, token, number string) (*Order, error)
	ListByStatus(ctx context.Context, token string, status enums.OrderStatus) ([]Order, error)
	ListAll(ctx context.Context, token string) ([]Order, error)
	UpdateStatus(ctx context.Context, token, id string, status enums.OrderStatus) (*Order, error)
	Cancel(ctx context.Context, token, id string) (*Order, error)
	ListVendorOrders(ctx context.Context, token string, status *enums.OrderStatus) ([]Order, error)
	UpdateVendorStatus(ctx context.Context, token, id string, status enums.OrderStatus) (*Order, error)
	Tracking(ctx context.Context, token, id string) (*Tracking, error)
}

type doer interface {
	Do(ctx context.Context, req upstream.Request, out any) error
}

type service struct {
	client doer
}

// NewService builds an order service on top of the upstream client.
func NewService(client doer) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("upstream client required")
	}
	return &service{client: client}, nil
}

func (s *service) Create(ctx context.Context, token string, req CreateRequest) (*Order, error) {
	if req.RestaurantID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	return s.one(ctx, upstream.Request{
		Operation: "orders.create",
		Method:    http.MethodPost,
		Path:      "orders",
		Body:      req,
		Token:     token,
	})
}

func (s *service) ListMine(ctx context.Context, token string) ([]Order, error) {
	return s.list(ctx, upstream.Request{
		Operation: "orders.list_user",
		Method:    http.MethodGet,
		Path:      "orders/user",
		Token:     token,
	})
}

func (s *service) Get(ctx context.Context, token, id string) (*Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.one(ctx, upstream.Request{
		Operation: "orders.get",
		Method:    http.MethodGet,
		Path:      "orders/" + upstream.PathID(id),
		Token:     token,
	})
}

func (s *service) GetByNumber(ctx context.Context, token, number string) (*Order, error) {
	if strings.TrimSpace(number) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	return s.one(ctx, upstream.Request{
		Operation: "orders.get_by_number",
		Method:    http.MethodGet,
		Path:      "orders/order-number/" + upstream.PathID(number),
		Token:     token,
	})
}

func (s *service) ListByStatus(ctx context.Context, token string, status enums.OrderStatus) ([]Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}
	return s.list(ctx, upstream.Request{
		Operation: "orders.list_status",
		Method:    http.MethodGet,
		Path:      "orders/status/" + upstream.PathID(status.String()),
		Token:     token,
	})
}

// ListAll collects every order by querying each status in lifecycle order.
// The REST API has no unfiltered listing.
func (s *service) ListAll(ctx context.Context, token string) ([]Order, error) {
	var all []Order
	for _, status := range enums.OrderStatuses() {
		batch, err := s.ListByStatus(ctx, token, status)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
	}
	if all == nil {
		all = []Order{}
	}
	return all, nil
}

func (s *service) UpdateStatus(ctx context.Context, token, id string, status enums.OrderStatus) (*Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}
	return s.one(ctx, upstream.Request{
		Operation: "orders.update_status",
		Method:    http.MethodPut,
		Path:      "orders/" + upstream.PathID(id) + "/status/" + upstream.PathID(status.String()),
		Token:     token,
	})
}

func (s *service) Cancel(ctx context.Context, token, id string) (*Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.one(ctx, upstream.Request{
		Operation: "orders.cancel",
		Method:    http.MethodPut,
		Path:      "orders/" + upstream.PathID(id) + "/cancel",
		Token:     token,
	})
}

// ListVendorOrders returns the orders of the vendor's restaurant, optionally
// narrowed to one status.
func (s *service) ListVendorOrders(ctx context.Context, token string, status *enums.OrderStatus) ([]Order, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", *status))
	}
	orders, err := s.list(ctx, upstream.Request{
		Operation: "orders.list_vendor",
		Method:    http.MethodGet,
		Path:      "vendor/orders",
		Token:     token,
	})
	if err != nil || status == nil {
		return orders, err
	}
	filtered := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == *status {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

type vendorStatusRequest struct {
	Status enums.OrderStatus `json:"status"`
}

type vendorStatusResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *OrderPayload `json:"order"`
}

func (s *service) UpdateVendorStatus(ctx context.Context, token, id string, status enums.OrderStatus) (*Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}
	var resp vendorStatusResponse
	if err := s.client.Do(ctx, upstream.Request{
		Operation: "orders.vendor_update_status",
		Method:    http.MethodPut,
		Path:      "vendor/orders/" + upstream.PathID(id) + "/status",
		Body:      vendorStatusRequest{Status: status},
		Token:     token,
	}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		message := strings.TrimSpace(resp.Message)
		if message == "" {
			message = "order status update rejected"
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, message)
	}
	if resp.Order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders.vendor_update_status returned no order")
	}
	order := resp.Order.ToOrder()
	return &order, nil
}

var trackingSteps = []struct {
	status enums.OrderStatus
	label  string
}{
	{enums.OrderStatusPending, "Order Placed"},
	{enums.OrderStatusConfirmed, "Order Confirmed"},
	{enums.OrderStatusPreparing, "Preparing Food"},
	{enums.OrderStatusOutForDelivery, "Out for Delivery"},
	{enums.OrderStatusDelivered, "Delivered"},
}

// Tracking loads an order and derives its timeline and price breakdown. A
// cancelled order has no completed steps.
func (s *service) Tracking(ctx context.Context, token, id string) (*Tracking, error) {
	order, err := s.Get(ctx, token, id)
	if err != nil {
		return nil, err
	}
	return BuildTracking(*order), nil
}

// BuildTracking derives the tracking view of an order.
func BuildTracking(order Order) *Tracking {
	current := -1
	for i, step := range trackingSteps {
		if step.status == order.Status {
			current = i
			break
		}
	}

	steps := make([]TrackingStep, 0, len(trackingSteps))
	for i, step := range trackingSteps {
		ts := TrackingStep{
			Status:    step.status,
			Label:     step.label,
			Completed: current >= 0 && i <= current,
			Current:   i == current,
		}
		switch step.status {
		case enums.OrderStatusPending, enums.OrderStatusConfirmed:
			ts.Time = order.OrderDate
		case enums.OrderStatusDelivered:
			ts.Time = order.EstimatedDelivery
		}
		steps = append(steps, ts)
	}

	tracking := &Tracking{
		Order:     order,
		Steps:     steps,
		Breakdown: pricing.FromOrderTotal(order.Total).Display(),
	}
	if !order.Status.IsTerminal() {
		tracking.EstimatedDelivery = order.EstimatedDelivery
	}
	return tracking
}

func (s *service) one(ctx context.Context, req upstream.Request) (*Order, error) {
	var payload OrderPayload
	if err := s.client.Do(ctx, req, &payload); err != nil {
		return nil, err
	}
	order := payload.ToOrder()
	return &order, nil
}

func (s *service) list(ctx context.Context, req upstream.Request) ([]Order, error) {
	var payloads []OrderPayload
	if err := s.client.Do(ctx, req, &payloads); err != nil {
		return nil, err
	}
	orders := make([]Order, 0, len(payloads))
	for _, p := range payloads {
		orders = append(orders, p.ToOrder())
	}
	return orders, nil
}
