package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/tastetrack-storefront/internal/cart"
	"github.com/angelmondragon/tastetrack-storefront/internal/orders"
	"github.com/angelmondragon/tastetrack-storefront/internal/pricing"
	"github.com/angelmondragon/tastetrack-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/tastetrack-storefront/pkg/errors"
	"github.com/angelmondragon/tastetrack-storefront/pkg/logger"
	"github.com/angelmondragon/tastetrack-storefront/pkg/types"
)

// Service turns a session cart into an upstream order.
type Service interface {
	Checkout(ctx context.Context, sessionID, upstreamToken string, req Request) (*Result, error)
}

type orderCreator interface {
	Create(ctx context.Context, token string, req orders.CreateRequest) (*orders.Order, error)
}

type cartSessions interface {
	Update(ctx context.Context, sessionID string, fn func(*cart.Store) error) (*cart.Store, error)
}

type service struct {
	carts  cartSessions
	orders orderCreator
	logg   *logger.Logger
}

// NewService wires checkout to the cart sessions and the order client.
func NewService(carts cartSessions, orderSvc orderCreator, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart sessions required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	return &service{carts: carts, orders: orderSvc, logg: logg}, nil
}

// Checkout submits the session's cart while holding the session's cart lock,
// so a concurrent submission for the same session waits and then sees the
// cleared cart. The cart is cleared only after the order was created.
func (s *service) Checkout(ctx context.Context, sessionID, upstreamToken string, req Request) (*Result, error) {
	payment, err := validatePayment(req.Payment)
	if err != nil {
		return nil, err
	}

	var result *Result
	_, err = s.carts.Update(ctx, sessionID, func(store *cart.Store) error {
		createReq, err := buildOrderRequest(store, req.Delivery, payment)
		if err != nil {
			return err
		}
		breakdown := pricing.Quote(store).Display()

		order, err := s.orders.Create(ctx, upstreamToken, createReq)
		if err != nil {
			return err
		}
		result = &Result{Order: *order, Breakdown: breakdown}
		store.Clear()
		return nil
	})
	if err != nil {
		if result != nil {
			// the order exists upstream; a stale cart is the lesser problem
			if s.logg != nil {
				s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "order placed but cart not cleared", err)
			}
			return result, nil
		}
		return nil, err
	}
	return result, nil
}

type paymentDetails struct {
	Method     enums.PaymentMethod
	CardNumber string
	ExpiryDate string
	CVV        string
}

func validatePayment(in PaymentInput) (paymentDetails, error) {
	method, err := enums.ParsePaymentMethod(in.Method)
	if err != nil {
		return paymentDetails{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}
	details := paymentDetails{Method: method}
	if !method.RequiresCard() {
		return details, nil
	}

	missing := make([]string, 0, 3)
	if strings.TrimSpace(in.CardNumber) == "" {
		missing = append(missing, "card_number")
	}
	if strings.TrimSpace(in.ExpiryDate) == "" {
		missing = append(missing, "expiry_date")
	}
	if strings.TrimSpace(in.CVV) == "" {
		missing = append(missing, "cvv")
	}
	if len(missing) > 0 {
		return paymentDetails{}, pkgerrors.New(pkgerrors.CodeValidation, "card details are required for card payments").
			WithDetails(map[string]any{"missing": missing})
	}
	details.CardNumber = strings.ReplaceAll(strings.TrimSpace(in.CardNumber), " ", "")
	details.ExpiryDate = strings.TrimSpace(in.ExpiryDate)
	details.CVV = strings.TrimSpace(in.CVV)
	return details, nil
}

func buildOrderRequest(store *cart.Store, delivery DeliveryInput, payment paymentDetails) (orders.CreateRequest, error) {
	if store.IsEmpty() {
		return orders.CreateRequest{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	restaurants := store.RestaurantIDs()
	if len(restaurants) != 1 {
		return orders.CreateRequest{}, pkgerrors.New(pkgerrors.CodeValidation, "cart items must come from a single restaurant").
			WithDetails(map[string]any{"restaurant_ids": restaurants})
	}
	if strings.TrimSpace(restaurants[0]) == "" {
		return orders.CreateRequest{}, pkgerrors.New(pkgerrors.CodeValidation, "cart items are missing their restaurant")
	}

	lines := store.Lines()
	items := make([]orders.CreateItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, orders.CreateItem{
			MenuItemID: types.FlexID(line.Item.ID),
			Quantity:   line.Quantity,
		})
	}

	return orders.CreateRequest{
		RestaurantID: types.FlexID(restaurants[0]),
		Items:        items,
		Delivery: orders.DeliveryDetails{
			CustomerName:         strings.TrimSpace(delivery.CustomerName),
			CustomerPhone:        strings.TrimSpace(delivery.CustomerPhone),
			DeliveryAddress:      strings.TrimSpace(delivery.Address),
			DeliveryCity:         strings.TrimSpace(delivery.City),
			DeliveryState:        strings.TrimSpace(delivery.State),
			DeliveryZip:          strings.TrimSpace(delivery.Zip),
			DeliveryInstructions: strings.TrimSpace(delivery.Instructions),
		},
		Payment: orders.PaymentDetails{
			PaymentMethod: payment.Method,
			CardNumber:    payment.CardNumber,
			ExpiryDate:    payment.ExpiryDate,
			CVV:           payment.CVV,
		},
	}, nil
}
