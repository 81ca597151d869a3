package service

import (
	"context"
	"storefront/internal/models"

	"github.com/google/uuid"
)

type CheckoutInput struct {
	AddressID    uuid.UUID
	BuyerMessage string
}

type ShipOrderInput struct {
	ShippingCompany string
	TrackingNumber  string
}

type OrderListFilter struct {
	Status *models.OrderStatus
	Limit  int
	Offset int
}

type OrderService interface {
	// CreateOrderFromCart turns the caller's selected cart lines into an
	// order: it validates the address and every line against live stock and
	// publication state, computes totals, writes the order and its lines,
	// decrements stock and removes the consumed cart lines as one atomic
	// unit. A failure at any step leaves no partial state behind.
	CreateOrderFromCart(ctx context.Context, in CheckoutInput) (*models.Order, error)

	// CancelOrder cancels a pending order and restores exactly the stock it
	// consumed.
	CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)

	// HandlePaymentSuccess is the payment-processor callback. Safe to call
	// repeatedly for the same order number.
	HandlePaymentSuccess(ctx context.Context, orderNo string) (*models.Order, error)

	// ShipOrder records carrier details on a paid order. Sellers may only
	// ship orders whose lines all reference their own products.
	ShipOrder(ctx context.Context, orderID uuid.UUID, in ShipOrderInput) (*models.Order, error)

	// CompleteOrder confirms delivery of a shipped order.
	CompleteOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)

	GetOrderDetail(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListUserOrders(ctx context.Context, f OrderListFilter) ([]*models.Order, int64, error)
}
