package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	freeShippingThreshold = decimal.NewFromInt(99)
	flatShippingFee       = decimal.NewFromInt(10)
)

const orderNoAttempts = 3

type orderService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewOrderService(repo *repository.Repository) OrderService {
	return &orderService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *orderService) CreateOrderFromCart(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserInactive
	}

	address, err := s.repo.Addresses.GetOwned(ctx, in.AddressID, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrInvalidAddress
	}

	lines, err := s.repo.Carts.ListSelected(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	var order *models.Order

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))

		// Validate every line against live stock and publication state; the
		// conditional decrement below re-validates at commit time.
		for _, line := range lines {
			ps, err := tx.Products.PriceAndStock(ctx, line.ProductID, line.VariantID)
			if err != nil {
				return err
			}
			if ps == nil {
				return fmt.Errorf("%w: product %s", ErrProductUnavailable, line.ProductID)
			}
			if !ps.IsPublished {
				return fmt.Errorf("%w: %s", ErrProductUnavailable, ps.ProductName)
			}
			if ps.Stock < line.Quantity {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, ps.ProductName)
			}

			subtotal := ps.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
			total = total.Add(subtotal)

			snapshot, err := json.Marshal(models.ProductSnapshot{
				Name:        ps.ProductName,
				Slug:        ps.ProductSlug,
				Image:       ps.Image,
				SKU:         ps.SKU,
				VariantName: ps.VariantName,
				Attributes:  json.RawMessage(ps.Attributes),
			})
			if err != nil {
				return err
			}

			productID := line.ProductID
			items = append(items, models.OrderItem{
				ProductID:       &productID,
				VariantID:       line.VariantID,
				ProductSnapshot: snapshot,
				Price:           ps.Price,
				Quantity:        line.Quantity,
				Subtotal:        subtotal,
			})
		}

		shippingFee := flatShippingFee
		if total.GreaterThanOrEqual(freeShippingThreshold) {
			shippingFee = decimal.Zero
		}
		discount := decimal.Zero // promotions are not computed yet
		payment := total.Add(shippingFee).Sub(discount)

		addrSnapshot, err := json.Marshal(models.AddressSnapshot{
			ReceiverName:  address.ReceiverName,
			ReceiverPhone: address.ReceiverPhone,
			Province:      address.Province,
			City:          address.City,
			District:      address.District,
			Street:        address.Street,
			DetailAddress: address.DetailAddress,
			PostalCode:    address.PostalCode,
		})
		if err != nil {
			return err
		}

		var buyerMessage *string
		if in.BuyerMessage != "" {
			buyerMessage = &in.BuyerMessage
		}

		// The order_no unique index is the real collision guard; retry with a
		// fresh number on duplicate.
		for attempt := 0; ; attempt++ {
			order = &models.Order{
				OrderNo:         tx.Orders.GenerateOrderNo(),
				UserID:          userID,
				Status:          models.OrderStatusPending,
				PaymentStatus:   models.PaymentStatusUnpaid,
				TotalAmount:     total,
				DiscountAmount:  discount,
				ShippingFee:     shippingFee,
				PaymentAmount:   payment,
				ShippingAddress: addrSnapshot,
				BuyerMessage:    buyerMessage,
			}
			err = tx.Orders.Create(ctx, order)
			if err == nil {
				break
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt >= orderNoAttempts-1 {
				return err
			}
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.OrderItems.BulkCreate(ctx, items); err != nil {
			return err
		}

		consumed := make([]uuid.UUID, 0, len(lines))
		for i, line := range lines {
			var ok bool
			if line.VariantID != nil {
				ok, err = tx.Products.AdjustVariantStock(ctx, *line.VariantID, -line.Quantity)
			} else {
				ok, err = tx.Products.AdjustStock(ctx, line.ProductID, -line.Quantity)
			}
			if err != nil {
				return err
			}
			if !ok {
				// stock moved between validation and commit
				var snap models.ProductSnapshot
				_ = json.Unmarshal(items[i].ProductSnapshot, &snap)
				name := snap.Name
				if name == "" {
					name = line.ProductID.String()
				}
				return fmt.Errorf("%w: %s", ErrInsufficientStock, name)
			}
			consumed = append(consumed, line.ID)
		}

		return tx.Carts.RemoveIDs(ctx, userID, consumed)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *orderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	ord, err := s.findOrderFor(ctx, orderID, userID, role)
	if err != nil {
		return nil, err
	}
	if ord.Status != models.OrderStatusPending {
		return nil, ErrInvalidOrderStatus
	}

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		items, err := tx.OrderItems.ListByOrder(ctx, orderID)
		if err != nil {
			return err
		}

		// Restore exactly what checkout consumed, through the same atomic
		// adjust primitive and the same product/variant selection rule.
		for _, item := range items {
			switch {
			case item.VariantID != nil:
				if _, err := tx.Products.AdjustVariantStock(ctx, *item.VariantID, item.Quantity); err != nil {
					return err
				}
			case item.ProductID != nil:
				if _, err := tx.Products.AdjustStock(ctx, *item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		return tx.Orders.UpdateStatus(ctx, orderID, models.OrderStatusCancelled, map[string]time.Time{
			"cancelled_at": s.now(),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Orders.GetByID(ctx, orderID)
}

func (s *orderService) HandlePaymentSuccess(ctx context.Context, orderNo string) (*models.Order, error) {
	ord, err := s.repo.Orders.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	// idempotent: a replayed callback must not re-apply anything
	if ord.PaymentStatus == models.PaymentStatusPaid {
		return ord, nil
	}

	now := s.now()
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.Orders.UpdatePayment(ctx, ord.ID, models.PaymentStatusPaid, now); err != nil {
			return err
		}
		return tx.Orders.UpdateStatus(ctx, ord.ID, models.OrderStatusPaid, map[string]time.Time{
			"paid_at": now,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Orders.GetByID(ctx, ord.ID)
}

func (s *orderService) ShipOrder(ctx context.Context, orderID uuid.UUID, in ShipOrderInput) (*models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if role != models.RoleSeller && role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	ord, err := s.repo.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}

	if role != models.RoleAdmin {
		owned, err := s.sellerOwnsOrder(ctx, ord, userID)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, ErrForbidden
		}
	}

	if ord.Status != models.OrderStatusPaid {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.repo.Orders.UpdateShipping(ctx, orderID, in.ShippingCompany, in.TrackingNumber, s.now()); err != nil {
		return nil, err
	}
	return s.repo.Orders.GetByID(ctx, orderID)
}

// sellerOwnsOrder reports whether every order line's product belongs to the
// seller. Lines whose product was deleted fail the check.
func (s *orderService) sellerOwnsOrder(ctx context.Context, ord *models.Order, sellerID uuid.UUID) (bool, error) {
	items := ord.Items
	if len(items) == 0 {
		var err error
		items, err = s.repo.OrderItems.ListByOrder(ctx, ord.ID)
		if err != nil {
			return false, err
		}
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.ProductID == nil {
			return false, nil
		}
		ids = append(ids, *item.ProductID)
	}

	products, err := s.repo.Products.BatchGetByIDs(ctx, ids)
	if err != nil {
		return false, err
	}
	owners := make(map[uuid.UUID]uuid.UUID, len(products))
	for _, p := range products {
		owners[p.ID] = p.SellerID
	}
	for _, id := range ids {
		if owners[id] != sellerID {
			return false, nil
		}
	}
	return true, nil
}

func (s *orderService) CompleteOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	ord, err := s.findOrderFor(ctx, orderID, userID, role)
	if err != nil {
		return nil, err
	}
	if ord.Status != models.OrderStatusShipped {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.repo.Orders.UpdateStatus(ctx, orderID, models.OrderStatusCompleted, map[string]time.Time{
		"completed_at": s.now(),
	}); err != nil {
		return nil, err
	}
	return s.repo.Orders.GetByID(ctx, orderID)
}

func (s *orderService) GetOrderDetail(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.findOrderFor(ctx, orderID, userID, role)
}

func (s *orderService) ListUserOrders(ctx context.Context, f OrderListFilter) ([]*models.Order, int64, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}

	rf := repository.OrderListFilter{
		Status: f.Status,
		Limit:  f.Limit,
		Offset: f.Offset,
	}
	if role != models.RoleAdmin {
		rf.UserID = &userID
	}
	return s.repo.Orders.List(ctx, rf)
}

func (s *orderService) findOrderFor(ctx context.Context, orderID, userID uuid.UUID, role models.Role) (*models.Order, error) {
	var (
		ord *models.Order
		err error
	)
	if role == models.RoleAdmin {
		ord, err = s.repo.Orders.GetByID(ctx, orderID)
	} else {
		ord, err = s.repo.Orders.GetByIDForUser(ctx, orderID, userID)
	}
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}
