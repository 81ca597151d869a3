package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"storefront/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderListFilter struct {
	UserID *uuid.UUID
	Status *models.OrderStatus
	Limit  int
	Offset int
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	GetByOrderNo(ctx context.Context, orderNo string) (*models.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]*models.Order, int64, error)
	// UpdateStatus sets the status plus any lifecycle timestamps
	// (paid_at, shipped_at, completed_at, cancelled_at).
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, timestamps map[string]time.Time) error
	UpdatePayment(ctx context.Context, id uuid.UUID, status models.PaymentStatus, paidAt time.Time) error
	UpdateShipping(ctx context.Context, id uuid.UUID, shippingCompany, trackingNumber string, shippedAt time.Time) error
	// GenerateOrderNo produces a date-prefixed human-readable order number.
	// Uniqueness is enforced by the order_no unique index; callers retry on
	// collision.
	GenerateOrderNo() string
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&ord, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetByOrderNo(ctx context.Context, orderNo string) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&ord, "order_no = ?", orderNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]*models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []*models.Order
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Preload("Items").Find(&list).Error
	return list, total, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, timestamps map[string]time.Time) error {
	upd := map[string]any{"status": status}
	for col, ts := range timestamps {
		upd[col] = ts
	}
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(upd).Error
}

func (r *orderRepo) UpdatePayment(ctx context.Context, id uuid.UUID, status models.PaymentStatus, paidAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]any{
		"payment_status": status,
		"paid_at":        paidAt,
	}).Error
}

func (r *orderRepo) UpdateShipping(ctx context.Context, id uuid.UUID, shippingCompany, trackingNumber string, shippedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]any{
		"status":           models.OrderStatusShipped,
		"shipping_company": shippingCompany,
		"tracking_number":  trackingNumber,
		"shipped_at":       shippedAt,
	}).Error
}

// GenerateOrderNo: YYYYMMDD followed by six random digits.
func (r *orderRepo) GenerateOrderNo() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % 1_000_000)
	}
	return fmt.Sprintf("%s%06d", time.Now().Format("20060102"), n.Int64())
}
