package repository

import (
	"context"
	"errors"
	"storefront/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CartItemDetail is a cart line joined with its product/variant display data.
type CartItemDetail struct {
	ID         uuid.UUID
	ProductID  uuid.UUID
	VariantID  *uuid.UUID
	Quantity   int
	IsSelected bool
	CreatedAt  time.Time

	ProductName        string
	ProductSlug        string
	ProductPrice       decimal.Decimal
	ProductStock       int
	ProductImages      datatypes.JSON
	ProductIsPublished bool

	VariantName       *string
	VariantPrice      *decimal.Decimal
	VariantStock      *int
	VariantAttributes datatypes.JSON
}

type CartRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]CartItemDetail, error)
	ListSelected(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	// GetLine looks up the line for (user, product, variant); a nil variant is
	// a distinct key from any non-nil variant.
	GetLine(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id, userID uuid.UUID, quantity int) (*models.CartItem, error)
	SetSelected(ctx context.Context, id, userID uuid.UUID, selected bool) (*models.CartItem, error)
	Remove(ctx context.Context, id, userID uuid.UUID) error
	// RemoveIDs deletes exactly the given lines; lines added concurrently are
	// untouched.
	RemoveIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

func (r *cartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]CartItemDetail, error) {
	var rows []CartItemDetail
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select(`cart_items.id, cart_items.product_id, cart_items.variant_id,
			cart_items.quantity, cart_items.is_selected, cart_items.created_at,
			products.name AS product_name, products.slug AS product_slug,
			products.price AS product_price, products.stock AS product_stock,
			products.images AS product_images, products.is_published AS product_is_published,
			product_variants.name AS variant_name, product_variants.price AS variant_price,
			product_variants.stock AS variant_stock, product_variants.attributes AS variant_attributes`).
		Joins("LEFT JOIN products ON products.id = cart_items.product_id").
		Joins("LEFT JOIN product_variants ON product_variants.id = cart_items.variant_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *cartRepo) ListSelected(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_selected = TRUE", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *cartRepo) GetLine(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*models.CartItem, error) {
	q := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID)
	if variantID != nil {
		q = q.Where("variant_id = ?", *variantID)
	} else {
		q = q.Where("variant_id IS NULL")
	}

	var item models.CartItem
	err := q.First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *cartRepo) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, id, userID uuid.UUID, quantity int) (*models.CartItem, error) {
	return r.updateLine(ctx, id, userID, map[string]any{"quantity": quantity})
}

func (r *cartRepo) SetSelected(ctx context.Context, id, userID uuid.UUID, selected bool) (*models.CartItem, error) {
	return r.updateLine(ctx, id, userID, map[string]any{"is_selected": selected})
}

func (r *cartRepo) updateLine(ctx context.Context, id, userID uuid.UUID, fields map[string]any) (*models.CartItem, error) {
	tx := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}
	var item models.CartItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepo) Remove(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CartItem{}).Error
}

func (r *cartRepo) RemoveIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.CartItem{}).Error
}

func (r *cartRepo) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt, err
}
