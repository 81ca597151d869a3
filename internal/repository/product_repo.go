package repository

import (
	"context"
	"encoding/json"
	"errors"
	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductListFilter struct {
	CategoryID  *uuid.UUID
	SellerID    *uuid.UUID
	Status      *models.ProductStatus
	IsPublished *bool
	Search      string
	Limit       int
	Offset      int
}

// PriceStock is the authoritative price/stock view for one cart line: the
// variant's numbers when a variant is referenced, the product's otherwise,
// together with the snapshot fields captured at purchase time.
type PriceStock struct {
	Price       decimal.Decimal
	Stock       int
	IsPublished bool

	ProductName string
	ProductSlug string
	Image       string
	SKU         string
	VariantName string
	Attributes  datatypes.JSON
}

type ProductRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error)
	Create(ctx context.Context, p *models.Product) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	ListVariants(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error)
	CreateVariant(ctx context.Context, v *models.ProductVariant) error
	UpdateVariantFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	DeleteVariant(ctx context.Context, id uuid.UUID) (bool, error)

	// PriceAndStock resolves the authoritative price/stock for a product or
	// one of its variants. Returns nil when the reference does not resolve.
	PriceAndStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*PriceStock, error)

	// AdjustStock atomically applies delta (may be negative) to the product
	// stock counter. Returns false when the result would go below zero; no
	// change is applied in that case.
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (bool, error)
	// AdjustVariantStock is AdjustStock for a variant counter.
	AdjustVariantStock(ctx context.Context, variantID uuid.UUID, delta int) (bool, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *productRepo) List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.SellerID != nil {
		q = q.Where("seller_id = ?", *f.SellerID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.IsPublished != nil {
		q = q.Where("is_published = ?", *f.IsPublished)
	}
	if f.Search != "" {
		q = q.Where("name ILIKE ? OR description ILIKE ?", "%"+f.Search+"%", "%"+f.Search+"%")
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

	var rows []models.Product
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error
	return rows, total, err
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var v models.ProductVariant
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &v, err
}

func (r *productRepo) ListVariants(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error) {
	var rows []models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *productRepo) CreateVariant(ctx context.Context, v *models.ProductVariant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *productRepo) UpdateVariantFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.ProductVariant{}).Where("id = ?", id).Updates(fields).Error
}

func (r *productRepo) DeleteVariant(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProductVariant{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) PriceAndStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*PriceStock, error) {
	p, err := r.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	ps := &PriceStock{
		Price:       p.Price,
		Stock:       p.Stock,
		IsPublished: p.IsPublished,
		ProductName: p.Name,
		ProductSlug: p.Slug,
		Image:       firstImage(p.Images),
	}
	if p.SKU != nil {
		ps.SKU = *p.SKU
	}

	if variantID == nil {
		return ps, nil
	}

	v, err := r.GetVariant(ctx, *variantID)
	if err != nil {
		return nil, err
	}
	if v == nil || v.ProductID != productID {
		return nil, nil
	}

	ps.Price = v.Price
	ps.Stock = v.Stock
	ps.SKU = v.SKU
	ps.VariantName = v.Name
	ps.Attributes = v.Attributes
	if v.Image != "" {
		ps.Image = v.Image
	}
	return ps, nil
}

func (r *productRepo) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock = stock + @delta,
    updated_at = now()
WHERE id = @pid
  AND stock + @delta >= 0
`, map[string]any{
		"pid":   productID,
		"delta": delta,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) AdjustVariantStock(ctx context.Context, variantID uuid.UUID, delta int) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE product_variants
SET stock = stock + @delta,
    updated_at = now()
WHERE id = @vid
  AND stock + @delta >= 0
`, map[string]any{
		"vid":   variantID,
		"delta": delta,
	})
	return tx.RowsAffected > 0, tx.Error
}

func firstImage(images datatypes.JSON) string {
	if len(images) == 0 {
		return ""
	}
	var urls []string
	if err := json.Unmarshal(images, &urls); err != nil || len(urls) == 0 {
		return ""
	}
	return urls[0]
}
