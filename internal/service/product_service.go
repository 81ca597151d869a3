package service

import (
	"context"
	"storefront/internal/models"
	"storefront/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ProductInput struct {
	CategoryID       *uuid.UUID
	Name             string
	Slug             string
	Description      string
	ShortDescription string
	Price            decimal.Decimal
	CompareAtPrice   *decimal.Decimal
	SKU              *string
	Stock            int
	Attributes       datatypes.JSON
	Images           datatypes.JSON
}

type VariantInput struct {
	Name           string
	SKU            string
	Attributes     datatypes.JSON
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Stock          int
	Image          string
}

type ProductService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	Create(ctx context.Context, in ProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Publish(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*models.Product, error)

	// AdjustStock applies a manual stock correction through the same atomic
	// primitive checkout and cancellation use.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*models.Product, error)

	ListVariants(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error)
	CreateVariant(ctx context.Context, productID uuid.UUID, in VariantInput) (*models.ProductVariant, error)
	UpdateVariant(ctx context.Context, variantID uuid.UUID, fields map[string]any) (*models.ProductVariant, error)
	DeleteVariant(ctx context.Context, variantID uuid.UUID) error
	AdjustVariantStock(ctx context.Context, variantID uuid.UUID, delta int) (*models.ProductVariant, error)
}

type productService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewProductService(repo *repository.Repository) ProductService {
	return &productService{repo: repo, now: time.Now}
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *productService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.repo.Products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *productService) List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.Products.List(ctx, f)
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	sellerID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if role != models.RoleSeller && role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	slug := strings.TrimSpace(in.Slug)
	if existing, err := s.repo.Products.GetBySlug(ctx, slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrSlugTaken
	}

	p := &models.Product{
		CategoryID:       in.CategoryID,
		SellerID:         sellerID,
		Name:             strings.TrimSpace(in.Name),
		Slug:             slug,
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		Price:            in.Price,
		CompareAtPrice:   in.CompareAtPrice,
		SKU:              in.SKU,
		Stock:            in.Stock,
		Attributes:       in.Attributes,
		Images:           in.Images,
		Status:           models.ProductStatusDraft,
	}
	if err := s.repo.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Product, error) {
	p, err := s.requireOwnedProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return p, nil
	}
	fields["updated_at"] = s.now()
	if err := s.repo.Products.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.Products.GetByID(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.requireOwnedProduct(ctx, id); err != nil {
		return err
	}
	_, err := s.repo.Products.Delete(ctx, id)
	return err
}

func (s *productService) Publish(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.setPublished(ctx, id, true)
}

func (s *productService) Unpublish(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.setPublished(ctx, id, false)
}

func (s *productService) setPublished(ctx context.Context, id uuid.UUID, published bool) (*models.Product, error) {
	if _, err := s.requireOwnedProduct(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"is_published": published,
		"updated_at":   s.now(),
	}
	if published {
		fields["status"] = models.ProductStatusActive
		fields["published_at"] = s.now()
	} else {
		fields["status"] = models.ProductStatusArchived
	}
	if err := s.repo.Products.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.Products.GetByID(ctx, id)
}

func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*models.Product, error) {
	if _, err := s.requireOwnedProduct(ctx, id); err != nil {
		return nil, err
	}
	ok, err := s.repo.Products.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientStock
	}
	return s.repo.Products.GetByID(ctx, id)
}

func (s *productService) ListVariants(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error) {
	return s.repo.Products.ListVariants(ctx, productID)
}

func (s *productService) CreateVariant(ctx context.Context, productID uuid.UUID, in VariantInput) (*models.ProductVariant, error) {
	if _, err := s.requireOwnedProduct(ctx, productID); err != nil {
		return nil, err
	}

	v := &models.ProductVariant{
		ProductID:      productID,
		Name:           strings.TrimSpace(in.Name),
		SKU:            strings.TrimSpace(in.SKU),
		Attributes:     in.Attributes,
		Price:          in.Price,
		CompareAtPrice: in.CompareAtPrice,
		Stock:          in.Stock,
		Image:          in.Image,
		IsActive:       true,
	}
	if err := s.repo.Products.CreateVariant(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *productService) UpdateVariant(ctx context.Context, variantID uuid.UUID, fields map[string]any) (*models.ProductVariant, error) {
	v, err := s.requireOwnedVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return v, nil
	}
	fields["updated_at"] = s.now()
	if err := s.repo.Products.UpdateVariantFields(ctx, variantID, fields); err != nil {
		return nil, err
	}
	return s.repo.Products.GetVariant(ctx, variantID)
}

func (s *productService) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	if _, err := s.requireOwnedVariant(ctx, variantID); err != nil {
		return err
	}
	_, err := s.repo.Products.DeleteVariant(ctx, variantID)
	return err
}

func (s *productService) AdjustVariantStock(ctx context.Context, variantID uuid.UUID, delta int) (*models.ProductVariant, error) {
	if _, err := s.requireOwnedVariant(ctx, variantID); err != nil {
		return nil, err
	}
	ok, err := s.repo.Products.AdjustVariantStock(ctx, variantID, delta)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientStock
	}
	return s.repo.Products.GetVariant(ctx, variantID)
}

func (s *productService) requireOwnedProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if role != models.RoleAdmin && !(role == models.RoleSeller && p.SellerID == userID) {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *productService) requireOwnedVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, error) {
	v, err := s.repo.Products.GetVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVariantNotFound
	}
	if _, err := s.requireOwnedProduct(ctx, v.ProductID); err != nil {
		return nil, err
	}
	return v, nil
}
