package service

import (
	"context"
	"storefront/internal/models"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

type AddCartInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

type CartService interface {
	// Add puts a product (or variant) into the caller's cart, merging the
	// quantity into an existing line for the same product/variant key.
	Add(ctx context.Context, in AddCartInput) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) (*models.CartItem, error)
	ToggleSelected(ctx context.Context, lineID uuid.UUID, selected bool) (*models.CartItem, error)
	Remove(ctx context.Context, lineID uuid.UUID) error
	List(ctx context.Context) ([]repository.CartItemDetail, error)
	Count(ctx context.Context) (int64, error)
}

type cartService struct {
	repo *repository.Repository
}

func NewCartService(repo *repository.Repository) CartService {
	return &cartService{repo: repo}
}

func (s *cartService) Add(ctx context.Context, in AddCartInput) (*models.CartItem, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.repo.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsPublished {
		return nil, ErrProductUnavailable
	}
	if in.VariantID != nil {
		variant, err := s.repo.Products.GetVariant(ctx, *in.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || variant.ProductID != in.ProductID {
			return nil, ErrVariantNotFound
		}
	}

	existing, err := s.repo.Carts.GetLine(ctx, userID, in.ProductID, in.VariantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.repo.Carts.UpdateQuantity(ctx, existing.ID, userID, existing.Quantity+in.Quantity)
	}

	item := &models.CartItem{
		UserID:     userID,
		ProductID:  in.ProductID,
		VariantID:  in.VariantID,
		Quantity:   in.Quantity,
		IsSelected: true,
	}
	if err := s.repo.Carts.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) (*models.CartItem, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.repo.Carts.UpdateQuantity(ctx, lineID, userID, quantity)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	return item, nil
}

func (s *cartService) ToggleSelected(ctx context.Context, lineID uuid.UUID, selected bool) (*models.CartItem, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.Carts.SetSelected(ctx, lineID, userID, selected)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	return item, nil
}

func (s *cartService) Remove(ctx context.Context, lineID uuid.UUID) error {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	return s.repo.Carts.Remove(ctx, lineID, userID)
}

func (s *cartService) List(ctx context.Context) ([]repository.CartItemDetail, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Carts.ListByUser(ctx, userID)
}

func (s *cartService) Count(ctx context.Context) (int64, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return 0, err
	}
	return s.repo.Carts.Count(ctx, userID)
}
