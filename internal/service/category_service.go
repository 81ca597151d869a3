package service

import (
	"context"
	"storefront/internal/models"
	"storefront/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	ParentID    *uuid.UUID
	ImageURL    string
	SortOrder   int
	IsActive    bool
}

type CategoryService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context, onlyActive bool) ([]models.Category, error)
	Create(ctx context.Context, in CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewCategoryService(repo *repository.Repository) CategoryService {
	return &categoryService{repo: repo, now: time.Now}
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.repo.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (s *categoryService) List(ctx context.Context, onlyActive bool) ([]models.Category, error) {
	return s.repo.Categories.List(ctx, onlyActive)
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		parent, err := s.repo.Categories.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCategoryNotFound
		}
	}

	c := &models.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        strings.TrimSpace(in.Slug),
		Description: in.Description,
		ParentID:    in.ParentID,
		ImageURL:    in.ImageURL,
		SortOrder:   in.SortOrder,
		IsActive:    in.IsActive,
	}
	if err := s.repo.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	c, err := s.repo.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}

	if in.ParentID != nil {
		if err := s.checkNoCycle(ctx, id, *in.ParentID); err != nil {
			return nil, err
		}
	}

	err = s.repo.Categories.UpdateFields(ctx, id, map[string]any{
		"name":        strings.TrimSpace(in.Name),
		"slug":        strings.TrimSpace(in.Slug),
		"description": in.Description,
		"parent_id":   in.ParentID,
		"image_url":   in.ImageURL,
		"sort_order":  in.SortOrder,
		"is_active":   in.IsActive,
		"updated_at":  s.now(),
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Categories.GetByID(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	ok, err := s.repo.Categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}

// checkNoCycle walks the parent chain from the proposed parent up to the
// root; reaching the category being reparented means the move would create a
// cycle.
func (s *categoryService) checkNoCycle(ctx context.Context, id, parentID uuid.UUID) error {
	cur := &parentID
	for cur != nil {
		if *cur == id {
			return ErrCategoryCycle
		}
		parent, err := s.repo.Categories.GetByID(ctx, *cur)
		if err != nil {
			return err
		}
		if parent == nil {
			return ErrCategoryNotFound
		}
		cur = parent.ParentID
	}
	return nil
}

func (s *categoryService) requireAdmin(ctx context.Context) error {
	_, role, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
