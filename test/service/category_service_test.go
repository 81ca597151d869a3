package service_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/google/uuid"
)

func newCategoryService() (service.CategoryService, *MockCategoryRepo) {
	categories := &MockCategoryRepo{}
	repo := &repository.Repository{Categories: categories}
	return service.NewCategoryService(repo), categories
}

func TestCategoryCreate_AdminOnly(t *testing.T) {
	svc, _ := newCategoryService()

	_, err := svc.Create(authedCtx(uuid.New(), models.RoleSeller), service.CategoryInput{Name: "Books", Slug: "books"})
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCategoryCreate_ParentMustExist(t *testing.T) {
	svc, _ := newCategoryService()

	parentID := uuid.New()
	_, err := svc.Create(authedCtx(uuid.New(), models.RoleAdmin), service.CategoryInput{Name: "Books", Slug: "books", ParentID: &parentID})
	if !errors.Is(err, service.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryUpdate_RejectsCycle(t *testing.T) {
	svc, categories := newCategoryService()

	// a -> b -> c, then try to reparent a under c
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	nodes := map[uuid.UUID]*models.Category{
		a: {ID: a, Name: "A", Slug: "a"},
		b: {ID: b, Name: "B", Slug: "b", ParentID: &a},
		c: {ID: c, Name: "C", Slug: "c", ParentID: &b},
	}
	categories.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Category, error) {
		return nodes[id], nil
	}

	_, err := svc.Update(authedCtx(uuid.New(), models.RoleAdmin), a, service.CategoryInput{Name: "A", Slug: "a", ParentID: &c})
	if !errors.Is(err, service.ErrCategoryCycle) {
		t.Fatalf("expected ErrCategoryCycle, got %v", err)
	}

	// self-parenting is the degenerate cycle
	_, err = svc.Update(authedCtx(uuid.New(), models.RoleAdmin), a, service.CategoryInput{Name: "A", Slug: "a", ParentID: &a})
	if !errors.Is(err, service.ErrCategoryCycle) {
		t.Fatalf("expected ErrCategoryCycle for self-parent, got %v", err)
	}
}

func TestCategoryUpdate_ValidReparent(t *testing.T) {
	svc, categories := newCategoryService()

	root := uuid.New()
	leaf := uuid.New()

	nodes := map[uuid.UUID]*models.Category{
		root: {ID: root, Name: "Root", Slug: "root"},
		leaf: {ID: leaf, Name: "Leaf", Slug: "leaf"},
	}
	categories.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.Category, error) {
		return nodes[id], nil
	}

	var updated map[string]any
	categories.UpdateFieldsFunc = func(ctx context.Context, id uuid.UUID, fields map[string]any) error {
		updated = fields
		return nil
	}

	_, err := svc.Update(authedCtx(uuid.New(), models.RoleAdmin), leaf, service.CategoryInput{Name: "Leaf", Slug: "leaf", ParentID: &root})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated == nil {
		t.Fatal("expected fields to be written")
	}
}

func TestCategoryDelete_NotFound(t *testing.T) {
	svc, _ := newCategoryService()

	err := svc.Delete(authedCtx(uuid.New(), models.RoleAdmin), uuid.New())
	if !errors.Is(err, service.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}
