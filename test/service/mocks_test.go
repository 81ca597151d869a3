package service_test

import (
	"context"
	"sync"
	"time"

	"storefront/internal/models"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// Func-field mocks for the repository interfaces. With a nil DB the
// Repository bundle runs transactional closures against the same bundle, so
// services can be exercised without a database.

type MockUserRepo struct {
	CreateFunc        func(ctx context.Context, u *models.User) error
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*models.User, error)
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
}

func (m *MockUserRepo) Create(ctx context.Context, u *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

type MockAddressRepo struct {
	ListByUserFunc   func(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	GetOwnedFunc     func(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
	CreateFunc       func(ctx context.Context, a *models.Address) error
	UpdateFunc       func(ctx context.Context, id, userID uuid.UUID, fields map[string]any) (*models.Address, error)
	DeleteFunc       func(ctx context.Context, id, userID uuid.UUID) (bool, error)
	SetDefaultFunc   func(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
	ClearDefaultFunc func(ctx context.Context, userID uuid.UUID) error
}

func (m *MockAddressRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAddressRepo) GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	if m.GetOwnedFunc != nil {
		return m.GetOwnedFunc(ctx, id, userID)
	}
	return nil, nil
}

func (m *MockAddressRepo) Create(ctx context.Context, a *models.Address) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, a)
	}
	return nil
}

func (m *MockAddressRepo) Update(ctx context.Context, id, userID uuid.UUID, fields map[string]any) (*models.Address, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, userID, fields)
	}
	return nil, nil
}

func (m *MockAddressRepo) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, userID)
	}
	return false, nil
}

func (m *MockAddressRepo) SetDefault(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	if m.SetDefaultFunc != nil {
		return m.SetDefaultFunc(ctx, id, userID)
	}
	return nil, nil
}

func (m *MockAddressRepo) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	if m.ClearDefaultFunc != nil {
		return m.ClearDefaultFunc(ctx, userID)
	}
	return nil
}

type MockCategoryRepo struct {
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetBySlugFunc    func(ctx context.Context, slug string) (*models.Category, error)
	ListFunc         func(ctx context.Context, onlyActive bool) ([]models.Category, error)
	ListChildrenFunc func(ctx context.Context, parentID uuid.UUID) ([]models.Category, error)
	CreateFunc       func(ctx context.Context, c *models.Category) error
	UpdateFieldsFunc func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	DeleteFunc       func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCategoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *MockCategoryRepo) List(ctx context.Context, onlyActive bool) ([]models.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, onlyActive)
	}
	return nil, nil
}

func (m *MockCategoryRepo) ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	if m.ListChildrenFunc != nil {
		return m.ListChildrenFunc(ctx, parentID)
	}
	return nil, nil
}

func (m *MockCategoryRepo) Create(ctx context.Context, c *models.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *MockCategoryRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

func (m *MockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

type MockProductRepo struct {
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySlugFunc     func(ctx context.Context, slug string) (*models.Product, error)
	BatchGetByIDsFunc func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	ListFunc          func(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	CreateFunc        func(ctx context.Context, p *models.Product) error
	UpdateFieldsFunc  func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	DeleteFunc        func(ctx context.Context, id uuid.UUID) (bool, error)

	GetVariantFunc          func(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	ListVariantsFunc        func(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error)
	CreateVariantFunc       func(ctx context.Context, v *models.ProductVariant) error
	UpdateVariantFieldsFunc func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	DeleteVariantFunc       func(ctx context.Context, id uuid.UUID) (bool, error)

	PriceAndStockFunc      func(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*repository.PriceStock, error)
	AdjustStockFunc        func(ctx context.Context, productID uuid.UUID, delta int) (bool, error)
	AdjustVariantStockFunc func(ctx context.Context, variantID uuid.UUID, delta int) (bool, error)
}

func (m *MockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, nil
}

func (m *MockProductRepo) BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if m.BatchGetByIDsFunc != nil {
		return m.BatchGetByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockProductRepo) List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockProductRepo) Create(ctx context.Context, p *models.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

func (m *MockProductRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

func (m *MockProductRepo) GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	if m.GetVariantFunc != nil {
		return m.GetVariantFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepo) ListVariants(ctx context.Context, productID uuid.UUID) ([]models.ProductVariant, error) {
	if m.ListVariantsFunc != nil {
		return m.ListVariantsFunc(ctx, productID)
	}
	return nil, nil
}

func (m *MockProductRepo) CreateVariant(ctx context.Context, v *models.ProductVariant) error {
	if m.CreateVariantFunc != nil {
		return m.CreateVariantFunc(ctx, v)
	}
	return nil
}

func (m *MockProductRepo) UpdateVariantFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.UpdateVariantFieldsFunc != nil {
		return m.UpdateVariantFieldsFunc(ctx, id, fields)
	}
	return nil
}

func (m *MockProductRepo) DeleteVariant(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteVariantFunc != nil {
		return m.DeleteVariantFunc(ctx, id)
	}
	return false, nil
}

func (m *MockProductRepo) PriceAndStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*repository.PriceStock, error) {
	if m.PriceAndStockFunc != nil {
		return m.PriceAndStockFunc(ctx, productID, variantID)
	}
	return nil, nil
}

func (m *MockProductRepo) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (bool, error) {
	if m.AdjustStockFunc != nil {
		return m.AdjustStockFunc(ctx, productID, delta)
	}
	return true, nil
}

func (m *MockProductRepo) AdjustVariantStock(ctx context.Context, variantID uuid.UUID, delta int) (bool, error) {
	if m.AdjustVariantStockFunc != nil {
		return m.AdjustVariantStockFunc(ctx, variantID, delta)
	}
	return true, nil
}

type MockCartRepo struct {
	ListByUserFunc     func(ctx context.Context, userID uuid.UUID) ([]repository.CartItemDetail, error)
	ListSelectedFunc   func(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	GetLineFunc        func(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*models.CartItem, error)
	CreateFunc         func(ctx context.Context, item *models.CartItem) error
	UpdateQuantityFunc func(ctx context.Context, id, userID uuid.UUID, quantity int) (*models.CartItem, error)
	SetSelectedFunc    func(ctx context.Context, id, userID uuid.UUID, selected bool) (*models.CartItem, error)
	RemoveFunc         func(ctx context.Context, id, userID uuid.UUID) error
	RemoveIDsFunc      func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	CountFunc          func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (m *MockCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]repository.CartItemDetail, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockCartRepo) ListSelected(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if m.ListSelectedFunc != nil {
		return m.ListSelectedFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockCartRepo) GetLine(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*models.CartItem, error) {
	if m.GetLineFunc != nil {
		return m.GetLineFunc(ctx, userID, productID, variantID)
	}
	return nil, nil
}

func (m *MockCartRepo) Create(ctx context.Context, item *models.CartItem) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	return nil
}

func (m *MockCartRepo) UpdateQuantity(ctx context.Context, id, userID uuid.UUID, quantity int) (*models.CartItem, error) {
	if m.UpdateQuantityFunc != nil {
		return m.UpdateQuantityFunc(ctx, id, userID, quantity)
	}
	return nil, nil
}

func (m *MockCartRepo) SetSelected(ctx context.Context, id, userID uuid.UUID, selected bool) (*models.CartItem, error) {
	if m.SetSelectedFunc != nil {
		return m.SetSelectedFunc(ctx, id, userID, selected)
	}
	return nil, nil
}

func (m *MockCartRepo) Remove(ctx context.Context, id, userID uuid.UUID) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id, userID)
	}
	return nil
}

func (m *MockCartRepo) RemoveIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if m.RemoveIDsFunc != nil {
		return m.RemoveIDsFunc(ctx, userID, ids)
	}
	return nil
}

func (m *MockCartRepo) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, userID)
	}
	return 0, nil
}

type MockOrderRepo struct {
	CreateFunc          func(ctx context.Context, o *models.Order) error
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUserFunc  func(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	GetByOrderNoFunc    func(ctx context.Context, orderNo string) (*models.Order, error)
	ListFunc            func(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error)
	UpdateStatusFunc    func(ctx context.Context, id uuid.UUID, status models.OrderStatus, timestamps map[string]time.Time) error
	UpdatePaymentFunc   func(ctx context.Context, id uuid.UUID, status models.PaymentStatus, paidAt time.Time) error
	UpdateShippingFunc  func(ctx context.Context, id uuid.UUID, shippingCompany, trackingNumber string, shippedAt time.Time) error
	GenerateOrderNoFunc func() string
}

func (m *MockOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	return nil
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	if m.GetByIDForUserFunc != nil {
		return m.GetByIDForUserFunc(ctx, id, userID)
	}
	return nil, nil
}

func (m *MockOrderRepo) GetByOrderNo(ctx context.Context, orderNo string) (*models.Order, error) {
	if m.GetByOrderNoFunc != nil {
		return m.GetByOrderNoFunc(ctx, orderNo)
	}
	return nil, nil
}

func (m *MockOrderRepo) List(ctx context.Context, f repository.OrderListFilter) ([]*models.Order, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, timestamps map[string]time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, timestamps)
	}
	return nil
}

func (m *MockOrderRepo) UpdatePayment(ctx context.Context, id uuid.UUID, status models.PaymentStatus, paidAt time.Time) error {
	if m.UpdatePaymentFunc != nil {
		return m.UpdatePaymentFunc(ctx, id, status, paidAt)
	}
	return nil
}

func (m *MockOrderRepo) UpdateShipping(ctx context.Context, id uuid.UUID, shippingCompany, trackingNumber string, shippedAt time.Time) error {
	if m.UpdateShippingFunc != nil {
		return m.UpdateShippingFunc(ctx, id, shippingCompany, trackingNumber, shippedAt)
	}
	return nil
}

func (m *MockOrderRepo) GenerateOrderNo() string {
	if m.GenerateOrderNoFunc != nil {
		return m.GenerateOrderNoFunc()
	}
	return "20250101000001"
}

type MockOrderItemRepo struct {
	BulkCreateFunc  func(ctx context.Context, items []models.OrderItem) error
	ListByOrderFunc func(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
}

func (m *MockOrderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if m.BulkCreateFunc != nil {
		return m.BulkCreateFunc(ctx, items)
	}
	return nil
}

func (m *MockOrderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	if m.ListByOrderFunc != nil {
		return m.ListByOrderFunc(ctx, orderID)
	}
	return nil, nil
}

func newMockRepository() (*repository.Repository, *MockUserRepo, *MockAddressRepo, *MockCartRepo, *MockProductRepo, *MockOrderRepo, *MockOrderItemRepo) {
	users := &MockUserRepo{}
	addresses := &MockAddressRepo{}
	carts := &MockCartRepo{}
	products := &MockProductRepo{}
	orders := &MockOrderRepo{}
	orderItems := &MockOrderItemRepo{}
	repo := &repository.Repository{
		Users:      users,
		Addresses:  addresses,
		Categories: &MockCategoryRepo{},
		Products:   products,
		Carts:      carts,
		Orders:     orders,
		OrderItems: orderItems,
	}
	return repo, users, addresses, carts, products, orders, orderItems
}

// stockCounter is a concurrency-safe fake stock table for race tests on the
// conditional decrement contract.
type stockCounter struct {
	mu    sync.Mutex
	stock map[uuid.UUID]int
}

func newStockCounter() *stockCounter {
	return &stockCounter{stock: make(map[uuid.UUID]int)}
}

func (s *stockCounter) set(id uuid.UUID, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[id] = n
}

func (s *stockCounter) get(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock[id]
}

// adjust applies delta only when the result stays non-negative, mirroring
// the SQL conditional UPDATE.
func (s *stockCounter) adjust(id uuid.UUID, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stock[id]+delta < 0 {
		return false
	}
	s.stock[id] += delta
	return true
}
