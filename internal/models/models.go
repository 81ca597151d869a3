package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text;not null"`
	DisplayName  string    `gorm:"type:varchar(100);not null"`
	Role         Role      `gorm:"type:text;not null;default:'customer'"`
	IsActive     bool      `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

type Address struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ReceiverName  string    `gorm:"type:varchar(100);not null"`
	ReceiverPhone string    `gorm:"type:varchar(20);not null"`
	Province      string    `gorm:"type:varchar(50);not null"`
	City          string    `gorm:"type:varchar(50);not null"`
	District      string    `gorm:"type:varchar(50);not null"`
	Street        string    `gorm:"type:varchar(200);not null"`
	DetailAddress string    `gorm:"type:varchar(200);not null"`
	PostalCode    string    `gorm:"type:varchar(10)"`
	Label         string    `gorm:"type:varchar(20)"`
	IsDefault     bool      `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Address) TableName() string { return "addresses" }

type Category struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string     `gorm:"type:varchar(100);not null"`
	Slug        string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string     `gorm:"type:text"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	ImageURL    string     `gorm:"type:varchar(500)"`
	SortOrder   int        `gorm:"not null;default:0"`
	IsActive    bool       `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Category) TableName() string { return "categories" }

type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

type Product struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index"`
	SellerID   uuid.UUID  `gorm:"type:uuid;not null;index"`

	Name             string `gorm:"type:varchar(255);not null"`
	Slug             string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description      string `gorm:"type:text"`
	ShortDescription string `gorm:"type:varchar(500)"`

	Price          decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`

	SKU               *string `gorm:"type:varchar(100);uniqueIndex"`
	Stock             int     `gorm:"not null;default:0"`
	LowStockThreshold int     `gorm:"not null;default:10"`

	Attributes datatypes.JSON `gorm:"type:jsonb"`
	Images     datatypes.JSON `gorm:"type:jsonb"`

	Status      ProductStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	IsPublished bool          `gorm:"not null;default:false"`
	PublishedAt *time.Time

	SalesCount int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Product) TableName() string { return "products" }

type ProductVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`

	Name       string         `gorm:"type:varchar(255);not null"`
	SKU        string         `gorm:"type:varchar(100);not null;uniqueIndex"`
	Attributes datatypes.JSON `gorm:"type:jsonb;not null"`

	Price          decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Stock          int              `gorm:"not null;default:0"`

	Image    string `gorm:"type:varchar(500)"`
	IsActive bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (ProductVariant) TableName() string { return "product_variants" }

type CartItem struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null"`
	VariantID  *uuid.UUID `gorm:"type:uuid"`
	Quantity   int        `gorm:"not null;default:1"`
	IsSelected bool       `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (CartItem) TableName() string { return "cart_items" }

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// AddressSnapshot is the shipping address copied onto an order at checkout.
// Orders must stay readable after the source address is edited or deleted.
type AddressSnapshot struct {
	ReceiverName  string `json:"receiverName"`
	ReceiverPhone string `json:"receiverPhone"`
	Province      string `json:"province"`
	City          string `json:"city"`
	District      string `json:"district"`
	Street        string `json:"street"`
	DetailAddress string `json:"detailAddress"`
	PostalCode    string `json:"postalCode,omitempty"`
}

// ProductSnapshot is the product state captured per order line at purchase
// time, immune to later product edits.
type ProductSnapshot struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Image       string          `json:"image"`
	SKU         string          `json:"sku,omitempty"`
	VariantName string          `json:"variantName,omitempty"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
}

type Order struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNo string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`

	Status        OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid'"`

	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ShippingFee    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PaymentAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	ShippingAddress datatypes.JSON `gorm:"type:jsonb;not null"`

	ShippingCompany *string `gorm:"type:varchar(50)"`
	TrackingNumber  *string `gorm:"type:varchar(100)"`
	BuyerMessage    *string `gorm:"type:text"`
	SellerNote      *string `gorm:"type:text"`

	PaidAt      *time.Time
	ShippedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID *uuid.UUID `gorm:"type:uuid"`
	VariantID *uuid.UUID `gorm:"type:uuid"`

	ProductSnapshot datatypes.JSON `gorm:"type:jsonb;not null"`

	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity int             `gorm:"not null"`
	Subtotal decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }
