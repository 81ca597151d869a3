package http

import (
	"net/http"
	"strconv"

	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ProductHandler struct {
	svc service.ProductService
	log *zap.Logger
}

func NewProductHandler(svc service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

type productRequest struct {
	CategoryID       *uuid.UUID       `json:"category_id"`
	Name             string           `json:"name" binding:"required"`
	Slug             string           `json:"slug" binding:"required"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description"`
	Price            decimal.Decimal  `json:"price" binding:"required"`
	CompareAtPrice   *decimal.Decimal `json:"compare_at_price"`
	SKU              *string          `json:"sku"`
	Stock            int              `json:"stock"`
	Attributes       datatypes.JSON   `json:"attributes"`
	Images           datatypes.JSON   `json:"images"`
}

// updateProductRequest carries only the fields present in the body, so a
// partial update never clobbers omitted columns.
type updateProductRequest struct {
	CategoryID       *uuid.UUID       `json:"category_id"`
	Name             *string          `json:"name"`
	Slug             *string          `json:"slug"`
	Description      *string          `json:"description"`
	ShortDescription *string          `json:"short_description"`
	Price            *decimal.Decimal `json:"price"`
	CompareAtPrice   *decimal.Decimal `json:"compare_at_price"`
	SKU              *string          `json:"sku"`
	Attributes       datatypes.JSON   `json:"attributes"`
	Images           datatypes.JSON   `json:"images"`
}

func (r updateProductRequest) toFields() map[string]any {
	fields := map[string]any{}
	if r.CategoryID != nil {
		fields["category_id"] = *r.CategoryID
	}
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Slug != nil {
		fields["slug"] = *r.Slug
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.ShortDescription != nil {
		fields["short_description"] = *r.ShortDescription
	}
	if r.Price != nil {
		fields["price"] = *r.Price
	}
	if r.CompareAtPrice != nil {
		fields["compare_at_price"] = *r.CompareAtPrice
	}
	if r.SKU != nil {
		fields["sku"] = *r.SKU
	}
	if r.Attributes != nil {
		fields["attributes"] = r.Attributes
	}
	if r.Images != nil {
		fields["images"] = r.Images
	}
	return fields
}

type variantRequest struct {
	Name           string           `json:"name" binding:"required"`
	SKU            string           `json:"sku" binding:"required"`
	Attributes     datatypes.JSON   `json:"attributes"`
	Price          decimal.Decimal  `json:"price" binding:"required"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	Stock          int              `json:"stock"`
	Image          string           `json:"image"`
}

type updateVariantRequest struct {
	Name           *string          `json:"name"`
	SKU            *string          `json:"sku"`
	Attributes     datatypes.JSON   `json:"attributes"`
	Price          *decimal.Decimal `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	Image          *string          `json:"image"`
}

func (r updateVariantRequest) toFields() map[string]any {
	fields := map[string]any{}
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.SKU != nil {
		fields["sku"] = *r.SKU
	}
	if r.Attributes != nil {
		fields["attributes"] = r.Attributes
	}
	if r.Price != nil {
		fields["price"] = *r.Price
	}
	if r.CompareAtPrice != nil {
		fields["compare_at_price"] = *r.CompareAtPrice
	}
	if r.Image != nil {
		fields["image"] = *r.Image
	}
	return fields
}

type adjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *ProductHandler) List(c *gin.Context) {
	f := repository.ProductListFilter{
		Search: c.Query("search"),
		Limit:  atoiQuery(c, "limit", 20),
		Offset: atoiQuery(c, "offset", 0),
	}
	if v := c.Query("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondValidation(c, err)
			return
		}
		f.CategoryID = &id
	}
	if v := c.Query("seller_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondValidation(c, err)
			return
		}
		f.SellerID = &id
	}
	// Public catalog shows published products only. Sellers and admins
	// see unpublished listings through their own endpoints.
	published := true
	f.IsPublished = &published

	list, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": list, "total": total})
}

// ListMine returns the authenticated seller's products regardless of
// publication state.
func (h *ProductHandler) ListMine(c *gin.Context) {
	userID, ok := service.UserIDFromContext(c.Request.Context())
	if !ok {
		respondError(c, service.ErrUnauthorized)
		return
	}
	f := repository.ProductListFilter{
		SellerID: &userID,
		Search:   c.Query("search"),
		Limit:    atoiQuery(c, "limit", 20),
		Offset:   atoiQuery(c, "offset", 0),
	}
	list, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": list, "total": total})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) GetBySlug(c *gin.Context) {
	p, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), service.ProductInput{
		CategoryID:       req.CategoryID,
		Name:             req.Name,
		Slug:             req.Slug,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		CompareAtPrice:   req.CompareAtPrice,
		SKU:              req.SKU,
		Stock:            req.Stock,
		Attributes:       req.Attributes,
		Images:           req.Images,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, req.toFields())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ProductHandler) Publish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	p, err := h.svc.Publish(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Unpublish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	p, err := h.svc.Unpublish(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	p, err := h.svc.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) ListVariants(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	list, err := h.svc.ListVariants(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"variants": list})
}

func (h *ProductHandler) CreateVariant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	v, err := h.svc.CreateVariant(c.Request.Context(), id, service.VariantInput{
		Name:           req.Name,
		SKU:            req.SKU,
		Attributes:     req.Attributes,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Stock:          req.Stock,
		Image:          req.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	var req updateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	v, err := h.svc.UpdateVariant(c.Request.Context(), id, req.toFields())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *ProductHandler) DeleteVariant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	if err := h.svc.DeleteVariant(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ProductHandler) AdjustVariantStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	v, err := h.svc.AdjustVariantStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func atoiQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
