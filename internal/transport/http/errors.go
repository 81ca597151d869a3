package http

import (
	"errors"
	"net/http"

	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// APIError is the wire format for every failed response.
// Code is a machine-oriented snake_case identifier, Message a short
// human-readable description, Details an optional free-form fragment.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type errorClass struct {
	Status int
	Code   string
}

// errorClasses maps service sentinels onto HTTP status and wire code.
// Handlers never switch on errors themselves, they call respondError.
var errorClasses = map[error]errorClass{
	service.ErrUnauthorized:       {http.StatusUnauthorized, "unauthorized"},
	service.ErrInvalidCredentials: {http.StatusUnauthorized, "invalid_credentials"},
	service.ErrUserInactive:       {http.StatusForbidden, "user_inactive"},
	service.ErrForbidden:          {http.StatusForbidden, "forbidden"},
	service.ErrEmailTaken:         {http.StatusConflict, "email_taken"},
	service.ErrSlugTaken:          {http.StatusConflict, "slug_taken"},
	service.ErrSKUTaken:           {http.StatusConflict, "sku_taken"},
	service.ErrUserNotFound:       {http.StatusNotFound, "user_not_found"},
	service.ErrAddressNotFound:    {http.StatusNotFound, "address_not_found"},
	service.ErrCartItemNotFound:   {http.StatusNotFound, "cart_item_not_found"},
	service.ErrProductNotFound:    {http.StatusNotFound, "product_not_found"},
	service.ErrVariantNotFound:    {http.StatusNotFound, "variant_not_found"},
	service.ErrCategoryNotFound:   {http.StatusNotFound, "category_not_found"},
	service.ErrOrderNotFound:      {http.StatusNotFound, "order_not_found"},
	service.ErrInvalidAddress:     {http.StatusBadRequest, "invalid_address"},
	service.ErrInvalidQuantity:    {http.StatusBadRequest, "invalid_quantity"},
	service.ErrEmptyCart:          {http.StatusBadRequest, "empty_cart"},
	service.ErrCategoryCycle:      {http.StatusBadRequest, "category_cycle"},
	service.ErrProductUnavailable: {http.StatusConflict, "product_unavailable"},
	service.ErrInsufficientStock:  {http.StatusConflict, "insufficient_stock"},
	service.ErrInvalidOrderStatus: {http.StatusConflict, "invalid_order_status"},
}

func respondError(c *gin.Context, err error) {
	for sentinel, class := range errorClasses {
		if errors.Is(err, sentinel) {
			c.JSON(class.Status, APIError{Code: class.Code, Message: err.Error()})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, APIError{Code: "internal_error", Message: "internal server error"})
}

func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, APIError{Code: "validation_error", Message: "invalid request body", Details: err.Error()})
}
