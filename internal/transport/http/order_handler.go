package http

import (
	"net/http"

	"storefront/internal/models"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	svc service.OrderService
	log *zap.Logger
}

func NewOrderHandler(svc service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

type checkoutRequest struct {
	AddressID    uuid.UUID `json:"address_id" binding:"required"`
	BuyerMessage string    `json:"buyer_message"`
}

type shipOrderRequest struct {
	ShippingCompany string `json:"shipping_company" binding:"required"`
	TrackingNumber  string `json:"tracking_number" binding:"required"`
}

type paymentCallbackRequest struct {
	OrderNo string `json:"order_no" binding:"required"`
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	o, err := h.svc.CreateOrderFromCart(c.Request.Context(), service.CheckoutInput{
		AddressID:    req.AddressID,
		BuyerMessage: req.BuyerMessage,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) List(c *gin.Context) {
	f := service.OrderListFilter{
		Limit:  atoiQuery(c, "limit", 20),
		Offset: atoiQuery(c, "offset", 0),
	}
	if v := c.Query("status"); v != "" {
		st := models.OrderStatus(v)
		f.Status = &st
	}
	list, total, err := h.svc.ListUserOrders(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list, "total": total})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	o, err := h.svc.GetOrderDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	o, err := h.svc.CancelOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	o, err := h.svc.CompleteOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Ship(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	var req shipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	o, err := h.svc.ShipOrder(c.Request.Context(), id, service.ShipOrderInput{
		ShippingCompany: req.ShippingCompany,
		TrackingNumber:  req.TrackingNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// PaymentCallback is the processor-facing confirmation hook. Replaying the
// same order number is harmless.
func (h *OrderHandler) PaymentCallback(c *gin.Context) {
	var req paymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	o, err := h.svc.HandlePaymentSuccess(c.Request.Context(), req.OrderNo)
	if err != nil {
		respondError(c, err)
		return
	}
	h.log.Info("payment confirmed", zap.String("order_no", req.OrderNo))
	c.JSON(http.StatusOK, gin.H{"order_no": o.OrderNo, "status": o.Status})
}
