package http

import (
	"net/http"

	"storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AddressHandler struct {
	svc service.AddressService
	log *zap.Logger
}

func NewAddressHandler(svc service.AddressService, log *zap.Logger) *AddressHandler {
	return &AddressHandler{svc: svc, log: log}
}

type addressRequest struct {
	ReceiverName  string `json:"receiver_name" binding:"required"`
	ReceiverPhone string `json:"receiver_phone" binding:"required"`
	Province      string `json:"province" binding:"required"`
	City          string `json:"city" binding:"required"`
	District      string `json:"district"`
	Street        string `json:"street"`
	DetailAddress string `json:"detail_address" binding:"required"`
	PostalCode    string `json:"postal_code"`
	Label         string `json:"label"`
	IsDefault     bool   `json:"is_default"`
}

func (r addressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		ReceiverName:  r.ReceiverName,
		ReceiverPhone: r.ReceiverPhone,
		Province:      r.Province,
		City:          r.City,
		District:      r.District,
		Street:        r.Street,
		DetailAddress: r.DetailAddress,
		PostalCode:    r.PostalCode,
		Label:         r.Label,
		IsDefault:     r.IsDefault,
	}
}

func (h *AddressHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": list})
}

func (h *AddressHandler) Create(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	a, err := h.svc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AddressHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	a, err := h.svc.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AddressHandler) Delete(c *gin.Context) {
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

func (h *AddressHandler) SetDefault(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, err)
		return
	}
	a, err := h.svc.SetDefault(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
