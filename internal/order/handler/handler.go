package handler

import (
	"net/http"

	invdto "github.com/fekuna/omnipos-checkout-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/order"
	"github.com/fekuna/omnipos-checkout-service/internal/order/dto"
	"github.com/fekuna/omnipos-checkout-service/pkg/httpx"
	"github.com/fekuna/omnipos-checkout-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

// RegisterRoutes mounts the operator routes. guard runs before each of them.
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup, guard ...gin.HandlerFunc) {
	orders := rg.Group("/orders", guard...)
	orders.GET("/:id", h.GetOrder)
	orders.PATCH("/:id/status", h.UpdateStatus)
	orders.GET("/:id/movements", h.ListMovements)

	rg.Group("/customers", guard...).GET("", h.ListCustomers)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, err := h.uc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "status is required")
		return
	}

	res, err := h.uc.TransitionStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *OrderHandler) ListMovements(c *gin.Context) {
	page, size := httpx.Paging(c)
	items, total, err := h.uc.ListMovements(c.Request.Context(), &invdto.MovementFilters{
		ReferenceID:  c.Param("id"),
		MovementType: c.Query("type"),
		Page:         page,
		PageSize:     size,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, httpx.ListResponse[model.InventoryMovement]{
		Items: items, Total: total, Page: page, PageSize: size,
	})
}

func (h *OrderHandler) ListCustomers(c *gin.Context) {
	page, size := httpx.Paging(c)
	items, total, err := h.uc.ListCustomers(c.Request.Context(), &dto.CustomerFilters{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, httpx.ListResponse[model.Customer]{
		Items: items, Total: total, Page: page, PageSize: size,
	})
}
