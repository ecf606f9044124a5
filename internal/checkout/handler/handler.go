package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-checkout-service/internal/checkout"
	"github.com/fekuna/omnipos-checkout-service/internal/checkout/dto"
	"github.com/fekuna/omnipos-checkout-service/pkg/httpx"
	"github.com/fekuna/omnipos-checkout-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	uc     checkout.UseCase
	logger logger.ZapLogger
}

func NewCheckoutHandler(uc checkout.UseCase, log logger.ZapLogger) *CheckoutHandler {
	return &CheckoutHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.PlaceOrder)
	rg.POST("/checkout/quote", h.Quote)
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req dto.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "invalid checkout payload")
		return
	}

	o, err := h.uc.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req dto.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "invalid checkout payload")
		return
	}

	quote, err := h.uc.Quote(c.Request.Context(), &req)
	if err != nil {
		httpx.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
