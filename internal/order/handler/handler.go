package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-order-service/internal/auth"
	"github.com/fekuna/omnipos-order-service/internal/order"
	"github.com/fekuna/omnipos-order-service/internal/order/dto"
	"github.com/fekuna/omnipos-order-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-order-service/internal/server"
	"github.com/gin-gonic/gin"
)

var _ server.RouteRegistrar = (*OrderHandler)(nil)

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

func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.POST("/:id/confirm", h.ConfirmOrder)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	id, _ := auth.FromContext(c.Request.Context())

	views, err := h.uc.ListOrders(c.Request.Context(), &dto.ListOrdersInput{
		Caller:         caller(id),
		Status:         c.Query("status"),
		FilterClientID: c.Query("client_id"),
		DateFrom:       c.Query("date_from"),
		DateTo:         c.Query("date_to"),
	})
	if err != nil {
		server.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": views, "total": len(views)})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, _ := auth.FromContext(c.Request.Context())

	view, err := h.uc.GetOrder(c.Request.Context(), &dto.GetOrderInput{
		Caller:  caller(id),
		OrderID: c.Param("id"),
	})
	if err != nil {
		server.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ConfirmOrder answers 200 both for a fresh confirmation and for a repeated one;
// "transitioned" tells them apart.
func (h *OrderHandler) ConfirmOrder(c *gin.Context) {
	id, _ := auth.FromContext(c.Request.Context())

	res, err := h.uc.ConfirmOrder(c.Request.Context(), &dto.ConfirmOrderInput{
		Caller:  caller(id),
		OrderID: c.Param("id"),
	})
	if err != nil {
		server.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func caller(id auth.Identity) dto.Caller {
	return dto.Caller{ClientID: id.ClientID, IsStaff: id.IsStaff}
}
