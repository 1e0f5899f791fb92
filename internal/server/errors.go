package server

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-order-service/internal/order"
	"github.com/fekuna/omnipos-order-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-order-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-order-service/internal/pricing"
	"github.com/fekuna/omnipos-order-service/internal/sales"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError maps domain errors to a status code and a localized message.
func RespondError(c *gin.Context, log logger.ZapLogger, err error) {
	lang := c.GetHeader("Accept-Language")

	var (
		shortage   *pricing.StockShortageError
		transition *pricing.InvalidTransitionError
		quantity   *pricing.InvalidQuantityError
		dateRange  *sales.InvalidDateRangeError
	)

	switch {
	case errors.As(err, &shortage):
		c.JSON(http.StatusConflict, gin.H{
			"error": i18n.T(lang, i18n.MsgStockShortage, map[string]interface{}{
				"Product":   shortageName(shortage),
				"Requested": shortage.Requested,
				"Available": shortage.Available,
			}),
			"product_id": shortage.ProductID,
			"requested":  shortage.Requested,
			"available":  shortage.Available,
		})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{
			"error": i18n.T(lang, i18n.MsgInvalidTransition, map[string]interface{}{
				"From": transition.From,
				"To":   transition.To,
			}),
		})
	case errors.As(err, &quantity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": i18n.T(lang, i18n.MsgInvalidQuantity, map[string]interface{}{
				"Product":  quantity.ProductID,
				"Quantity": quantity.Quantity,
			}),
			"product_id": quantity.ProductID,
		})
	case errors.As(err, &dateRange):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": i18n.T(lang, i18n.MsgInvalidDateRange, map[string]interface{}{"Reason": dateRange.Reason}),
		})
	case errors.Is(err, order.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(lang, i18n.MsgOrderNotFound, nil)})
	case errors.Is(err, order.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": i18n.T(lang, i18n.MsgForbidden, nil)})
	case errors.Is(err, order.ErrLockBusy):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": i18n.T(lang, i18n.MsgSystemBusy, nil)})
	default:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(lang, i18n.MsgInternal, nil)})
	}
}

func shortageName(e *pricing.StockShortageError) string {
	if e.ProductName != "" {
		return e.ProductName
	}
	return e.ProductID
}
