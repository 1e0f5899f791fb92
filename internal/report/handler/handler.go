package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-order-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-order-service/internal/report"
	"github.com/fekuna/omnipos-order-service/internal/report/dto"
	"github.com/fekuna/omnipos-order-service/internal/server"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	uc     report.UseCase
	logger logger.ZapLogger
}

func NewReportHandler(uc report.UseCase, log logger.ZapLogger) *ReportHandler {
	return &ReportHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/sales", h.SalesReport)
}

func (h *ReportHandler) SalesReport(c *gin.Context) {
	rep, err := h.uc.SalesReport(c.Request.Context(), &dto.SalesReportInput{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		server.RespondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, rep)
}
