package report

import (
	"context"

	"github.com/fekuna/omnipos-order-service/internal/report/dto"
	"github.com/fekuna/omnipos-order-service/internal/sales"
)

type UseCase interface {
	SalesReport(ctx context.Context, input *dto.SalesReportInput) (*sales.Report, error)
}
