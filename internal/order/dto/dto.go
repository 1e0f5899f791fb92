package dto

import (
	"time"

	"github.com/fekuna/omnipos-order-service/internal/model"
)

type OrderFilters struct {
	ClientID    string
	Statuses    []model.OrderStatus
	CreatedFrom *time.Time // inclusive
	CreatedTo   *time.Time // inclusive
}
