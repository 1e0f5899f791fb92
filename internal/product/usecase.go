package product

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/product/dto"
)

var ErrProductNotFound = errors.New("product not found")

// UseCase keeps the product search index in step with stock in the database.
type UseCase interface {
	SyncStock(ctx context.Context, products []model.Product) error
	Reindex(ctx context.Context, filters *dto.ProductFilters) (int, error)
	ReindexProduct(ctx context.Context, id string) error
}

// SearchIndex is the subset of the search client the product index needs.
type SearchIndex interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
}
