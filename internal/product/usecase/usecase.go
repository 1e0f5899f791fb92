package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-order-service/internal/product"
	"github.com/fekuna/omnipos-order-service/internal/product/dto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const indexName = "products"

const indexMapping = `{
	"mappings": {
		"properties": {
			"seller_id": { "type": "keyword" },
			"name": { "type": "text" },
			"price": { "type": "scaled_float", "scaling_factor": 100 },
			"discount_percentage": { "type": "scaled_float", "scaling_factor": 100 },
			"stock_quantity": { "type": "integer" },
			"is_active": { "type": "boolean" },
			"in_stock": { "type": "boolean" }
		}
	}
}`

type productDocument struct {
	ID                 string          `json:"id"`
	SellerID           string          `json:"seller_id"`
	Name               string          `json:"name"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	StockQuantity      int             `json:"stock_quantity"`
	IsActive           bool            `json:"is_active"`
	InStock            bool            `json:"in_stock"`
}

type productUseCase struct {
	repo   product.Repository
	es     product.SearchIndex
	logger logger.ZapLogger

	indexReady atomic.Bool
}

func NewProductUseCase(repo product.Repository, es product.SearchIndex, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		es:     es,
		logger: log,
	}
}

// SyncStock indexes the given products. With no search backend it is a no-op.
func (uc *productUseCase) SyncStock(ctx context.Context, products []model.Product) error {
	if uc.es == nil || len(products) == 0 {
		return nil
	}
	uc.ensureIndex(ctx)

	failed := 0
	for i := range products {
		p := &products[i]
		if err := uc.es.Index(ctx, indexName, p.ID, toDocument(p)); err != nil {
			uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d products not indexed", failed, len(products))
	}
	return nil
}

func (uc *productUseCase) Reindex(ctx context.Context, filters *dto.ProductFilters) (int, error) {
	products, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return 0, err
	}
	if err := uc.SyncStock(ctx, products); err != nil {
		return 0, err
	}
	return len(products), nil
}

// ReindexProduct refreshes the document of a single product from the database.
func (uc *productUseCase) ReindexProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: %s", product.ErrProductNotFound, id)
	}
	return uc.SyncStock(ctx, []model.Product{*p})
}

// ensureIndex creates the index lazily; failures are logged and indexing is still attempted.
func (uc *productUseCase) ensureIndex(ctx context.Context) {
	if uc.indexReady.Load() {
		return
	}
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		uc.logger.Warn("failed to create product index", zap.Error(err))
		return
	}
	uc.indexReady.Store(true)
}

func toDocument(p *model.Product) productDocument {
	return productDocument{
		ID:                 p.ID,
		SellerID:           p.SellerID,
		Name:               p.Name,
		Price:              p.Price,
		DiscountPercentage: p.DiscountPercentage,
		StockQuantity:      p.StockQuantity,
		IsActive:           p.IsActive,
		InStock:            p.StockQuantity > 0,
	}
}
