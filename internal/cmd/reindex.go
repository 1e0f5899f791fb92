package cmd

import (
	"errors"
	"fmt"

	prodRepoPkg "github.com/fekuna/omnipos-order-service/internal/product/repository"
	"github.com/fekuna/omnipos-order-service/internal/product/dto"
	prodUCPkg "github.com/fekuna/omnipos-order-service/internal/product/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex-products",
	Short: "Rebuild the product stock documents in Elasticsearch",
	RunE:  runReindex,
}

var (
	reindexSeller     string
	reindexActiveOnly bool
	reindexID         string
)

func init() {
	reindexCmd.Flags().StringVar(&reindexSeller, "seller", "", "only reindex products of this seller")
	reindexCmd.Flags().BoolVar(&reindexActiveOnly, "active-only", false, "skip inactive products")
	reindexCmd.Flags().StringVar(&reindexID, "id", "", "reindex a single product")
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	esClient := a.searchClient()
	if esClient == nil {
		return errors.New("elasticsearch is not reachable")
	}

	uc := prodUCPkg.NewProductUseCase(prodRepoPkg.NewPGRepository(a.db), esClient, a.logger)

	if reindexID != "" {
		if err := uc.ReindexProduct(cmd.Context(), reindexID); err != nil {
			return fmt.Errorf("reindex failed: %w", err)
		}
		a.logger.Info("Product reindexed", zap.String("product_id", reindexID))
		return nil
	}

	filters := &dto.ProductFilters{SellerID: reindexSeller}
	if reindexActiveOnly {
		active := true
		filters.IsActive = &active
	}

	n, err := uc.Reindex(cmd.Context(), filters)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	a.logger.Info("Products reindexed", zap.Int("count", n))
	return nil
}
