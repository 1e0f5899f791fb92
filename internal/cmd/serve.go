package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	orderH "github.com/fekuna/omnipos-order-service/internal/order/handler"
	orderListenerPkg "github.com/fekuna/omnipos-order-service/internal/order/listener"
	orderRepoPkg "github.com/fekuna/omnipos-order-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-order-service/internal/order/usecase"
	"github.com/fekuna/omnipos-order-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-order-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-order-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-order-service/internal/product"
	prodRepoPkg "github.com/fekuna/omnipos-order-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-order-service/internal/product/usecase"
	reportH "github.com/fekuna/omnipos-order-service/internal/report/handler"
	reportUCPkg "github.com/fekuna/omnipos-order-service/internal/report/usecase"
	"github.com/fekuna/omnipos-order-service/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the order service",
	Long: `Start the order service which provides:
- REST API for orders, confirmation and sales reports
- gRPC health checks
- Kafka listener for order confirmation commands`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	appLogger := a.logger
	cfg := a.cfg

	if err := i18n.Init(); err != nil {
		return fmt.Errorf("failed to load locales: %w", err)
	}

	location, err := cfg.Report.Location()
	if err != nil {
		return err
	}

	// Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("could not connect to Redis: %w", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// Kafka
	producer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.EventsTopic,
	})
	defer producer.Close()

	consumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.CommandsTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer consumer.Close()
	appLogger.Info("Kafka configured",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("events_topic", cfg.Kafka.EventsTopic),
		zap.String("commands_topic", cfg.Kafka.CommandsTopic),
	)

	// Repositories
	orderRepo := orderRepoPkg.NewPGRepository(a.db)
	prodRepo := prodRepoPkg.NewPGRepository(a.db)

	// UseCases
	var indexer product.UseCase
	if esClient := a.searchClient(); esClient != nil {
		indexer = prodUCPkg.NewProductUseCase(prodRepo, esClient, appLogger)
	}

	orderUC := orderUCPkg.NewOrderUseCase(
		orderRepo,
		a.engine,
		redisClient,
		producer,
		indexer,
		orderUCPkg.LockConfig{
			TTL:        cfg.Lock.TTL,
			Retries:    cfg.Lock.Retries,
			RetryDelay: cfg.Lock.RetryDelay,
		},
		location,
		appLogger,
	)
	reportUC := reportUCPkg.NewReportUseCase(orderRepo, a.engine, reportUCPkg.Config{
		Location:     location,
		DefaultDays:  cfg.Report.DefaultDays,
		TopCustomers: cfg.Report.TopCustomers,
	}, appLogger)

	// Listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	orderListener := orderListenerPkg.NewOrderListener(consumer, orderUC, appLogger)
	go orderListener.Start(ctx)

	// HTTP
	httpServer := server.NewServer(a.db, appLogger,
		orderH.NewOrderHandler(orderUC, appLogger),
		reportH.NewReportHandler(reportUC, appLogger),
	)
	errCh := make(chan error, 2)
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", cfg.Server.HTTPPort))
		errCh <- httpServer.Start(listenAddr(cfg.Server.HTTPPort))
	}()

	// gRPC
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", cfg.Server.GRPCPort))
		errCh <- grpcServer.Serve(lis)
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			appLogger.Error("Server failed", zap.Error(err))
		}
	}

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()

	appLogger.Info("Server stopped")
	return nil
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
