package cmd

import (
	"fmt"
	"time"

	"github.com/fekuna/omnipos-order-service/config"
	"github.com/fekuna/omnipos-order-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-order-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-order-service/internal/pkg/search"
	"github.com/fekuna/omnipos-order-service/internal/pricing"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// app holds what every command needs: config, logger, database and the pricing engine.
type app struct {
	cfg    *config.Config
	logger logger.ZapLogger
	db     *sqlx.DB
	engine *pricing.Engine
}

func newApp() (*app, error) {
	_ = godotenv.Load() // Load .env file if it exists

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logConfig := &logger.ZapLoggerConfig{
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
	}
	appLogger := logger.NewZapLogger(logConfig)

	pricingCfg, err := cfg.Pricing.Engine()
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	return &app{
		cfg:    cfg,
		logger: appLogger,
		db:     db,
		engine: pricing.NewEngine(pricingCfg),
	}, nil
}

// searchClient connects to Elasticsearch. The service keeps running without it, only the
// product index goes stale.
func (a *app) searchClient() *search.Client {
	esClient, err := search.NewClient(&search.Config{
		Addresses: a.cfg.Elastic.Addresses,
		Username:  a.cfg.Elastic.Username,
		Password:  a.cfg.Elastic.Password,
	})
	if err != nil {
		a.logger.Warn("Could not connect to Elasticsearch (product index will not be updated)", zap.Error(err))
		return nil
	}
	a.logger.Info("Connected to Elasticsearch", zap.Strings("addresses", a.cfg.Elastic.Addresses))
	return esClient
}

func (a *app) close() {
	a.db.Close()
	_ = a.logger.Sync()
}
