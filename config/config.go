package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // embedded zone database for report.timezone

	"github.com/fekuna/omnipos-order-service/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Elastic  ElasticConfig  `mapstructure:"elasticsearch"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Report   ReportConfig   `mapstructure:"report"`
	Lock     LockConfig     `mapstructure:"lock"`
}

type ServerConfig struct {
	AppEnv   string `mapstructure:"app_env"`
	HTTPPort string `mapstructure:"http_port"`
	GRPCPort string `mapstructure:"grpc_port"`
}

type LoggerConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            string `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"db"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	EventsTopic   string   `mapstructure:"topic_order_events"`
	CommandsTopic string   `mapstructure:"topic_order_commands"`
	GroupID       string   `mapstructure:"group_orders"`
}

type ElasticConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// PricingConfig keeps amounts as strings so they are parsed as decimals, never floats.
type PricingConfig struct {
	VolumeDiscountThreshold string `mapstructure:"volume_discount_threshold"`
	VolumeDiscountRate      string `mapstructure:"volume_discount_rate"`
	VATRate                 string `mapstructure:"vat_rate"`
	FreeDeliveryThreshold   string `mapstructure:"free_delivery_threshold"`
}

type ReportConfig struct {
	Timezone     string `mapstructure:"timezone"`
	DefaultDays  int    `mapstructure:"default_days"`
	TopCustomers int    `mapstructure:"top_customers"`
}

type LockConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

var defaults = map[string]interface{}{
	"server.app_env":   "dev",
	"server.http_port": ":8080",
	"server.grpc_port": ":8082",

	"logger.level":              "debug",
	"logger.encoding":           "console",
	"logger.disable_caller":     false,
	"logger.disable_stacktrace": true,

	"postgres.host":               "localhost",
	"postgres.port":               "5433",
	"postgres.user":               "omnipos",
	"postgres.password":           "omnipos",
	"postgres.db":                 "omnipos_order",
	"postgres.sslmode":            "disable",
	"postgres.max_open_conns":     10,
	"postgres.max_idle_conns":     5,
	"postgres.conn_max_lifetime":  300,
	"postgres.conn_max_idle_time": 60,

	"redis.addr":     "localhost:6379",
	"redis.password": "",
	"redis.db":       0,

	"kafka.brokers":              []string{"localhost:9092"},
	"kafka.topic_order_events":   "orders.events",
	"kafka.topic_order_commands": "orders.commands",
	"kafka.group_orders":         "order-confirmation",

	"elasticsearch.addresses": []string{"http://localhost:9200"},
	"elasticsearch.username":  "",
	"elasticsearch.password":  "",

	"pricing.volume_discount_threshold": "150000",
	"pricing.volume_discount_rate":      "0.10",
	"pricing.vat_rate":                  "0.12",
	"pricing.free_delivery_threshold":   "2000",

	"report.timezone":      "UTC",
	"report.default_days":  30,
	"report.top_customers": 5,

	"lock.ttl":         "5s",
	"lock.retries":     3,
	"lock.retry_delay": "100ms",
}

// Load reads an optional config.yaml and environment variables. Keys map to env names by
// upper-casing and replacing dots, e.g. POSTGRES_HOST or PRICING_VAT_RATE.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if _, err := cfg.Pricing.Engine(); err != nil {
		return nil, err
	}
	if _, err := cfg.Report.Location(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Engine parses the configured amounts into the pricing engine config.
func (p PricingConfig) Engine() (pricing.Config, error) {
	var out pricing.Config
	fields := []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"volume_discount_threshold", p.VolumeDiscountThreshold, &out.VolumeDiscountThreshold},
		{"volume_discount_rate", p.VolumeDiscountRate, &out.VolumeDiscountRate},
		{"vat_rate", p.VATRate, &out.VATRate},
		{"free_delivery_threshold", p.FreeDeliveryThreshold, &out.FreeDeliveryThreshold},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.value)
		if err != nil {
			return pricing.Config{}, fmt.Errorf("pricing.%s: %w", f.name, err)
		}
		if d.IsNegative() {
			return pricing.Config{}, fmt.Errorf("pricing.%s must not be negative", f.name)
		}
		*f.dst = d
	}
	return out, nil
}

func (r ReportConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("report.timezone: %w", err)
	}
	return loc, nil
}
