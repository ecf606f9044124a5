package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Checkout CheckoutConfig
}

type ServerConfig struct {
	AppEnv          string
	HTTPPort        string
	GRPCPort        string
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled             bool
	Brokers             []string
	OrderEventsTopic    string
	StatusCommandsTopic string
	GroupID             string
}

type AuthConfig struct {
	OperatorToken string
}

type CheckoutConfig struct {
	DefaultCurrency    string
	StoreDriver        string // postgres | memory
	SeedFile           string // memory driver only
	RepriceConcurrency int
	MissingStockPolicy string // skip | fail
	StatusLockTTL      time.Duration
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:          getEnv("APP_ENV", "dev"),
			HTTPPort:        getEnv("HTTP_PORT", ":8090"),
			GRPCPort:        getEnv("GRPC_PORT", ":8091"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5433"),
			User:            getEnv("POSTGRES_USER", "omnipos"),
			Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
			DBName:          getEnv("POSTGRES_DB", "omnipos_checkout"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvDuration("POSTGRES_CONN_MAX_IDLE_TIME", time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled:             getEnvBool("KAFKA_ENABLED", true),
			Brokers:             getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			OrderEventsTopic:    getEnv("KAFKA_TOPIC_ORDERS", "orders.events"),
			StatusCommandsTopic: getEnv("KAFKA_TOPIC_ORDER_STATUS", "orders.status-commands"),
			GroupID:             getEnv("KAFKA_GROUP_CHECKOUT", "checkout"),
		},
		Auth: AuthConfig{
			OperatorToken: getEnv("OPERATOR_TOKEN", ""),
		},
		Checkout: CheckoutConfig{
			DefaultCurrency:    getEnv("CHECKOUT_DEFAULT_CURRENCY", "IDR"),
			StoreDriver:        getEnv("STORE_DRIVER", "postgres"),
			SeedFile:           getEnv("STORE_SEED_FILE", ""),
			RepriceConcurrency: getEnvInt("CHECKOUT_REPRICE_CONCURRENCY", 8),
			MissingStockPolicy: getEnv("CHECKOUT_MISSING_STOCK_POLICY", "skip"),
			StatusLockTTL:      getEnvDuration("CHECKOUT_STATUS_LOCK_TTL", 10*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
