package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-checkout-service/config"
	"github.com/fekuna/omnipos-checkout-service/internal/auth"
	"github.com/fekuna/omnipos-checkout-service/internal/catalog"
	"github.com/fekuna/omnipos-checkout-service/internal/inventory"
	"github.com/fekuna/omnipos-checkout-service/internal/memstore"
	"github.com/fekuna/omnipos-checkout-service/internal/order"
	"github.com/fekuna/omnipos-checkout-service/internal/pricing"
	"github.com/fekuna/omnipos-checkout-service/pkg/apperror"
	"github.com/fekuna/omnipos-checkout-service/pkg/broker"
	"github.com/fekuna/omnipos-checkout-service/pkg/cache"
	"github.com/fekuna/omnipos-checkout-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-checkout-service/pkg/httpx"
	"github.com/fekuna/omnipos-checkout-service/pkg/logger"

	catRepoPkg "github.com/fekuna/omnipos-checkout-service/internal/catalog/repository"
	catUCPkg "github.com/fekuna/omnipos-checkout-service/internal/catalog/usecase"

	checkoutH "github.com/fekuna/omnipos-checkout-service/internal/checkout/handler"
	checkoutUCPkg "github.com/fekuna/omnipos-checkout-service/internal/checkout/usecase"

	invRepoPkg "github.com/fekuna/omnipos-checkout-service/internal/inventory/repository"

	orderH "github.com/fekuna/omnipos-checkout-service/internal/order/handler"
	orderListenerPkg "github.com/fekuna/omnipos-checkout-service/internal/order/listener"
	orderRepoPkg "github.com/fekuna/omnipos-checkout-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-checkout-service/internal/order/usecase"

	pricingRepoPkg "github.com/fekuna/omnipos-checkout-service/internal/pricing/repository"
	pricingUCPkg "github.com/fekuna/omnipos-checkout-service/internal/pricing/usecase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type repositories struct {
	catalog   catalog.Repository
	inventory inventory.Repository
	pricing   pricing.Repository
	orders    order.Repository
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Initialize Repositories
	var repos repositories
	var locker order.Locker

	switch cfg.Checkout.StoreDriver {
	case "memory":
		store := memstore.New()
		if cfg.Checkout.SeedFile != "" {
			n, err := store.LoadSeedFile(cfg.Checkout.SeedFile)
			if err != nil {
				appLogger.Fatal("Could not load seed file", zap.String("path", cfg.Checkout.SeedFile), zap.Error(err))
			}
			appLogger.Info("Loaded seed data", zap.String("path", cfg.Checkout.SeedFile), zap.Int("records", n))
		}
		repos = repositories{
			catalog:   memstore.NewCatalog(store),
			inventory: memstore.NewInventory(store),
			pricing:   memstore.NewPricing(store),
			orders:    memstore.NewOrders(store),
		}
		locker = memstore.NewLocker(store)
		appLogger.Warn("Using in-memory store, data is lost on restart")
	default:
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to database", zap.Error(err))
		}
		defer db.Close()
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

		repos = repositories{
			catalog:   catRepoPkg.NewPGRepository(db),
			inventory: invRepoPkg.NewPGRepository(db),
			pricing:   pricingRepoPkg.NewPGRepository(db),
			orders:    orderRepoPkg.NewPGRepository(db),
		}
	}

	// 4. Initialize Redis
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		locker = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Initialize Kafka
	var publisher order.EventPublisher
	var statusConsumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.OrderEventsTopic,
		})
		defer producer.Close()
		publisher = producer

		statusConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.StatusCommandsTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer statusConsumer.Close()
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	// 6. Initialize UseCases
	guard := catUCPkg.NewAvailabilityGuard(repos.catalog, appLogger)
	pricingUC := pricingUCPkg.NewPricingUseCase(repos.pricing, time.Now, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(repos.orders, repos.inventory, publisher, locker, orderUCPkg.Options{
		MissingStockPolicy: cfg.Checkout.MissingStockPolicy,
		LockTTL:            cfg.Checkout.StatusLockTTL,
	}, appLogger)
	checkoutUC := checkoutUCPkg.NewCheckoutUseCase(repos.inventory, guard, pricingUC, orderUC, checkoutUCPkg.Options{
		DefaultCurrency:    cfg.Checkout.DefaultCurrency,
		RepriceConcurrency: cfg.Checkout.RepriceConcurrency,
	}, appLogger)

	// 7. Start Listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if statusConsumer != nil {
		statusListener := orderListenerPkg.NewStatusListener(statusConsumer, orderUC, appLogger)
		go statusListener.Start(ctx)
	}

	// 8. Initialize Handlers
	if cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := httpx.NewEngine(appLogger)
	api := engine.Group("/api/v1")
	checkoutH.NewCheckoutHandler(checkoutUC, appLogger).RegisterRoutes(api)
	orderH.NewOrderHandler(orderUC, appLogger).RegisterRoutes(api, auth.RequireOperator(cfg.Auth.OperatorToken))
	if cfg.Auth.OperatorToken == "" {
		appLogger.Warn("OPERATOR_TOKEN is empty, operator routes are unauthenticated")
	}

	httpServer := &http.Server{
		Addr:    normalizePort(cfg.Server.HTTPPort),
		Handler: engine,
	}

	// 9. Start gRPC Server (health + reflection)
	grpcPort := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(apperror.UnaryServerInterceptor()))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Register Reflection
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", grpcPort))
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve gRPC", zap.Error(err))
		}
	}()

	appLogger.Info("Starting HTTP server", zap.String("port", httpServer.Addr))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
