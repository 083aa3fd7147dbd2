package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apporder "github.com/Zhima-Mochi/orderdesk/internal/application/order"
	appproduct "github.com/Zhima-Mochi/orderdesk/internal/application/product"
	appuser "github.com/Zhima-Mochi/orderdesk/internal/application/user"
	"github.com/Zhima-Mochi/orderdesk/internal/config"
	domorder "github.com/Zhima-Mochi/orderdesk/internal/domain/order"
	domproduct "github.com/Zhima-Mochi/orderdesk/internal/domain/product"
	domuser "github.com/Zhima-Mochi/orderdesk/internal/domain/user"
	"github.com/Zhima-Mochi/orderdesk/internal/infrastructure/id"
	"github.com/Zhima-Mochi/orderdesk/internal/infrastructure/memory"
	mongostore "github.com/Zhima-Mochi/orderdesk/internal/infrastructure/mongo"
	"github.com/Zhima-Mochi/orderdesk/internal/infrastructure/productcache"
	"github.com/Zhima-Mochi/orderdesk/internal/pkg/logging"
	httptransport "github.com/Zhima-Mochi/orderdesk/internal/presentation/http"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		panic(err)
	}

	logger := logging.MustNewLogger(cfg.Logging.Service, cfg.Logging.Env)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo, productRepo, orderRepo := buildRepositories(ctx, cfg, logger)

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		productRepo = productcache.New(productRepo, client, cfg.Redis.CacheTTL())
		logger.Info("product_cache_enabled", zap.String("addr", cfg.Redis.Addr))
	}

	userService := appuser.NewService(userRepo)
	productService := appproduct.NewService(productRepo)
	orderService := apporder.NewService(orderRepo, userRepo, productRepo)

	metrics := httptransport.NewMetrics(prometheus.DefaultRegisterer)
	handler := httptransport.NewHandler(userService, productService, orderService)
	router := httptransport.NewRouter(handler, logger, metrics)

	server := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	go func() {
		logger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		logger.Info("http_server_stopped")
	}
}

// buildRepositories wires the Mongo adapters when a URI is configured and
// the in-memory ones otherwise.
func buildRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domuser.Repository, domproduct.Repository, domorder.Repository) {
	if cfg.Mongo.URI == "" {
		logger.Info("storage_memory")
		ids := id.NewUUIDGenerator()
		return memory.NewUserRepository(ids), memory.NewProductRepository(ids), memory.NewOrderRepository(ids)
	}

	db, disconnect, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		logger.Fatal("mongo_connect_failed", zap.Error(err))
	}
	go func() {
		<-ctx.Done()
		_ = disconnect(context.Background())
	}()

	users := mongostore.NewUserRepository(db)
	products := mongostore.NewProductRepository(db)
	orders := mongostore.NewOrderRepository(db)

	for _, ensure := range []func(context.Context) error{
		users.EnsureIndexes, products.EnsureIndexes, orders.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			logger.Fatal("mongo_index_bootstrap_failed", zap.Error(err))
		}
	}

	logger.Info("storage_mongo", zap.String("database", cfg.Mongo.Database))
	return users, products, orders
}
