package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/storefront/internal/adapter/catalog"
	"github.com/rl1809/storefront/internal/adapter/handler"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/config"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/logger"
	"github.com/rl1809/storefront/internal/port"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(logger.Options{Service: "storefront", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog source
	var source port.CatalogSource
	switch cfg.CatalogSource {
	case config.CatalogSourceMySQL:
		db, err := openMySQL(ctx, cfg.MySQLDSN, log)
		if err != nil {
			log.Fatal("failed to connect mysql", zap.Error(err))
		}
		defer db.Close()
		source = storage.NewMySQLAdapter(db)
	default:
		client, err := catalog.NewFakeStoreClient(cfg.CatalogBaseURL, cfg.CatalogTimeout, cfg.Currency)
		if err != nil {
			log.Fatal("failed to create catalog client", zap.Error(err))
		}
		source = client
	}
	log.Info("catalog source ready", zap.String("source", cfg.CatalogSource))

	// Redis cache, optional
	var cache port.CacheRepository
	if cfg.CacheEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: cfg.RedisPoolSize,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, running without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			cache = storage.NewRedisAdapter(rdb, cfg.ProductTTL, cfg.IdempotencyTTL)
			log.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
		}
	}

	// Services
	catalogService := service.NewCatalogService(source, cache, log.Named("catalog"), cfg.WorkerCount)
	sessionService := service.NewSessionService(catalogService, cache, cfg.Currency, log.Named("session"))

	if cfg.CatalogWarmOnBoot && cache != nil {
		warmCtx, warmCancel := context.WithTimeout(ctx, cfg.CatalogTimeout)
		n, err := catalogService.Warm(warmCtx)
		warmCancel()
		if err != nil {
			log.Warn("catalog warm-up failed", zap.Error(err))
		} else {
			log.Info("catalog cache warmed", zap.Int("products", n))
		}
	}

	// gRPC server
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(handler.UnaryLogger(log.Named("grpc"))))
	handler.RegisterCartServiceServer(grpcServer, handler.NewGRPCHandler(sessionService))
	healthServer := health.NewServer()
	healthServer.SetServingStatus(handler.CartServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatal("failed to listen", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
	}

	go func() {
		log.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server error", zap.Error(err))
		}
	}()

	// HTTP server
	httpHandler := handler.NewHTTPHandler(sessionService, catalogService, log.Named("http"))
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewRouter(httpHandler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown failed", zap.Error(err))
	}
	log.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Info("gRPC server stopped", zap.Int("open_sessions", sessionService.SessionCount()))
}

func openMySQL(ctx context.Context, dsn string, log *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("connected to mysql")

	if err := storage.RunMigrations(db, log); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
