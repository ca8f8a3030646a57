// Command catalog_sync copies the remote fake store catalog into the MySQL
// products table so the server can run with CATALOG_SOURCE=mysql.
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/storefront/internal/adapter/catalog"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/config"
	"github.com/rl1809/storefront/internal/logger"
	"github.com/rl1809/storefront/internal/port"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(logger.Options{Service: "catalog-sync", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal("failed to open mysql", zap.Error(err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("failed to ping mysql", zap.Error(err))
	}
	if err := storage.RunMigrations(db, log); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	remote, err := catalog.NewFakeStoreClient(cfg.CatalogBaseURL, cfg.CatalogTimeout, cfg.Currency)
	if err != nil {
		log.Fatal("failed to create catalog client", zap.Error(err))
	}

	start := time.Now()
	n, err := syncCatalog(ctx, remote, storage.NewMySQLAdapter(db), cfg.WorkerCount)
	if err != nil {
		log.Fatal("catalog sync failed", zap.Int("synced", n), zap.Error(err))
	}
	log.Info("catalog synced",
		zap.Int("products", n),
		zap.String("source", cfg.CatalogBaseURL),
		zap.Duration("duration", time.Since(start)),
	)
}

func syncCatalog(ctx context.Context, from port.CatalogSource, to port.CatalogWriter, workers int) (int, error) {
	products, err := from.ListProducts(ctx)
	if err != nil {
		return 0, err
	}

	var synced atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, p := range products {
		g.Go(func() error {
			if err := to.UpsertProduct(ctx, p); err != nil {
				return err
			}
			synced.Add(1)
			return nil
		})
	}
	err = g.Wait()
	return int(synced.Load()), err
}
