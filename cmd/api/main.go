package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"plantfoods-storefront/internal/cart"
	"plantfoods-storefront/internal/catalog"
	"plantfoods-storefront/internal/config"
	"plantfoods-storefront/internal/db"
	"plantfoods-storefront/internal/httpserver"
	staterepo "plantfoods-storefront/internal/repository/state"
	catalogsvc "plantfoods-storefront/internal/service/catalog"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	stateRepo := staterepo.NewPostgres(dbpool)
	store := cart.NewStore(stateRepo, logger)
	if err := store.Restore(ctx); err != nil {
		logger.Fatalf("restore cart: %v", err)
	}

	watcher := staterepo.NewWatcher(dbpool, logger, store.HandleStateChange)
	go watcher.Run(ctx)

	client := catalog.NewClient(cfg.CatalogEndpoint, cfg.CatalogToken, logger)
	catalogService := catalogsvc.New(client, cfg.PageSize, cfg.MaxPages, cfg.ProductLimit, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:        catalogService,
		Cart:           store,
		State:          stateRepo,
		CheckoutDomain: cfg.CheckoutDomain,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
