package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"plantfoods-storefront/internal/catalog"
	"plantfoods-storefront/internal/config"
	"plantfoods-storefront/internal/snapshot"
)

func main() {
	_ = godotenv.Load()

	out := flag.String("out", "products.json", "output file for the catalog snapshot")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[snapshot] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	f, err := os.Create(*out)
	if err != nil {
		logger.Fatalf("create %s: %v", *out, err)
	}
	defer f.Close()

	client := catalog.NewClient(cfg.CatalogEndpoint, cfg.CatalogToken, logger)
	exporter := snapshot.NewExporter(client, f, cfg.PageSize, cfg.MaxPages, cfg.ProductLimit)

	n, err := exporter.Run(context.Background())
	if err != nil {
		logger.Fatalf("export snapshot: %v", err)
	}
	logger.Printf("wrote %d products to %s", n, *out)
}
