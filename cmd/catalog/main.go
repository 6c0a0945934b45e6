package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/suzaneaduarte/DesafioTecnicoProdutosDigitais/internal/catalog"
	"github.com/suzaneaduarte/DesafioTecnicoProdutosDigitais/pkg/kit"
)

func main() {
	service := "catalog"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg, err := catalog.LoadConfig()
	if err != nil {
		log.Fatal("load config failed", zap.Error(err))
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal("open store failed", zap.Error(err), zap.String("driver", cfg.StoreDriver))
	}
	log.Info("store ready", zap.String("driver", cfg.StoreDriver))

	s := &catalog.Server{
		Store: store,
		Query: &catalog.QueryEngine{Store: store, PageSize: cfg.PageSize},
		Log:   log,
	}

	reg := prometheus.NewRegistry()
	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(fmt.Sprintf(":%d", cfg.Port), h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStore(cfg catalog.Config) (catalog.Store, error) {
	switch cfg.StoreDriver {
	case "file":
		return catalog.NewFileStore(cfg.DataFile)
	case "postgres":
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store := catalog.NewPostgresStore(db)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Init(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return catalog.NewMemStore(), nil
	}
}
