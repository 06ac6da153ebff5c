package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Storefront/internal/auth"
	"Storefront/internal/catalog"
	"Storefront/internal/config"
	"Storefront/internal/events"
	"Storefront/internal/persist"
	"Storefront/internal/storefront"
	"Storefront/pkg/kit"
)

const service = "storefront"

func main() {
	configFile := flag.String("config", "config.yaml", "path to the YAML config file")
	envFile := flag.String("env", ".env", "path to the .env file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := kit.NewLogger(service, cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	log.Info("configuration loaded", zap.Stringer("config", cfg))

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("storefront stopped", zap.Error(err))
	}
	log.Info("storefront stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	var db *sql.DB
	if cfg.NeedsPostgres() {
		var err error
		db, err = sql.Open("pgx", cfg.Storage.Postgres.URL)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer func() { _ = db.Close() }()
	}

	products, err := loadProducts(ctx, cfg, db)
	if err != nil {
		return err
	}
	log.Info("catalog loaded", zap.String("source", cfg.Catalog.Source), zap.Int("products", len(products)))

	store, err := persist.Open(ctx, persist.Options{
		Driver:        cfg.Storage.Driver,
		RedisAddr:     cfg.Storage.Redis.Addr,
		RedisPassword: cfg.Storage.Redis.Password,
		RedisDB:       cfg.Storage.Redis.DB,
		RedisPrefix:   cfg.Storage.Redis.Prefix,
		SQLitePath:    cfg.Storage.SQLite.Path,
		Postgres:      db,
	})
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer func() { _ = store.Close() }()

	dir, err := auth.NewDirectory(auth.DefaultCredentials)
	if err != nil {
		return err
	}

	pub, closePub, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	defer closePub()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := storefront.New(ctx, storefront.Deps{
		Log:       log,
		Catalog:   catalog.New(products),
		Directory: dir,
		State:     persist.NewState(store),
		Publisher: pub,
		Metrics:   storefront.NewMetrics(reg),
	})
	if err != nil {
		return err
	}

	s := &storefront.Server{
		App:      app,
		JWT:      auth.NewTokenMaker(cfg.Auth.Secret),
		TokenTTL: cfg.Auth.TTL,
		Log:      log,
	}

	proxies, err := kit.ParsePrefixes(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
		TrustedProxies: proxies,
	})

	err = kit.RunHTTPServer(ctx, kit.ServerOptions{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		ReadHeaderTimeout: cfg.Server.ReadHeader,
		ShutdownTimeout:   cfg.Server.Shutdown,
	}, h, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadProducts(ctx context.Context, cfg *config.Config, db *sql.DB) ([]catalog.Product, error) {
	var src catalog.Source = catalog.NewStaticSource()

	if cfg.Catalog.Source == "postgres" {
		pg := catalog.NewPostgresSource(db)
		if err := pg.Ping(ctx); err != nil {
			return nil, fmt.Errorf("postgres catalog ping: %w", err)
		}
		src = pg
	}

	products, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return products, nil
}

func newPublisher(cfg *config.Config) (events.Publisher, func(), error) {
	if cfg.NATS.URL == "" {
		return events.NopPublisher{}, func() {}, nil
	}

	nc, err := events.Connect(cfg.NATS.URL, service)
	if err != nil {
		return nil, nil, err
	}
	return events.NewNatsPublisher(nc, cfg.NATS.Subject), func() { _ = nc.Drain() }, nil
}
