package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-realtime-kitchen/internal/config"
	"github.com/ariefcatur/go-realtime-kitchen/internal/httpx"
	kafkax "github.com/ariefcatur/go-realtime-kitchen/internal/kafka"
	"github.com/ariefcatur/go-realtime-kitchen/internal/kitchen"
	"github.com/ariefcatur/go-realtime-kitchen/internal/logging"
	"github.com/ariefcatur/go-realtime-kitchen/internal/menu"
	"github.com/ariefcatur/go-realtime-kitchen/internal/orders"
	"github.com/ariefcatur/go-realtime-kitchen/internal/postgres"
	"github.com/ariefcatur/go-realtime-kitchen/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("service stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Menu: Postgres when configured, seeded memory otherwise
	var catalog menu.Catalog = menu.Seeded()
	if cfg.PostgresDSN != "" {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()
		pg := &menu.Postgres{DB: db}
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("menu migrate: %w", err)
		}
		seed, _ := menu.Seeded().Items(ctx)
		if err := pg.Seed(ctx, seed); err != nil {
			return fmt.Errorf("menu seed: %w", err)
		}
		catalog = pg
	}

	// Kitchen events
	var pub kitchen.Publisher = kitchen.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicMealItemStatus, 1024, log)
		prod.Start(ctx)
		defer func() {
			prod.Close()
			prod.WaitClosed()
		}()
		pub = &kitchen.KafkaPublisher{Producer: prod, ServiceName: cfg.ServiceName}
	}

	repo := orders.NewRepo(orders.SystemClock{})
	meals := &orders.MealFactory{
		Clock:   orders.SystemClock{},
		Cooking: orders.NewRandomRange(cfg.CookMinMinutes, cfg.CookMaxMinutes),
	}
	cook := kitchen.NewCook(repo, pub, cfg.CookMinute, log.Named("cook"))
	kit := kitchen.New(cook, cfg.KitchenWorkers, cfg.KitchenQueue, log.Named("kitchen"))
	kit.Start(ctx)

	oh := &httpx.OrdersHandler{
		Repo:    repo,
		Meals:   meals,
		Menu:    catalog,
		Kitchen: kit,
		Log:     log.Named("http"),
	}
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		oh.Idem = redisx.NewIdempotency(rdb)
	}
	router := httpx.NewRouter()
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.Int("kitchen_workers", cfg.KitchenWorkers))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}
	log.Info("shutting down")

	sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()
	_ = srv.Shutdown(sctx)
	// no new tickets after the server is down; wait for the cooks
	kit.Close()
	return nil
}
