package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-realtime-kitchen/internal/config"
	kafkax "github.com/ariefcatur/go-realtime-kitchen/internal/kafka"
	"github.com/ariefcatur/go-realtime-kitchen/internal/logging"
	"github.com/ariefcatur/go-realtime-kitchen/internal/orders"
	"github.com/ariefcatur/go-realtime-kitchen/internal/redisx"
)

// kitchen-monitor tails meal item status events, e.g. for a kitchen display.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log, err := logging.New(cfg.LogLevel, cfg.ServiceName+"-monitor")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("monitor stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(cfg config.Config, log *zap.Logger) error {
	if len(cfg.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redisx.New(cfg.RedisAddr)
		defer rdb.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := &monitor{rdb: rdb, log: log, service: "kitchen-monitor"}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.MonitorGroup, orders.TopicMealItemStatus, 2, log)
	log.Info("monitor started", zap.String("group", cfg.MonitorGroup), zap.String("topic", orders.TopicMealItemStatus))
	if err := cons.Start(ctx, m.handle); err != nil {
		return fmt.Errorf("consumer exit: %w", err)
	}
	log.Info("monitor stopped")
	return nil
}

type monitor struct {
	rdb     *redis.Client
	log     *zap.Logger
	service string
}

func (m *monitor) handle(ctx context.Context, msg kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		m.log.Warn("undecodable event dropped", zap.Error(err))
		return nil
	}
	if env.EventType != orders.EventMealItemStatusChanged {
		return nil
	}
	if m.rdb != nil {
		first, err := redisx.FirstSeen(ctx, m.rdb, m.service, env.EventID)
		if err != nil {
			return err
		}
		if !first {
			return nil
		}
	}
	p, err := kafkax.UnwrapPayload[orders.MealItemStatusChangedPayload](env.Payload)
	if err != nil {
		m.log.Warn("bad payload dropped", zap.String("event_id", env.EventID), zap.Error(err))
		return nil
	}
	m.log.Info("meal item status",
		zap.Uint32("table_id", p.TableID),
		zap.String("meal_item_id", p.MealItemID),
		zap.String("name", p.Name),
		zap.String("from", string(p.OldStatus)),
		zap.String("to", string(p.NewStatus)),
		zap.Time("at", env.OccurredAt),
	)
	return nil
}
