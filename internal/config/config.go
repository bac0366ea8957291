package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr    string
	ServiceName string
	LogLevel    string

	// Optional backends; empty disables them.
	PostgresDSN  string
	RedisAddr    string
	KafkaBrokers []string

	KitchenWorkers int
	KitchenQueue   int
	CookMinMinutes uint32
	CookMaxMinutes uint32
	// CookMinute is the wall-clock length of one simulated cooking minute.
	CookMinute time.Duration

	MonitorGroup string
}

func Load() Config {
	return Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8081"),
		ServiceName:    getenv("SERVICE_NAME", "kitchen-api"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		KafkaBrokers:   splitCSV(os.Getenv("KAFKA_BROKERS")),
		KitchenWorkers: atoi(getenv("KITCHEN_WORKERS", "4"), 4),
		KitchenQueue:   atoi(getenv("KITCHEN_QUEUE", "1024"), 1024),
		CookMinMinutes: uint32(atoi(getenv("COOK_MIN_MINUTES", "5"), 5)),
		CookMaxMinutes: uint32(atoi(getenv("COOK_MAX_MINUTES", "15"), 15)),
		CookMinute:     duration(getenv("COOK_MINUTE", "1s"), time.Second),
		MonitorGroup:   getenv("MONITOR_GROUP", "kitchen-monitor"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i < 0 {
		return def
	}
	return i
}

func duration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d < 0 {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
