package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Idempotency remembers which order an Idempotency-Key created.
type Idempotency struct {
	rdb *redis.Client
}

func NewIdempotency(rdb *redis.Client) *Idempotency { return &Idempotency{rdb: rdb} }

// Claim records orderID under the key. When the key was already claimed it
// returns the stored order id and false.
func (i *Idempotency) Claim(ctx context.Context, tableID uint32, key, orderID string) (string, bool, error) {
	k := fmt.Sprintf(KeyIdemOrderCreate, tableID, key)
	ok, err := i.rdb.SetNX(ctx, k, orderID, TTLIdempotency).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return orderID, true, nil
	}
	prev, err := i.rdb.Get(ctx, k).Result()
	if err != nil {
		return "", false, err
	}
	return prev, false, nil
}

// FirstSeen marks an event as processed by service and reports whether this
// is the first time it was seen.
func FirstSeen(ctx context.Context, rdb *redis.Client, service, eventID string) (bool, error) {
	return rdb.SetNX(ctx, fmt.Sprintf(KeyDedup, service, eventID), "1", TTLDedup).Result()
}
