package kitchen

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kitchen turns accepted meal items into cooking tickets for the pool.
type Kitchen struct {
	pool *Pool[Ticket]
}

// New builds a kitchen of workers cooks. Each worker cooks one item at a
// time, so at most workers items are Preparing at once.
func New(cook *Cook, workers, queue int, log *zap.Logger) *Kitchen {
	return &Kitchen{pool: NewPool[Ticket](workers, queue, cook.Prepare, log)}
}

func (k *Kitchen) Start(ctx context.Context) { k.pool.Start(ctx) }

// Dispatch submits one ticket per meal item.
func (k *Kitchen) Dispatch(tableID uint32, mealItemIDs []uuid.UUID) error {
	for _, id := range mealItemIDs {
		if err := k.pool.Submit(Ticket{TableID: tableID, MealItemID: id}); err != nil {
			return fmt.Errorf("dispatch meal item %s: %w", id, err)
		}
	}
	return nil
}

// Close stops the kitchen and waits for in-flight tickets.
func (k *Kitchen) Close() { k.pool.Close() }
