package kitchen

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-realtime-kitchen/internal/orders"
)

// Ticket asks the kitchen to cook one meal item.
type Ticket struct {
	TableID    uint32
	MealItemID uuid.UUID
}

// Cook walks a meal item through Preparing and Completed.
type Cook struct {
	Repo      *orders.Repo
	Publisher Publisher
	// Sleep blocks for the cooking time. Defaults to time.Sleep.
	Sleep func(time.Duration)
	// Minute is how long one cooking minute lasts.
	Minute time.Duration
	Log    *zap.Logger
}

func NewCook(repo *orders.Repo, pub Publisher, minute time.Duration, log *zap.Logger) *Cook {
	return &Cook{Repo: repo, Publisher: pub, Sleep: time.Sleep, Minute: minute, Log: log}
}

// Prepare cooks the ticket's item. It gives up without side effects when
// the item is gone or removed before cooking starts. Once sleeping it
// cannot be interrupted; the final Completed write is harmless for an item
// removed in the meantime since removed items are ignored by status
// derivation.
func (c *Cook) Prepare(ctx context.Context, t Ticket) {
	log := c.logger().With(zap.Uint32("table_id", t.TableID), zap.Stringer("meal_item_id", t.MealItemID))

	ref, ok := c.Repo.MealItem(t.TableID, t.MealItemID)
	if !ok {
		log.Debug("meal item gone, skipping")
		return
	}
	it := ref.Lock()
	if it.Removed {
		ref.Unlock()
		log.Debug("meal item removed, skipping")
		return
	}
	minutes, name := it.CookingMinutes, it.Name()
	ref.Unlock()

	if !c.Repo.UpdateMealItemStatus(t.TableID, t.MealItemID, orders.StatusPreparing) {
		log.Debug("meal item vanished before preparing")
		return
	}
	log.Info("start preparing", zap.String("name", name), zap.Uint32("cooking_minutes", minutes))
	c.publish(ctx, t, name, minutes, orders.StatusReceived, orders.StatusPreparing)

	c.sleep(time.Duration(minutes) * c.Minute)

	c.Repo.UpdateMealItemStatus(t.TableID, t.MealItemID, orders.StatusCompleted)
	log.Info("completed", zap.String("name", name))
	c.publish(ctx, t, name, minutes, orders.StatusPreparing, orders.StatusCompleted)
}

func (c *Cook) sleep(d time.Duration) {
	if c.Sleep == nil {
		time.Sleep(d)
		return
	}
	c.Sleep(d)
}

func (c *Cook) publish(ctx context.Context, t Ticket, name string, minutes uint32, from, to orders.MealItemStatus) {
	if c.Publisher == nil {
		return
	}
	c.Publisher.MealItemStatusChanged(ctx, orders.MealItemStatusChangedPayload{
		TableID:        t.TableID,
		MealItemID:     t.MealItemID.String(),
		Name:           name,
		OldStatus:      from,
		NewStatus:      to,
		CookingMinutes: minutes,
	})
}

func (c *Cook) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
