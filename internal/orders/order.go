package orders

import (
	"bytes"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Order is the aggregate of meal items placed for one table.
//
// mu serialises the aggregate-mutating calls (add, remove, cancel) and
// protects the item index and totals. Each item has its own guard, always
// taken after mu, so status transitions on one item never block its
// siblings.
type Order struct {
	ID        uuid.UUID
	TableID   uint32
	CreatedAt time.Time

	clock Clock

	mu                  sync.RWMutex
	items               map[uuid.UUID]*MealItemRef
	totalPrice          Price
	totalCookingMinutes uint32
	updatedAt           time.Time
}

func NewOrder(tableID uint32, items []*MealItem, clock Clock) *Order {
	if clock == nil {
		clock = SystemClock{}
	}
	now := clock.Now()
	o := &Order{
		ID:        uuid.New(),
		TableID:   tableID,
		CreatedAt: now,
		clock:     clock,
		items:     make(map[uuid.UUID]*MealItemRef, len(items)),
		updatedAt: now,
	}
	o.AddMealItems(items)
	return o
}

// AddMealItems adds every item and its price and cooking time to the
// totals. An id that is already present is ignored.
func (o *Order) AddMealItems(items []*MealItem) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, m := range items {
		if _, ok := o.items[m.ID]; ok {
			continue
		}
		ref := newMealItemRef(m)
		it := ref.Lock()
		if !it.Removed {
			o.totalPrice += it.Price()
			o.totalCookingMinutes += it.CookingMinutes
		}
		ref.Unlock()
		o.items[m.ID] = ref
	}
	o.updatedAt = o.clock.Now()
}

// RemoveMealItems removes the given items and returns the ids that could
// not be removed: unknown ids and items whose cooking has started.
// Already removed items are skipped and not reported.
func (o *Order) RemoveMealItems(ids []uuid.UUID) []uuid.UUID {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.clock.Now()
	nonRemovable := make([]uuid.UUID, 0)
	for _, id := range ids {
		ref, ok := o.items[id]
		if !ok {
			nonRemovable = append(nonRemovable, id)
			continue
		}
		it := ref.Lock()
		switch {
		case it.Removed:
		case it.Status == StatusPreparing || it.Status == StatusCompleted:
			nonRemovable = append(nonRemovable, id)
		default:
			o.deduct(it)
			it.Remove(now)
		}
		ref.Unlock()
	}
	o.updatedAt = now
	return nonRemovable
}

// cancel removes every item unless one of the live items has started
// cooking or is done. All item guards are held while items are checked and
// marked, so no worker can start an item in between.
func (o *Order) cancel() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	refs := o.sortedRefs()
	items := make([]*MealItem, len(refs))
	for i, ref := range refs {
		items[i] = ref.Lock()
	}
	defer func() {
		for _, ref := range refs {
			ref.Unlock()
		}
	}()

	for _, it := range items {
		if !it.Removed && it.Status != StatusReceived {
			return false
		}
	}
	now := o.clock.Now()
	for _, it := range items {
		if it.Removed {
			continue
		}
		o.deduct(it)
		it.Remove(now)
	}
	o.updatedAt = now
	return true
}

func (o *Order) deduct(it *MealItem) {
	o.totalPrice -= it.Price()
	o.totalCookingMinutes -= it.CookingMinutes
}

// MealItems returns the guarded handles of all items, removed ones included.
func (o *Order) MealItems() []*MealItemRef {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.sortedRefs()
}

func (o *Order) MealItem(id uuid.UUID) (*MealItemRef, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	ref, ok := o.items[id]
	return ref, ok
}

// Status derives the order status from its items.
func (o *Order) Status() OrderStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	items := make([]*MealItem, 0, len(o.items))
	for _, ref := range o.items {
		it := ref.Get()
		items = append(items, &it)
	}
	return deriveStatus(items)
}

func (o *Order) TotalPrice() Price {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.totalPrice
}

func (o *Order) TotalCookingMinutes() uint32 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.totalCookingMinutes
}

func (o *Order) UpdatedAt() time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.updatedAt
}

// sortedRefs must be called with mu held.
func (o *Order) sortedRefs() []*MealItemRef {
	refs := make([]*MealItemRef, 0, len(o.items))
	for _, ref := range o.items {
		refs = append(refs, ref)
	}
	slices.SortFunc(refs, func(a, b *MealItemRef) int {
		return bytes.Compare(a.id[:], b.id[:])
	})
	return refs
}

func deriveStatus(items []*MealItem) OrderStatus {
	var live, preparing, received bool
	for _, it := range items {
		if it.Removed {
			continue
		}
		live = true
		switch it.Status {
		case StatusPreparing:
			preparing = true
		case StatusReceived:
			received = true
		}
	}
	switch {
	case !live:
		return OrderCanceled
	case preparing:
		return OrderPreparing
	case received:
		return OrderReceived
	default:
		return OrderCompleted
	}
}
