package orders

import (
	"github.com/google/uuid"
)

// Repo holds the active order of every table in memory.
//
// Every method is safe for concurrent use. Operations on different tables
// do not block each other; operations on the same table serialise on that
// order's lock, and item status updates only take the item's guard.
type Repo struct {
	tables *tableMap
	clock  Clock
}

func NewRepo(clock Clock) *Repo {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Repo{tables: newTableMap(), clock: clock}
}

// Add stores o as the table's order, replacing any previous one.
func (r *Repo) Add(o *Order) {
	r.tables.store(o.TableID, o)
}

// AddIfSettled stores o unless the table still has an order that is
// Received or Preparing. The check and the store are atomic. It returns
// the blocking order's status when it refuses.
func (r *Repo) AddIfSettled(o *Order) (OrderStatus, bool) {
	s := r.tables.shard(o.TableID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.orders[o.TableID]; ok {
		if st := prev.Status(); !st.Settled() {
			return st, false
		}
	}
	s.orders[o.TableID] = o
	return "", true
}

// Discard drops o from its table if it is still the table's order. It is
// used to take back an order whose items the kitchen refused.
func (r *Repo) Discard(o *Order) bool {
	return r.tables.deleteIf(o.TableID, o)
}

func (r *Repo) ByTableID(tableID uint32) (*Order, bool) {
	return r.tables.load(tableID)
}

// Tables lists the table ids that have an order, ascending.
func (r *Repo) Tables() []uint32 {
	return r.tables.keys()
}

// MealItem looks the item up in the table's order.
func (r *Repo) MealItem(tableID uint32, mealItemID uuid.UUID) (*MealItemRef, bool) {
	o, ok := r.tables.load(tableID)
	if !ok {
		return nil, false
	}
	return o.MealItem(mealItemID)
}

// AddMealItems reports false when the table has no order.
func (r *Repo) AddMealItems(tableID uint32, items []*MealItem) bool {
	o, ok := r.tables.load(tableID)
	if !ok {
		return false
	}
	o.AddMealItems(items)
	return true
}

// UpdateMealItemStatus moves an item forward under the item's own guard.
// It reports false when the table or the item is gone. A request that would
// not move the item forward is accepted and ignored.
func (r *Repo) UpdateMealItemStatus(tableID uint32, mealItemID uuid.UUID, status MealItemStatus) bool {
	ref, ok := r.MealItem(tableID, mealItemID)
	if !ok {
		return false
	}
	it := ref.Lock()
	defer ref.Unlock()
	if CanAdvance(it.Status, status) {
		it.UpdateStatus(status, r.clock.Now())
	}
	return true
}

// RemoveMealItems returns the ids that could not be removed. existed is
// false when the table has no order.
func (r *Repo) RemoveMealItems(tableID uint32, ids []uuid.UUID) (nonRemovable []uuid.UUID, existed bool) {
	o, ok := r.tables.load(tableID)
	if !ok {
		return nil, false
	}
	return o.RemoveMealItems(ids), true
}

// RemoveOrder cancels every item of the table's order. It refuses when any
// live item is Preparing or Completed.
func (r *Repo) RemoveOrder(tableID uint32) (removed, existed bool) {
	o, ok := r.tables.load(tableID)
	if !ok {
		return false, false
	}
	return o.cancel(), true
}
