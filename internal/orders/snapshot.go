package orders

import (
	"time"

	"github.com/google/uuid"
)

// OrderSnapshot is a point-in-time copy of an order for readers.
type OrderSnapshot struct {
	OrderID             uuid.UUID
	TableID             uint32
	Status              OrderStatus
	TotalPrice          Price
	TotalCookingMinutes uint32
	// RemainingCookingUpperBound sums the cooking minutes of live items
	// that are not completed yet.
	RemainingCookingUpperBound uint32
	MealItems                  []MealItem
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// Snapshot copies the order. Removed items are listed only when
// includeRemoved is set; they never count towards status or remaining time.
func (o *Order) Snapshot(includeRemoved bool) OrderSnapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	s := OrderSnapshot{
		OrderID:             o.ID,
		TableID:             o.TableID,
		TotalPrice:          o.totalPrice,
		TotalCookingMinutes: o.totalCookingMinutes,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.updatedAt,
		MealItems:           make([]MealItem, 0, len(o.items)),
	}
	all := make([]*MealItem, 0, len(o.items))
	for _, ref := range o.sortedRefs() {
		it := ref.Get()
		all = append(all, &it)
		if it.Removed && !includeRemoved {
			continue
		}
		s.MealItems = append(s.MealItems, it)
		if !it.Removed && it.Status != StatusCompleted {
			s.RemainingCookingUpperBound += it.CookingMinutes
		}
	}
	s.Status = deriveStatus(all)
	return s
}
