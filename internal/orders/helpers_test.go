package orders

import (
	"time"

	"github.com/google/uuid"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testClock() Clock { return ClockFunc(func() time.Time { return testNow }) }

func testFactory(minutes uint32) *MealFactory {
	return &MealFactory{Clock: testClock(), Cooking: FixedCooking(minutes)}
}

func menuItem(name string, price Price) MenuItem {
	return MenuItem{ID: uuid.New(), Name: name, Price: price}
}

// recompute sums the live items, for checking the incremental totals.
func recompute(o *Order) (Price, uint32) {
	var p Price
	var m uint32
	for _, ref := range o.MealItems() {
		it := ref.Get()
		if it.Removed {
			continue
		}
		p += it.Price()
		m += it.CookingMinutes
	}
	return p, m
}

func setStatus(o *Order, id uuid.UUID, s MealItemStatus) {
	ref, _ := o.MealItem(id)
	it := ref.Lock()
	it.UpdateStatus(s, testNow)
	ref.Unlock()
}
