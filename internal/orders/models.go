package orders

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// MenuItem is the menu entry a meal item is cooked from.
type MenuItem struct {
	ID    uuid.UUID
	Name  string
	Price Price
}

// MealItem is one ordered dish. It carries no lock of its own; the owning
// Order wraps every item in a MealItemRef.
type MealItem struct {
	ID             uuid.UUID
	Menu           MenuItem
	CookingMinutes uint32
	Status         MealItemStatus
	Removed        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Remove marks the item removed. Callers must have checked that cooking
// has not started.
func (m *MealItem) Remove(now time.Time) {
	m.Removed = true
	m.UpdatedAt = now
}

// UpdateStatus sets the status unconditionally.
func (m *MealItem) UpdateStatus(s MealItemStatus, now time.Time) {
	m.Status = s
	m.UpdatedAt = now
}

func (m MealItem) Price() Price { return m.Menu.Price }

func (m MealItem) Name() string { return m.Menu.Name }

// MealItemRef is the guarded handle to a meal item shared between the order,
// request handlers and kitchen workers.
type MealItemRef struct {
	id uuid.UUID
	mu sync.Mutex
	it MealItem
}

func newMealItemRef(m *MealItem) *MealItemRef {
	return &MealItemRef{id: m.ID, it: *m}
}

// ID is immutable and readable without the guard.
func (r *MealItemRef) ID() uuid.UUID { return r.id }

// Lock checks the item out; the returned pointer is valid until Unlock.
func (r *MealItemRef) Lock() *MealItem {
	r.mu.Lock()
	return &r.it
}

func (r *MealItemRef) Unlock() { r.mu.Unlock() }

// Get returns a copy of the item taken under its guard.
func (r *MealItemRef) Get() MealItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.it
}

// MealFactory builds meal items from menu selections.
type MealFactory struct {
	Clock   Clock
	Cooking CookingTimeSource
}

// NewMealFactory uses the wall clock and a 5..15 minute cooking range.
func NewMealFactory() *MealFactory {
	return &MealFactory{Clock: SystemClock{}, Cooking: NewRandomRange(5, 15)}
}

func (f *MealFactory) New(menu MenuItem) *MealItem {
	now := f.Clock.Now()
	return &MealItem{
		ID:             uuid.New(),
		Menu:           menu,
		CookingMinutes: f.Cooking.CookingMinutes(),
		Status:         StatusReceived,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (f *MealFactory) NewAll(menu []MenuItem) []*MealItem {
	out := make([]*MealItem, 0, len(menu))
	for _, m := range menu {
		out = append(out, f.New(m))
	}
	return out
}
