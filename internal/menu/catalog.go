// Package menu is the source of menu items orders are placed from.
package menu

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-realtime-kitchen/internal/orders"
)

var ErrUnknownItem = errors.New("unknown menu item")

type Catalog interface {
	Items(ctx context.Context) ([]orders.MenuItem, error)
	Lookup(ctx context.Context, id uuid.UUID) (orders.MenuItem, error)
}

// Memory is an in-process catalog.
type Memory struct {
	mu    sync.RWMutex
	items map[uuid.UUID]orders.MenuItem
}

func NewMemory(items ...orders.MenuItem) *Memory {
	m := &Memory{items: make(map[uuid.UUID]orders.MenuItem, len(items))}
	m.Add(items...)
	return m
}

// Seeded returns a catalog with the demo fast food menu.
func Seeded() *Memory {
	return NewMemory(
		orders.MenuItem{ID: uuid.MustParse("6f1c2f3e-2b7a-4c55-9a43-2d0f7f5d0a01"), Name: "Burger", Price: 855},
		orders.MenuItem{ID: uuid.MustParse("6f1c2f3e-2b7a-4c55-9a43-2d0f7f5d0a02"), Name: "Fries", Price: 349},
		orders.MenuItem{ID: uuid.MustParse("6f1c2f3e-2b7a-4c55-9a43-2d0f7f5d0a03"), Name: "Cola", Price: 199},
	)
}

func (m *Memory) Add(items ...orders.MenuItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range items {
		m.items[it.ID] = it
	}
}

func (m *Memory) Items(context.Context) ([]orders.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]orders.MenuItem, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	slices.SortFunc(out, func(a, b orders.MenuItem) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (m *Memory) Lookup(_ context.Context, id uuid.UUID) (orders.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	if !ok {
		return orders.MenuItem{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	return it, nil
}

// Selection is a menu item as a client sends it. Name and Price may be
// omitted, in which case they come from the catalog.
type Selection struct {
	MenuItemID uuid.UUID
	Name       string
	Price      string
}

// Resolve turns client selections into menu items.
func Resolve(ctx context.Context, c Catalog, sel []Selection) ([]orders.MenuItem, error) {
	out := make([]orders.MenuItem, 0, len(sel))
	for _, s := range sel {
		if s.Name != "" && s.Price != "" {
			p, err := orders.ParsePrice(s.Price)
			if err != nil {
				return nil, err
			}
			id := s.MenuItemID
			if id == uuid.Nil {
				id = uuid.New()
			}
			out = append(out, orders.MenuItem{ID: id, Name: s.Name, Price: p})
			continue
		}
		it, err := c.Lookup(ctx, s.MenuItemID)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}
