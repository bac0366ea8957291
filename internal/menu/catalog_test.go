package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-realtime-kitchen/internal/orders"
)

func TestSeededItems(t *testing.T) {
	items, err := Seeded().Items(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	if len(names) != 3 || names[0] != "Burger" || names[1] != "Cola" || names[2] != "Fries" {
		t.Errorf("names = %v", names)
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	cat := Seeded()
	burger := uuid.MustParse("6f1c2f3e-2b7a-4c55-9a43-2d0f7f5d0a01")
	custom := uuid.New()

	got, err := Resolve(ctx, cat, []Selection{
		{MenuItemID: burger},
		{MenuItemID: custom, Name: "Soup", Price: "420"},
		{Name: "Tea", Price: "150"},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Name != "Burger" || got[0].Price != 855 {
		t.Errorf("catalog item = %+v", got[0])
	}
	if got[1].ID != custom || got[1].Price != 420 {
		t.Errorf("custom item = %+v", got[1])
	}
	if got[2].ID == uuid.Nil || got[2].Name != "Tea" {
		t.Errorf("unnamed id item = %+v", got[2])
	}
}

func TestResolveErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		sel  Selection
		want error
	}{
		{"unknown", Selection{MenuItemID: uuid.New()}, ErrUnknownItem},
		{"negativePrice", Selection{Name: "Soup", Price: "-3"}, orders.ErrInvalidPrice},
		{"fractionalPrice", Selection{Name: "Soup", Price: "3.5"}, orders.ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(ctx, Seeded(), []Selection{tt.sel}); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
