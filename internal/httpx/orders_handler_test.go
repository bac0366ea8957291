package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-realtime-kitchen/internal/menu"
	"github.com/ariefcatur/go-realtime-kitchen/internal/orders"
)

type fakeKitchen struct {
	mu   sync.Mutex
	ids  []uuid.UUID
	fail bool
}

func (k *fakeKitchen) Dispatch(_ uint32, ids []uuid.UUID) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.fail {
		return errors.New("closed")
	}
	k.ids = append(k.ids, ids...)
	return nil
}

type memIdem struct {
	mu   sync.Mutex
	keys map[string]string
}

func (m *memIdem) Claim(_ context.Context, tableID uint32, key, orderID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys == nil {
		m.keys = map[string]string{}
	}
	k := fmt.Sprintf("%d:%s", tableID, key)
	if prev, ok := m.keys[k]; ok {
		return prev, false, nil
	}
	m.keys[k] = orderID
	return orderID, true, nil
}

type env struct {
	repo    *orders.Repo
	kitchen *fakeKitchen
	router  http.Handler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	repo := orders.NewRepo(nil)
	k := &fakeKitchen{}
	h := &OrdersHandler{
		Repo:    repo,
		Meals:   &orders.MealFactory{Clock: orders.SystemClock{}, Cooking: orders.FixedCooking(7)},
		Menu:    menu.Seeded(),
		Kitchen: k,
		Idem:    &memIdem{},
		Log:     zap.NewNop(),
	}
	r := chi.NewRouter()
	h.Register(r)
	return &env{repo: repo, kitchen: k, router: r}
}

func (e *env) do(t *testing.T, method, path string, body any, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out.Data
}

func items(prices ...string) map[string]any {
	sel := make([]map[string]string, 0, len(prices))
	for _, p := range prices {
		sel = append(sel, map[string]string{"name": "dish " + p, "price": p})
	}
	return map[string]any{"menu_items": sel}
}

func TestAddOrder(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/tables/4/order", items("345"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	o := decode[orderResp](t, rec)
	if o.TotalPrice != "345" || o.Status != orders.OrderReceived || o.TableID != 4 {
		t.Errorf("order = %+v", o)
	}
	if o.TotalCookingTimeInMin != 7 || len(o.MealItems) != 1 {
		t.Errorf("order = %+v", o)
	}
	if len(e.kitchen.ids) != 1 || e.kitchen.ids[0] != o.MealItems[0].MealItemID {
		t.Errorf("dispatched %v", e.kitchen.ids)
	}

	rec = e.do(t, http.MethodPost, "/tables/4/order", items("100"))
	if rec.Code != http.StatusConflict {
		t.Errorf("second order status = %d, want 409", rec.Code)
	}
}

func TestAddOrderFromCatalog(t *testing.T) {
	e := newEnv(t)
	body := map[string]any{"menu_items": []map[string]string{
		{"menu_item_id": "6f1c2f3e-2b7a-4c55-9a43-2d0f7f5d0a02"},
	}}
	rec := e.do(t, http.MethodPost, "/tables/1/order", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	if o := decode[orderResp](t, rec); o.MealItems[0].Name != "Fries" || o.TotalPrice != "349" {
		t.Errorf("order = %+v", o)
	}
}

func TestAddOrderIdempotent(t *testing.T) {
	e := newEnv(t)
	first := e.do(t, http.MethodPost, "/tables/2/order", items("100"), "Idempotency-Key", "abc")
	if first.Code != http.StatusCreated {
		t.Fatalf("status = %d", first.Code)
	}
	again := e.do(t, http.MethodPost, "/tables/2/order", items("100"), "Idempotency-Key", "abc")
	if again.Code != http.StatusOK {
		t.Fatalf("replay status = %d, want 200", again.Code)
	}
	if decode[orderResp](t, first).OrderID != decode[orderResp](t, again).OrderID {
		t.Error("replay returned a different order")
	}
	if len(e.kitchen.ids) != 1 {
		t.Errorf("dispatched %d items, want 1", len(e.kitchen.ids))
	}
}

func TestBadRequests(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodPost, "/tables/1/order", items("100"))

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"tableNotNumber", http.MethodGet, "/tables/abc/order", nil},
		{"tableNegative", http.MethodGet, "/tables/-1/order", nil},
		{"tableTooLarge", http.MethodGet, "/tables/4294967296/order", nil},
		{"noItems", http.MethodPost, "/tables/9/order", map[string]any{"menu_items": []any{}}},
		{"badPrice", http.MethodPost, "/tables/9/order", items("1.5")},
		{"unknownMenuItem", http.MethodPost, "/tables/9/order", map[string]any{"menu_items": []map[string]string{{"menu_item_id": uuid.NewString()}}}},
		{"noIDs", http.MethodDelete, "/tables/1/items", map[string]any{"meal_item_ids": []string{}}},
		{"badItemID", http.MethodGet, "/tables/1/items/xyz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := e.do(t, tt.method, tt.path, tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	e := newEnv(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/tables/8/order"},
		{http.MethodDelete, "/tables/8/order"},
		{http.MethodPost, "/tables/8/items"},
		{http.MethodDelete, "/tables/8/items"},
		{http.MethodGet, "/tables/8/items/" + uuid.NewString()},
	} {
		var body any
		switch tc.path {
		case "/tables/8/items":
			body = items("100")
			if tc.method == http.MethodDelete {
				body = map[string]any{"meal_item_ids": []string{uuid.NewString()}}
			}
		}
		if rec := e.do(t, tc.method, tc.path, body); rec.Code != http.StatusNotFound {
			t.Errorf("%s %s = %d, want 404", tc.method, tc.path, rec.Code)
		}
	}
	if n := len(e.kitchen.ids); n != 0 {
		t.Errorf("dispatched %d items for a missing order", n)
	}
}

func TestAddAndRemoveMealItems(t *testing.T) {
	e := newEnv(t)
	o := decode[orderResp](t, e.do(t, http.MethodPost, "/tables/3/order", items("100", "200")))

	rec := e.do(t, http.MethodPost, "/tables/3/items", items("50"))
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d", rec.Code)
	}
	if got := decode[orderResp](t, rec); got.TotalPrice != "350" || len(got.MealItems) != 3 {
		t.Errorf("after add = %+v", got)
	}

	first, second := o.MealItems[0].MealItemID, o.MealItems[1].MealItemID
	e.repo.UpdateMealItemStatus(3, second, orders.StatusPreparing)
	missing := uuid.New()

	rec = e.do(t, http.MethodDelete, "/tables/3/items", map[string]any{
		"meal_item_ids": []uuid.UUID{first, second, missing},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}
	res := decode[removeItemsResp](t, rec)
	if len(res.NonRemovableMealItemIDs) != 2 || res.Message != msgItemsPartlyRemoved {
		t.Errorf("remove = %+v", res)
	}

	got := decode[orderResp](t, e.do(t, http.MethodGet, "/tables/3/order", nil))
	if len(got.MealItems) != 2 || got.Status != orders.OrderPreparing {
		t.Errorf("live order = %+v", got)
	}
	all := decode[orderResp](t, e.do(t, http.MethodGet, "/tables/3/order?include_removed=true", nil))
	if len(all.MealItems) != 3 {
		t.Errorf("include_removed items = %d, want 3", len(all.MealItems))
	}

	item := decode[mealItemResp](t, e.do(t, http.MethodGet, "/tables/3/items/"+first.String(), nil))
	if !item.IsRemoved {
		t.Error("removed item not flagged")
	}
}

func TestRemoveOrder(t *testing.T) {
	e := newEnv(t)
	o := decode[orderResp](t, e.do(t, http.MethodPost, "/tables/5/order", items("100")))

	e.repo.UpdateMealItemStatus(5, o.MealItems[0].MealItemID, orders.StatusPreparing)
	if rec := e.do(t, http.MethodDelete, "/tables/5/order", nil); rec.Code != http.StatusConflict {
		t.Errorf("remove preparing order = %d, want 409", rec.Code)
	}

	e = newEnv(t)
	e.do(t, http.MethodPost, "/tables/5/order", items("100"))
	rec := e.do(t, http.MethodDelete, "/tables/5/order", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}
	got := decode[orderResp](t, rec)
	if got.Status != orders.OrderCanceled || got.TotalPrice != "0" || !got.MealItems[0].IsRemoved {
		t.Errorf("canceled order = %+v", got)
	}
	if rec := e.do(t, http.MethodPost, "/tables/5/order", items("100")); rec.Code != http.StatusCreated {
		t.Errorf("new order after cancel = %d, want 201", rec.Code)
	}
}

func TestListTablesAndMenu(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodPost, "/tables/12/order", items("100"))
	e.do(t, http.MethodPost, "/tables/2/order", items("100"))

	tables := decode[[]tableResp](t, e.do(t, http.MethodGet, "/tables", nil))
	if len(tables) != 2 || tables[0].TableID != 2 || tables[1].TableID != 12 {
		t.Errorf("tables = %+v", tables)
	}

	m := decode[[]menuItemResp](t, e.do(t, http.MethodGet, "/menu", nil))
	if len(m) != 3 || m[0].Name != "Burger" || m[0].Price != "855" {
		t.Errorf("menu = %+v", m)
	}
}

func TestKitchenUnavailable(t *testing.T) {
	e := newEnv(t)
	e.kitchen.fail = true
	if rec := e.do(t, http.MethodPost, "/tables/1/order", items("100")); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if _, ok := e.repo.ByTableID(1); ok {
		t.Error("refused order left on the table")
	}

	e.kitchen.fail = false
	if rec := e.do(t, http.MethodPost, "/tables/1/order", items("100")); rec.Code != http.StatusCreated {
		t.Fatalf("retry status = %d, want 201", rec.Code)
	}

	e.kitchen.fail = true
	if rec := e.do(t, http.MethodPost, "/tables/1/items", items("50")); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("add items status = %d, want 503", rec.Code)
	}
	got := decode[orderResp](t, e.do(t, http.MethodGet, "/tables/1/order", nil))
	if got.TotalPrice != "100" || len(got.MealItems) != 1 {
		t.Errorf("refused items kept: %+v", got)
	}
}
