package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-realtime-kitchen/internal/menu"
	"github.com/ariefcatur/go-realtime-kitchen/internal/orders"
)

// Dispatcher hands accepted meal items to the kitchen.
type Dispatcher interface {
	Dispatch(tableID uint32, mealItemIDs []uuid.UUID) error
}

// IdempotencyStore deduplicates order creation by client key.
type IdempotencyStore interface {
	Claim(ctx context.Context, tableID uint32, key, orderID string) (string, bool, error)
}

type OrdersHandler struct {
	Repo    *orders.Repo
	Meals   *orders.MealFactory
	Menu    menu.Catalog
	Kitchen Dispatcher
	Idem    IdempotencyStore // optional
	Log     *zap.Logger
}

type menuItemReq struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name,omitempty"`
	Price      string    `json:"price,omitempty"`
}

type addItemsReq struct {
	MenuItems []menuItemReq `json:"menu_items"`
}

type removeItemsReq struct {
	MealItemIDs []uuid.UUID `json:"meal_item_ids"`
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/menu", h.listMenu)
	r.Get("/tables", h.listTables)
	r.Route("/tables/{tableID}", func(r chi.Router) {
		r.Post("/order", h.addOrder)
		r.Get("/order", h.queryOrder)
		r.Delete("/order", h.removeOrder)
		r.Post("/items", h.addMealItems)
		r.Delete("/items", h.removeMealItems)
		r.Get("/items/{itemID}", h.queryMealItem)
	})
}

func (h *OrdersHandler) listMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Menu.Items(ctx)
	if err != nil {
		h.Log.Error("list menu", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]menuItemResp, 0, len(items))
	for _, it := range items {
		out = append(out, menuItemResp{MenuItemID: it.ID, Name: it.Name, Price: it.Price.String()})
	}
	writeJSON(w, http.StatusOK, dataResp{Data: out})
}

func (h *OrdersHandler) listTables(w http.ResponseWriter, r *http.Request) {
	ids := h.Repo.Tables()
	out := make([]tableResp, 0, len(ids))
	for _, id := range ids {
		o, ok := h.Repo.ByTableID(id)
		if !ok {
			continue
		}
		out = append(out, tableResp{TableID: id, OrderID: o.ID, Status: o.Status()})
	}
	writeJSON(w, http.StatusOK, dataResp{Data: out})
}

func (h *OrdersHandler) addOrder(w http.ResponseWriter, r *http.Request) {
	tableID, ok := tableParam(w, r)
	if !ok {
		return
	}
	items, ok := h.decodeMenuItems(w, r)
	if !ok {
		return
	}

	o := orders.NewOrder(tableID, h.Meals.NewAll(items), h.Meals.Clock)

	if key := r.Header.Get("Idempotency-Key"); key != "" && h.Idem != nil {
		prev, first, err := h.Idem.Claim(r.Context(), tableID, key, o.ID.String())
		if err != nil {
			// the repository stays the source of truth
			h.Log.Warn("idempotency claim failed", zap.Uint32("table_id", tableID), zap.Error(err))
		} else if !first {
			if cur, ok := h.Repo.ByTableID(tableID); ok && cur.ID.String() == prev {
				writeJSON(w, http.StatusOK, dataResp{Data: toOrderResp(cur.Snapshot(false))})
				return
			}
		}
	}

	if _, ok := h.Repo.AddIfSettled(o); !ok {
		writeError(w, http.StatusConflict, msgOrderNotSettled)
		return
	}
	refs := o.MealItems()
	ids := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID())
	}
	if !h.dispatch(w, tableID, ids) {
		h.Repo.Discard(o)
		return
	}
	writeJSON(w, http.StatusCreated, dataResp{Data: toOrderResp(o.Snapshot(false))})
}

func (h *OrdersHandler) queryOrder(w http.ResponseWriter, r *http.Request) {
	tableID, ok := tableParam(w, r)
	if !ok {
		return
	}
	o, ok := h.Repo.ByTableID(tableID)
	if !ok {
		writeError(w, http.StatusNotFound, msgOrderNotFound)
		return
	}
	includeRemoved, _ := strconv.ParseBool(r.URL.Query().Get("include_removed"))
	writeJSON(w, http.StatusOK, dataResp{Data: toOrderResp(o.Snapshot(includeRemoved))})
}

func (h *OrdersHandler) removeOrder(w http.ResponseWriter, r *http.Request) {
	tableID, ok := tableParam(w, r)
	if !ok {
		return
	}
	removed, existed := h.Repo.RemoveOrder(tableID)
	switch {
	case !existed:
		writeError(w, http.StatusNotFound, msgOrderNotFound)
	case !removed:
		writeError(w, http.StatusConflict, msgOrderRemovalFailed)
	default:
		o, _ := h.Repo.ByTableID(tableID)
		writeJSON(w, http.StatusOK, dataResp{Data: toOrderResp(o.Snapshot(true))})
	}
}

func (h *OrdersHandler) addMealItems(w http.ResponseWriter, r *http.Request) {
	tableID, ok := tableParam(w, r)
	if !ok {
		return
	}
	items, ok := h.decodeMenuItems(w, r)
	if !ok {
		return
	}

	meals := h.Meals.NewAll(items)
	if !h.Repo.AddMealItems(tableID, meals) {
		writeError(w, http.StatusNotFound, msgOrderNotFound)
		return
	}
	ids := make([]uuid.UUID, 0, len(meals))
	for _, m := range meals {
		ids = append(ids, m.ID)
	}
	if !h.dispatch(w, tableID, ids) {
		h.Repo.RemoveMealItems(tableID, ids)
		return
	}

	o, ok := h.Repo.ByTableID(tableID)
	if !ok {
		writeError(w, http.StatusNotFound, msgOrderNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dataResp{Data: toOrderResp(o.Snapshot(false))})
}

func (h *OrdersHandler) removeMealItems(w http.ResponseWriter, r *http.Request) {
	tableID, ok := tableParam(w, r)
	if !ok {
		return
	}
	var req removeItemsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.MealItemIDs) == 0 {
		writeError(w, http.StatusBadRequest, "meal_item_ids is required")
		return
	}

	nonRemovable, existed := h.Repo.RemoveMealItems(tableID, req.MealItemIDs)
	if !existed {
		writeError(w, http.StatusNotFound, msgOrderNotFound)
		return
	}
	msg := msgItemsRemoved
	if len(nonRemovable) > 0 {
		msg = msgItemsPartlyRemoved
	}
	writeJSON(w, http.StatusOK, dataResp{Data: removeItemsResp{
		TableID:                 tableID,
		NonRemovableMealItemIDs: nonRemovable,
		Message:                 msg,
	}})
}

func (h *OrdersHandler) queryMealItem(w http.ResponseWriter, r *http.Request) {
	tableID, ok := tableParam(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meal item id")
		return
	}
	ref, ok := h.Repo.MealItem(tableID, itemID)
	if !ok {
		writeError(w, http.StatusNotFound, msgItemNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dataResp{Data: toMealItemResp(ref.Get())})
}

func (h *OrdersHandler) decodeMenuItems(w http.ResponseWriter, r *http.Request) ([]orders.MenuItem, bool) {
	var req addItemsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return nil, false
	}
	if len(req.MenuItems) == 0 {
		writeError(w, http.StatusBadRequest, "menu_items is required")
		return nil, false
	}
	sel := make([]menu.Selection, 0, len(req.MenuItems))
	for _, m := range req.MenuItems {
		sel = append(sel, menu.Selection{MenuItemID: m.MenuItemID, Name: m.Name, Price: m.Price})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	items, err := menu.Resolve(ctx, h.Menu, sel)
	switch {
	case errors.Is(err, orders.ErrInvalidPrice), errors.Is(err, menu.ErrUnknownItem):
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	case err != nil:
		h.Log.Error("resolve menu items", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return items, true
}

func (h *OrdersHandler) dispatch(w http.ResponseWriter, tableID uint32, ids []uuid.UUID) bool {
	if err := h.Kitchen.Dispatch(tableID, ids); err != nil {
		h.Log.Error("dispatch meal items", zap.Uint32("table_id", tableID), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, msgKitchenUnavailable)
		return false
	}
	return true
}

func tableParam(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "tableID"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid table id")
		return 0, false
	}
	return uint32(id), true
}
