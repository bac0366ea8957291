package httpx

import (
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-realtime-kitchen/internal/orders"
)

const (
	msgOrderNotFound      = "There are no orders associated with this table"
	msgItemNotFound       = "The specified meal item can't be found for this table"
	msgOrderNotSettled    = "The table already has an order that is not completed or canceled"
	msgItemsRemoved       = "All specified items have been removed successfully."
	msgItemsPartlyRemoved = "Some items could not be removed as they have already started preparing, completed, or were not found."
	msgOrderRemovalFailed = "Order cannot be removed as it has already started preparing, or completed"
	msgKitchenUnavailable = "The kitchen is not accepting new items"
)

type mealItemResp struct {
	MealItemID       uuid.UUID             `json:"meal_item_id"`
	MenuItemID       uuid.UUID             `json:"menu_item_id"`
	Name             string                `json:"name"`
	Price            string                `json:"price"`
	Status           orders.MealItemStatus `json:"status"`
	CookingTimeInMin uint32                `json:"cooking_time_in_min"`
	IsRemoved        bool                  `json:"is_removed"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

type orderResp struct {
	OrderID                             uuid.UUID          `json:"order_id"`
	TableID                             uint32             `json:"table_id"`
	Status                              orders.OrderStatus `json:"status"`
	TotalPrice                          string             `json:"total_price"`
	TotalCookingTimeInMin               uint32             `json:"total_cooking_time_in_min"`
	RemainingCookingTimeUpperBoundInMin uint32             `json:"remaining_cooking_time_upper_bound_in_min"`
	MealItems                           []mealItemResp     `json:"meal_items"`
	CreatedAt                           time.Time          `json:"created_at"`
	UpdatedAt                           time.Time          `json:"updated_at"`
}

type removeItemsResp struct {
	TableID                 uint32      `json:"table_id"`
	NonRemovableMealItemIDs []uuid.UUID `json:"non_removable_meal_item_ids"`
	Message                 string      `json:"message"`
}

type tableResp struct {
	TableID uint32             `json:"table_id"`
	OrderID uuid.UUID          `json:"order_id"`
	Status  orders.OrderStatus `json:"status"`
}

type menuItemResp struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
}

type dataResp struct {
	Data any `json:"data"`
}

func toMealItemResp(it orders.MealItem) mealItemResp {
	return mealItemResp{
		MealItemID:       it.ID,
		MenuItemID:       it.Menu.ID,
		Name:             it.Name(),
		Price:            it.Price().String(),
		Status:           it.Status,
		CookingTimeInMin: it.CookingMinutes,
		IsRemoved:        it.Removed,
		CreatedAt:        it.CreatedAt,
		UpdatedAt:        it.UpdatedAt,
	}
}

func toOrderResp(s orders.OrderSnapshot) orderResp {
	items := make([]mealItemResp, 0, len(s.MealItems))
	for _, it := range s.MealItems {
		items = append(items, toMealItemResp(it))
	}
	return orderResp{
		OrderID:                             s.OrderID,
		TableID:                             s.TableID,
		Status:                              s.Status,
		TotalPrice:                          s.TotalPrice.String(),
		TotalCookingTimeInMin:               s.TotalCookingMinutes,
		RemainingCookingTimeUpperBoundInMin: s.RemainingCookingUpperBound,
		MealItems:                           items,
		CreatedAt:                           s.CreatedAt,
		UpdatedAt:                           s.UpdatedAt,
	}
}
