package orders

// MealItemStatus is the cooking state of a single meal item.
type MealItemStatus string

const (
	StatusReceived  MealItemStatus = "Received"
	StatusPreparing MealItemStatus = "Preparing"
	StatusCompleted MealItemStatus = "Completed"
)

// OrderStatus is derived from the live items of an order, never stored.
type OrderStatus string

const (
	OrderReceived  OrderStatus = "Received"
	OrderPreparing OrderStatus = "Preparing"
	OrderCompleted OrderStatus = "Completed"
	OrderCanceled  OrderStatus = "Canceled"
)

var validNext = map[MealItemStatus]map[MealItemStatus]bool{
	StatusReceived:  {StatusPreparing: true, StatusCompleted: true},
	StatusPreparing: {StatusCompleted: true},
	StatusCompleted: {},
}

// CanAdvance reports whether from -> to moves an item forward.
func CanAdvance(from, to MealItemStatus) bool {
	return validNext[from][to]
}

// Settled reports whether a table may take a new order.
func (s OrderStatus) Settled() bool {
	return s == OrderCompleted || s == OrderCanceled
}
