package orders

import (
	"encoding/json"
	"time"
)

const (
	EventMealItemStatusChanged = "MealItemStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // meal item id
	Payload       json.RawMessage `json:"payload"`
}

type MealItemStatusChangedPayload struct {
	TableID        uint32         `json:"table_id"`
	MealItemID     string         `json:"meal_item_id"`
	Name           string         `json:"name"`
	OldStatus      MealItemStatus `json:"old_status"`
	NewStatus      MealItemStatus `json:"new_status"`
	CookingMinutes uint32         `json:"cooking_minutes"`
	ChangedBy      string         `json:"changed_by"`
}
