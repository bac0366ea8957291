package orders

import "strconv"

const (
	TopicMealItemStatus = "kitchen.meal_item.status"
)

// PartitionKey keeps all events of one table on one partition, in order.
func PartitionKey(tableID uint32) []byte { return []byte(strconv.FormatUint(uint64(tableID), 10)) }
