package kitchen

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-realtime-kitchen/internal/kafka"
	"github.com/ariefcatur/go-realtime-kitchen/internal/orders"
)

// Publisher announces meal item status transitions.
type Publisher interface {
	MealItemStatusChanged(ctx context.Context, p orders.MealItemStatusChangedPayload)
}

type NopPublisher struct{}

func (NopPublisher) MealItemStatusChanged(context.Context, orders.MealItemStatusChangedPayload) {}

// KafkaPublisher writes status events to the kitchen topic.
type KafkaPublisher struct {
	Producer    *kafkax.Producer
	ServiceName string
}

func (k *KafkaPublisher) MealItemStatusChanged(_ context.Context, p orders.MealItemStatusChangedPayload) {
	p.ChangedBy = k.ServiceName
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventMealItemStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      k.ServiceName,
		CorrelationID: p.MealItemID,
		Payload:       kafkax.MustMarshal(p),
	}
	k.Producer.Publish(orders.PartitionKey(p.TableID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventMealItemStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
