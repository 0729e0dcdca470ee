package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
)

var _ ports.EventPublisher = (*EventRepository)(nil)

// EventRepository persists lifecycle events to the lifecycle_events audit
// collection. It is used as an EventPublisher.
type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionLifecycleEvents)}
}

func (r *EventRepository) Publish(ctx context.Context, ev domain.LifecycleEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"type":        string(ev.Type),
		"tracking_id": ev.TrackingID,
		"driver_id":   ev.DriverID,
		"occurred_at": ev.OccurredAt.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if ev.Offer != nil {
		doc["offer"] = ev.Offer
	}
	if ev.Dispatch != nil {
		doc["dispatch"] = ev.Dispatch
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
