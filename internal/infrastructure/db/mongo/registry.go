package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
)

var (
	_ ports.RequestRegistry = (*RequestRegistry)(nil)
	_ ports.DriverRegistry  = (*DriverRegistry)(nil)
)

// RequestRegistry reads the request board from the tracking_requests
// collection, which the requester side of the platform owns.
type RequestRegistry struct {
	col *mongo.Collection
}

func NewRequestRegistry(db *mongo.Database) *RequestRegistry {
	return &RequestRegistry{col: db.Collection(collectionRequests)}
}

func (r *RequestRegistry) Find(ctx context.Context, trackingID string) (*domain.TrackingRequest, error) {
	var req domain.TrackingRequest
	err := r.col.FindOne(ctx, bson.M{"tracking_id": trackingID}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Put upserts a request by tracking code. Used for seeding.
func (r *RequestRegistry) Put(ctx context.Context, req domain.TrackingRequest) error {
	if req.Status == "" {
		req.Status = domain.RequestOpen
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"tracking_id": req.TrackingID}, req, options.Replace().SetUpsert(true))
	return err
}

// AdvanceStatus only matches documents in a predecessor status, so a
// request never moves backwards even under concurrent writers.
func (r *RequestRegistry) AdvanceStatus(ctx context.Context, trackingID string, status domain.RequestStatus) error {
	from := bson.A{}
	for _, s := range status.Predecessors() {
		from = append(from, s)
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"tracking_id": trackingID, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"tracking_id": trackingID})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// DriverRegistry reads the drivers collection. Inactive drivers are hidden.
type DriverRegistry struct {
	col *mongo.Collection
}

func NewDriverRegistry(db *mongo.Database) *DriverRegistry {
	return &DriverRegistry{col: db.Collection(collectionDrivers)}
}

// Put upserts a driver by id. Used for seeding.
func (r *DriverRegistry) Put(ctx context.Context, d domain.Driver) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"driver_id": d.DriverID}, d, options.Replace().SetUpsert(true))
	return err
}

func (r *DriverRegistry) Find(ctx context.Context, driverID string) (*domain.Driver, error) {
	var d domain.Driver
	err := r.col.FindOne(ctx, bson.M{"driver_id": driverID, "active": true}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDriverNotFound
		}
		return nil, err
	}
	return &d, nil
}
