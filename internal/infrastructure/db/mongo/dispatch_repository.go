package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
)

var _ ports.DispatchRepository = (*DispatchRepository)(nil)

// DispatchRepository stores dispatches keyed by tracking code (_id).
type DispatchRepository struct {
	col *mongo.Collection
}

func NewDispatchRepository(db *mongo.Database) *DispatchRepository {
	return &DispatchRepository{col: db.Collection(collectionDispatches)}
}

func (r *DispatchRepository) Create(ctx context.Context, d *domain.Dispatch) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDispatchExists
		}
		return err
	}
	return nil
}

func (r *DispatchRepository) Find(ctx context.Context, trackingID string) (*domain.Dispatch, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.Dispatch
	err := r.col.FindOne(ctx, bson.M{"_id": trackingID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDispatchNotFound
		}
		return nil, err
	}
	return &d, nil
}
