package mongo

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
)

var _ ports.OfferRepository = (*OfferRepository)(nil)

// offerBoard holds every offer of one tracking code in a single document so
// append and accept are single-document atomic updates.
type offerBoard struct {
	TrackingID       string         `bson:"_id"`
	AcceptedDriverID string         `bson:"accepted_driver_id,omitempty"`
	Offers           []domain.Offer `bson:"offers"`
	UpdatedAt        time.Time      `bson:"updated_at"`
}

func (b *offerBoard) accepted() (*domain.Offer, bool) {
	if b.AcceptedDriverID == "" {
		return nil, false
	}
	for i := range b.Offers {
		if b.Offers[i].DriverID == b.AcceptedDriverID && b.Offers[i].Status == domain.OfferAccepted {
			o := b.Offers[i]
			return &o, true
		}
	}
	return nil, false
}

type OfferRepository struct {
	col *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) *OfferRepository {
	return &OfferRepository{col: db.Collection(collectionOfferBoards)}
}

// List returns the board's offers ordered by creation time.
func (r *OfferRepository) List(ctx context.Context, trackingID string) ([]domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	b, err := r.board(ctx, trackingID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []domain.Offer{}, nil
	}
	if err != nil {
		return nil, err
	}

	offers := b.Offers
	if offers == nil {
		offers = []domain.Offer{}
	}
	sort.SliceStable(offers, func(i, j int) bool { return offers[i].CreatedAt.Before(offers[j].CreatedAt) })
	return offers, nil
}

// Append pushes the offer onto the board, creating the board on first use.
// The guard filter only matches a board with no accepted offer and no
// active offer from the same driver. A duplicate key on _id means either the
// guard failed on an existing board or another first offer created the board
// concurrently; the board is re-read and, in the latter case, the guarded
// push is retried once without upsert.
func (r *OfferRepository) Append(ctx context.Context, offer *domain.Offer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":                offer.TrackingID,
		"accepted_driver_id": bson.M{"$exists": false},
		"offers": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"driver_id": offer.DriverID,
			"status":    bson.M{"$in": bson.A{domain.OfferPending, domain.OfferAccepted}},
		}}},
	}
	update := bson.M{
		"$push": bson.M{"offers": offer},
		"$set":  bson.M{"updated_at": offer.CreatedAt},
	}

	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}

	if err := r.appendConflict(ctx, offer); err != nil {
		return err
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if err := r.appendConflict(ctx, offer); err != nil {
		return err
	}
	return errors.New("offer board changed concurrently")
}

// appendConflict re-reads the board after a failed guarded push. A nil
// result means the guard would now match.
func (r *OfferRepository) appendConflict(ctx context.Context, offer *domain.Offer) error {
	b, err := r.board(ctx, offer.TrackingID)
	if err != nil {
		return err
	}
	return b.appendConflict(offer.DriverID)
}

func (b *offerBoard) appendConflict(driverID string) error {
	if b.AcceptedDriverID != "" {
		return domain.ErrRequestNotEligible
	}
	for _, o := range b.Offers {
		if o.DriverID == driverID && o.Status.IsActive() {
			return domain.ErrDuplicateOffer
		}
	}
	return nil
}

// Accept flips the driver's PENDING offer to ACCEPTED and every other
// PENDING offer to REJECTED in one update.
func (r *OfferRepository) Accept(ctx context.Context, trackingID, driverID string, at time.Time) (*domain.Offer, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":                trackingID,
		"accepted_driver_id": bson.M{"$exists": false},
		"offers": bson.M{"$elemMatch": bson.M{
			"driver_id": driverID,
			"status":    domain.OfferPending,
		}},
	}
	update := bson.M{"$set": bson.M{
		"accepted_driver_id":        driverID,
		"updated_at":                at,
		"offers.$[win].status":      domain.OfferAccepted,
		"offers.$[win].updated_at":  at,
		"offers.$[lose].status":     domain.OfferRejected,
		"offers.$[lose].updated_at": at,
	}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
			bson.M{"win.driver_id": driverID, "win.status": domain.OfferPending},
			bson.M{"lose.driver_id": bson.M{"$ne": driverID}, "lose.status": domain.OfferPending},
		}})

	var b offerBoard
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b)
	if err == nil {
		if won, ok := b.accepted(); ok {
			return won, false, nil
		}
		return nil, false, errors.New("offer board updated without an accepted offer")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	// The guard did not match: classify from the current board.
	current, err := r.board(ctx, trackingID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, domain.ErrOfferNotFound
	}
	if err != nil {
		return nil, false, err
	}
	if won, ok := current.accepted(); ok {
		if won.DriverID == driverID {
			return won, true, nil
		}
		return nil, false, domain.ErrOfferAlreadyAccepted
	}
	return nil, false, domain.ErrOfferNotFound
}

func (r *OfferRepository) FindAccepted(ctx context.Context, trackingID string) (*domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	b, err := r.board(ctx, trackingID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNoAcceptedOffer
	}
	if err != nil {
		return nil, err
	}
	won, ok := b.accepted()
	if !ok {
		return nil, domain.ErrNoAcceptedOffer
	}
	return won, nil
}

func (r *OfferRepository) board(ctx context.Context, trackingID string) (*offerBoard, error) {
	var b offerBoard
	if err := r.col.FindOne(ctx, bson.M{"_id": trackingID}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}
