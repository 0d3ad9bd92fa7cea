package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/shopgraph-backend/internal/domain"
	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
)

type PurchaseRepo interface {
	Append(ctx context.Context, purchase *domain.Purchase) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Purchase, error)
	Scan(ctx context.Context, fn func(domain.Purchase) error) error
}

type purchaseRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewPurchaseRepo(db *mongo.Database, baseLog *logger.Logger) PurchaseRepo {
	return &purchaseRepo{coll: db.Collection("purchases"), log: baseLog.With("repo", "PurchaseRepo")}
}

func (r *purchaseRepo) Append(ctx context.Context, purchase *domain.Purchase) error {
	if purchase.PurchaseID == "" {
		purchase.PurchaseID = uuid.NewString()
	}
	if purchase.PurchaseDate.IsZero() {
		purchase.PurchaseDate = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, purchase)
	return err
}

func (r *purchaseRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Purchase, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "purchase_date", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*domain.Purchase
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Scan streams every purchase record; used by the graph backfill job.
func (r *purchaseRepo) Scan(ctx context.Context, fn func(domain.Purchase) error) error {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var purchase domain.Purchase
		if err := cursor.Decode(&purchase); err != nil {
			return err
		}
		if err := fn(purchase); err != nil {
			return err
		}
	}
	return cursor.Err()
}
