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

const defaultViewHistoryLimit = 10

type ViewRepo interface {
	Append(ctx context.Context, view *domain.ProductView) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.ProductView, error)
	Scan(ctx context.Context, fn func(domain.ProductView) error) error
}

type viewRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewViewRepo(db *mongo.Database, baseLog *logger.Logger) ViewRepo {
	return &viewRepo{coll: db.Collection("product_views"), log: baseLog.With("repo", "ViewRepo")}
}

func (r *viewRepo) Append(ctx context.Context, view *domain.ProductView) error {
	if view.ViewID == "" {
		view.ViewID = uuid.NewString()
	}
	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, view)
	return err
}

func (r *viewRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.ProductView, error) {
	if limit <= 0 {
		limit = defaultViewHistoryLimit
	}
	cursor, err := r.coll.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "viewed_at", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*domain.ProductView
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *viewRepo) Scan(ctx context.Context, fn func(domain.ProductView) error) error {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var view domain.ProductView
		if err := cursor.Decode(&view); err != nil {
			return err
		}
		if err := fn(view); err != nil {
			return err
		}
	}
	return cursor.Err()
}
