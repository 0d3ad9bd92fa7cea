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

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

type OrderRepo interface {
	Create(ctx context.Context, order *domain.Order) (string, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

type orderRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewOrderRepo(db *mongo.Database, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{coll: db.Collection("orders"), log: baseLog.With("repo", "OrderRepo")}
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) (string, error) {
	now := time.Now().UTC()
	if order.OrderID == "" {
		order.OrderID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = OrderStatusPending
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return "", err
	}
	return order.OrderID, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*domain.Order
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	return err
}
