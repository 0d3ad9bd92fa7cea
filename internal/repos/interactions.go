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

type InteractionRepo interface {
	Append(ctx context.Context, interaction *domain.Interaction) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Interaction, error)
	Scan(ctx context.Context, fn func(domain.Interaction) error) error
}

type interactionRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewInteractionRepo(db *mongo.Database, baseLog *logger.Logger) InteractionRepo {
	return &interactionRepo{coll: db.Collection("user_interactions"), log: baseLog.With("repo", "InteractionRepo")}
}

func (r *interactionRepo) Append(ctx context.Context, interaction *domain.Interaction) error {
	if interaction.InteractionID == "" {
		interaction.InteractionID = uuid.NewString()
	}
	if interaction.InteractedAt.IsZero() {
		interaction.InteractedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, interaction)
	return err
}

func (r *interactionRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Interaction, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "interacted_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*domain.Interaction
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *interactionRepo) Scan(ctx context.Context, fn func(domain.Interaction) error) error {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var interaction domain.Interaction
		if err := cursor.Decode(&interaction); err != nil {
			return err
		}
		if err := fn(interaction); err != nil {
			return err
		}
	}
	return cursor.Err()
}
