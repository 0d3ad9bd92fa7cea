package repos

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/shopgraph-backend/internal/domain"
	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
)

type PreferenceRepo interface {
	Upsert(ctx context.Context, userID string, values map[string]any) error
	GetByUser(ctx context.Context, userID string) (*domain.Preference, error)
}

type preferenceRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewPreferenceRepo(db *mongo.Database, baseLog *logger.Logger) PreferenceRepo {
	return &preferenceRepo{coll: db.Collection("user_preferences"), log: baseLog.With("repo", "PreferenceRepo")}
}

func (r *preferenceRepo) Upsert(ctx context.Context, userID string, values map[string]any) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{
			"user_id":    userID,
			"values":     values,
			"updated_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *preferenceRepo) GetByUser(ctx context.Context, userID string) (*domain.Preference, error) {
	var pref domain.Preference
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&pref)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}
