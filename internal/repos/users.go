package repos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yungbote/shopgraph-backend/internal/domain"
	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, set bson.M) error
}

type userRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewUserRepo(db *mongo.Database, baseLog *logger.Logger) UserRepo {
	return &userRepo{coll: db.Collection("users"), log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) (string, error) {
	now := time.Now().UTC()
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return "", err
	}
	return user.UserID, nil
}

func (r *userRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.TrimSpace(strings.ToLower(email))})
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, userID string, set bson.M) error {
	if len(set) == 0 {
		return nil
	}
	set["updated_at"] = time.Now().UTC()
	_, err := r.coll.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": set})
	return err
}
