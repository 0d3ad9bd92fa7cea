package repos

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/shopgraph-backend/internal/domain"
	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
)

type ProductRepo interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByCatalogID(ctx context.Context, catalogID int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Search(ctx context.Context, query string) ([]*domain.Product, error)
	Update(ctx context.Context, catalogID int64, set bson.M) error
	Delete(ctx context.Context, catalogID int64) error
}

type productRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewProductRepo(db *mongo.Database, baseLog *logger.Logger) ProductRepo {
	return &productRepo{coll: db.Collection("products"), log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, product)
	return err
}

func (r *productRepo) GetByCatalogID(ctx context.Context, catalogID int64) (*domain.Product, error) {
	var product domain.Product
	err := r.coll.FindOne(ctx, bson.M{"id": catalogID}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) List(ctx context.Context) ([]*domain.Product, error) {
	return r.find(ctx, bson.M{})
}

// Search matches name or category, case-insensitively, the way the storefront
// search box does.
func (r *productRepo) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return r.List(ctx)
	}
	pattern := primitiveRegex(q)
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"category": pattern},
	}})
}

func primitiveRegex(q string) bson.M {
	return bson.M{"$regex": regexQuoteMeta(q), "$options": "i"}
}

func regexQuoteMeta(s string) string {
	special := `\.+*?()|[]{}^$`
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (r *productRepo) find(ctx context.Context, filter bson.M) ([]*domain.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*domain.Product
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *productRepo) Update(ctx context.Context, catalogID int64, set bson.M) error {
	if len(set) == 0 {
		return nil
	}
	set["updated_at"] = time.Now().UTC()
	_, err := r.coll.UpdateOne(ctx, bson.M{"id": catalogID}, bson.M{"$set": set})
	return err
}

func (r *productRepo) Delete(ctx context.Context, catalogID int64) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"id": catalogID})
	return err
}
