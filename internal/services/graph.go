package services

import (
	"context"
	"time"

	"github.com/yungbote/shopgraph-backend/internal/data/graph"
	"github.com/yungbote/shopgraph-backend/internal/domain"
)

// GraphWriter is the write side of the graph store as the tracker, catalog,
// identity, and reconciler services consume it. *graph.Store satisfies it.
type GraphWriter interface {
	UpsertUserNode(ctx context.Context, userID, name, email string) error
	SetUserProfile(ctx context.Context, userID, name, email string) error
	UpsertProductNode(ctx context.Context, product *domain.Product) error
	DeleteProductNode(ctx context.Context, productID string) error
	UpsertViewed(ctx context.Context, userID, productID string, at time.Time) error
	UpsertLikes(ctx context.Context, userID, productID string, at time.Time) error
	UpsertInCart(ctx context.Context, userID, productID string, at time.Time) error
	UpsertPurchased(ctx context.Context, userID, productID string, edge graph.PurchaseEdge) error
}

// GraphReader is the read side as the recommendation engine consumes it.
type GraphReader interface {
	UserRecommendations(ctx context.Context, userID string, limit int) ([]domain.RecommendedProduct, error)
	SimilarProducts(ctx context.Context, productID string, limit int) ([]domain.SimilarProduct, error)
	FrequentlyBoughtTogether(ctx context.Context, productID string, limit int) ([]domain.BoughtTogetherProduct, error)
	ContentSimilar(ctx context.Context, productID string, limit int) ([]domain.ContentMatch, error)
}
