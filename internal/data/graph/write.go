package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/shopgraph-backend/internal/domain"
)

// Relationship kinds, as stored in the graph.
const (
	RelViewed    = "VIEWED"
	RelLikes     = "LIKES"
	RelInCart    = "IN_CART"
	RelPurchased = "PURCHASED"
)

// PurchaseEdge carries the attributes of a single PURCHASED relationship.
// PurchaseID keys the edge: retries with the same id converge on one edge,
// distinct ids produce distinct edges between the same pair.
type PurchaseEdge struct {
	PurchaseID string
	Quantity   int64
	Price      float64
	At         time.Time
}

func (s *Store) UpsertUserNode(ctx context.Context, userID, name, email string) error {
	if userID == "" {
		return fmt.Errorf("graph: missing user id")
	}
	return s.write(ctx, `
MERGE (u:User {user_id: $user_id})
SET u.name = $name,
    u.email = $email,
    u.synced_at = $synced_at
`, map[string]any{
		"user_id":   userID,
		"name":      name,
		"email":     email,
		"synced_at": nowString(),
	})
}

func (s *Store) SetUserProfile(ctx context.Context, userID, name, email string) error {
	if userID == "" {
		return fmt.Errorf("graph: missing user id")
	}
	return s.write(ctx, `
MATCH (u:User {user_id: $user_id})
SET u.name = $name,
    u.email = $email,
    u.synced_at = $synced_at
`, map[string]any{
		"user_id":   userID,
		"name":      name,
		"email":     email,
		"synced_at": nowString(),
	})
}

func (s *Store) UpsertProductNode(ctx context.Context, product *domain.Product) error {
	if product == nil || product.CatalogID < 0 {
		return fmt.Errorf("graph: missing product")
	}
	tags := product.Tags
	if tags == nil {
		tags = []string{}
	}
	return s.write(ctx, `
MERGE (p:Product {product_id: $product_id})
SET p.name = $name,
    p.category = $category,
    p.tags = $tags,
    p.price = $price,
    p.image = $image,
    p.synced_at = $synced_at
`, map[string]any{
		"product_id": product.GraphID(),
		"name":       product.Name,
		"category":   product.Category,
		"tags":       tags,
		"price":      product.Price,
		"image":      product.Image,
		"synced_at":  nowString(),
	})
}

// DeleteProductNode removes the product and every relationship touching it.
func (s *Store) DeleteProductNode(ctx context.Context, productID string) error {
	if productID == "" {
		return fmt.Errorf("graph: missing product id")
	}
	return s.write(ctx, `
MATCH (p:Product {product_id: $product_id})
DETACH DELETE p
`, map[string]any{"product_id": productID})
}

// Edge upserts anchor both endpoints with MATCH before MERGE: if either node
// is missing the statement matches nothing and the write is a silent no-op.
// That drops the interaction rather than leaving a dangling relationship when
// catalog data lags behind.

func (s *Store) UpsertViewed(ctx context.Context, userID, productID string, at time.Time) error {
	return s.upsertTimestampedEdge(ctx, `
MATCH (u:User {user_id: $user_id})
MATCH (p:Product {product_id: $product_id})
MERGE (u)-[r:VIEWED]->(p)
SET r.viewed_at = $at
`, userID, productID, at)
}

func (s *Store) UpsertLikes(ctx context.Context, userID, productID string, at time.Time) error {
	return s.upsertTimestampedEdge(ctx, `
MATCH (u:User {user_id: $user_id})
MATCH (p:Product {product_id: $product_id})
MERGE (u)-[r:LIKES]->(p)
SET r.liked_at = $at
`, userID, productID, at)
}

func (s *Store) UpsertInCart(ctx context.Context, userID, productID string, at time.Time) error {
	return s.upsertTimestampedEdge(ctx, `
MATCH (u:User {user_id: $user_id})
MATCH (p:Product {product_id: $product_id})
MERGE (u)-[r:IN_CART]->(p)
SET r.added_at = $at
`, userID, productID, at)
}

func (s *Store) upsertTimestampedEdge(ctx context.Context, cypher, userID, productID string, at time.Time) error {
	if userID == "" || productID == "" {
		return fmt.Errorf("graph: missing edge endpoint ids")
	}
	return s.write(ctx, cypher, map[string]any{
		"user_id":    userID,
		"product_id": productID,
		"at":         timeString(at),
	})
}

func (s *Store) UpsertPurchased(ctx context.Context, userID, productID string, edge PurchaseEdge) error {
	if userID == "" || productID == "" {
		return fmt.Errorf("graph: missing edge endpoint ids")
	}
	if edge.PurchaseID == "" {
		return fmt.Errorf("graph: missing purchase id")
	}
	quantity := edge.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	return s.write(ctx, `
MATCH (u:User {user_id: $user_id})
MATCH (p:Product {product_id: $product_id})
MERGE (u)-[r:PURCHASED {purchase_id: $purchase_id}]->(p)
SET r.quantity = $quantity,
    r.price = $price,
    r.purchased_at = $at
`, map[string]any{
		"user_id":     userID,
		"product_id":  productID,
		"purchase_id": edge.PurchaseID,
		"quantity":    quantity,
		"price":       edge.Price,
		"at":          timeString(edge.At),
	})
}

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func timeString(t time.Time) string {
	if t.IsZero() {
		return nowString()
	}
	return t.UTC().Format(time.RFC3339Nano)
}
