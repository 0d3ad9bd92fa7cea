package graph

import (
	"context"

	"github.com/yungbote/shopgraph-backend/internal/domain"
)

// DefaultLimit is the result-list size when the caller passes limit <= 0.
const DefaultLimit = 5

// The four ranked queries are pure reads. All of them exclude the anchor,
// order by score descending with product_id ascending as the tie break, and
// return an empty slice when the anchor has no matching edges or the graph is
// disabled.

// UserRecommendations is two-hop collaborative filtering: products co-viewed
// by users who viewed any of the anchor user's viewed products, ranked by the
// number of distinct co-viewing users, minus everything the anchor user has
// already viewed.
func (s *Store) UserRecommendations(ctx context.Context, userID string, limit int) ([]domain.RecommendedProduct, error) {
	records, err := s.read(ctx, `
MATCH (u:User {user_id: $user_id})-[:VIEWED]->(p1:Product)
MATCH (p1)<-[:VIEWED]-(other:User)
MATCH (other)-[:VIEWED]->(p2:Product)
WHERE p2 <> p1 AND other <> u AND NOT (u)-[:VIEWED]->(p2)
RETURN p2.product_id AS product_id,
       p2.name AS product_name,
       count(DISTINCT other) AS view_count
ORDER BY view_count DESC, product_id ASC
LIMIT $limit
`, map[string]any{"user_id": userID, "limit": clampLimit(limit)})
	if err != nil {
		return nil, err
	}

	out := make([]domain.RecommendedProduct, 0, len(records))
	for _, record := range records {
		out = append(out, domain.RecommendedProduct{
			ProductID:   recordString(record, "product_id"),
			ProductName: recordString(record, "product_name"),
			ViewCount:   recordInt(record, "view_count"),
		})
	}
	return out, nil
}

// SimilarProducts ranks products by how many distinct users viewed both them
// and the anchor.
func (s *Store) SimilarProducts(ctx context.Context, productID string, limit int) ([]domain.SimilarProduct, error) {
	records, err := s.read(ctx, `
MATCH (p1:Product {product_id: $product_id})<-[:VIEWED]-(u:User)-[:VIEWED]->(p2:Product)
WHERE p2 <> p1
RETURN p2.product_id AS product_id,
       p2.name AS product_name,
       count(DISTINCT u) AS common_users
ORDER BY common_users DESC, product_id ASC
LIMIT $limit
`, map[string]any{"product_id": productID, "limit": clampLimit(limit)})
	if err != nil {
		return nil, err
	}

	out := make([]domain.SimilarProduct, 0, len(records))
	for _, record := range records {
		out = append(out, domain.SimilarProduct{
			ProductID:   recordString(record, "product_id"),
			ProductName: recordString(record, "product_name"),
			CommonUsers: recordInt(record, "common_users"),
		})
	}
	return out, nil
}

// FrequentlyBoughtTogether counts co-purchases relative to the anchor, so the
// measure is symmetric: if B shows up for A with frequency F, A shows up for B
// with the same F. PURCHASED is multi-edge per purchase_id, so a repeat buyer
// contributes one count per purchase pair.
func (s *Store) FrequentlyBoughtTogether(ctx context.Context, productID string, limit int) ([]domain.BoughtTogetherProduct, error) {
	records, err := s.read(ctx, `
MATCH (p1:Product {product_id: $product_id})<-[:PURCHASED]-(u:User)-[:PURCHASED]->(p2:Product)
WHERE p2 <> p1
RETURN p2.product_id AS id,
       p2.name AS name,
       p2.image AS image,
       p2.price AS price,
       count(*) AS frequency
ORDER BY frequency DESC, id ASC
LIMIT $limit
`, map[string]any{"product_id": productID, "limit": clampLimit(limit)})
	if err != nil {
		return nil, err
	}

	out := make([]domain.BoughtTogetherProduct, 0, len(records))
	for _, record := range records {
		out = append(out, domain.BoughtTogetherProduct{
			ProductID: recordString(record, "id"),
			Name:      recordString(record, "name"),
			Image:     recordString(record, "image"),
			Price:     recordFloat(record, "price"),
			Frequency: recordInt(record, "frequency"),
		})
	}
	return out, nil
}

// ContentSimilar ranks same-category products by the size of the tag-set
// intersection with the anchor; products with no shared tags are dropped.
func (s *Store) ContentSimilar(ctx context.Context, productID string, limit int) ([]domain.ContentMatch, error) {
	records, err := s.read(ctx, `
MATCH (p1:Product {product_id: $product_id})
MATCH (p2:Product)
WHERE p1 <> p2 AND p1.category = p2.category
WITH p2, size([tag IN p1.tags WHERE tag IN p2.tags]) AS shared_tags
WHERE shared_tags > 0
RETURN p2.product_id AS id,
       p2.name AS name,
       p2.image AS image,
       p2.price AS price,
       shared_tags
ORDER BY shared_tags DESC, id ASC
LIMIT $limit
`, map[string]any{"product_id": productID, "limit": clampLimit(limit)})
	if err != nil {
		return nil, err
	}

	out := make([]domain.ContentMatch, 0, len(records))
	for _, record := range records {
		out = append(out, domain.ContentMatch{
			ProductID:  recordString(record, "id"),
			Name:       recordString(record, "name"),
			Image:      recordString(record, "image"),
			Price:      recordFloat(record, "price"),
			SharedTags: recordInt(record, "shared_tags"),
		})
	}
	return out, nil
}

func clampLimit(limit int) int64 {
	if limit <= 0 {
		return DefaultLimit
	}
	return int64(limit)
}
