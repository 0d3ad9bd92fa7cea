package graph

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/yungbote/shopgraph-backend/internal/domain"
	"github.com/yungbote/shopgraph-backend/internal/platform/neo4jdb"
)

// Integration tests against a live Neo4j. Guarded by NEO4J_URI; each test
// seeds its own nodes under fresh ids and deletes them on cleanup, so runs
// are safe against a shared database.

type graphHarness struct {
	store  *Store
	users  []string
	base   int64
	nextID int64
}

func newGraphHarness(t *testing.T) *graphHarness {
	t.Helper()
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set, skipping graph integration test")
	}

	log := testLogger(t)
	client, err := neo4jdb.New(neo4jdb.Config{
		URI:      uri,
		Username: os.Getenv("NEO4J_USER"),
		Password: os.Getenv("NEO4J_PASSWORD"),
		Database: os.Getenv("NEO4J_DATABASE"),
	}, log)
	if err != nil {
		t.Fatalf("connect neo4j: %v", err)
	}

	store := NewStore(client, log)
	store.EnsureSchema(context.Background())

	h := &graphHarness{store: store, base: time.Now().UnixNano()}
	t.Cleanup(func() {
		ctx := context.Background()
		if len(h.users) > 0 {
			_ = store.write(ctx, `
MATCH (u:User) WHERE u.user_id IN $ids DETACH DELETE u
`, map[string]any{"ids": h.users})
		}
		_ = store.write(ctx, `
MATCH (p:Product) WHERE toInteger(p.product_id) >= $lo AND toInteger(p.product_id) <= $hi
DETACH DELETE p
`, map[string]any{"lo": h.base, "hi": h.base + h.nextID})
		_ = client.Close(ctx)
	})
	return h
}

func (h *graphHarness) user(t *testing.T, name string) string {
	t.Helper()
	id := fmt.Sprintf("it-user-%d-%s", h.base, name)
	if err := h.store.UpsertUserNode(context.Background(), id, name, name+"@example.com"); err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	h.users = append(h.users, id)
	return id
}

func (h *graphHarness) product(t *testing.T, name, category string, tags []string, price float64) string {
	t.Helper()
	h.nextID++
	catalogID := h.base + h.nextID
	err := h.store.UpsertProductNode(context.Background(), &domain.Product{
		CatalogID: catalogID,
		Name:      name,
		Category:  category,
		Tags:      tags,
		Price:     price,
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return strconv.FormatInt(catalogID, 10)
}

func TestIntegrationViewedRecommendations(t *testing.T) {
	h := newGraphHarness(t)
	ctx := context.Background()
	now := time.Now()

	p1 := h.product(t, "Keyboard", "peripherals", nil, 25)
	p2 := h.product(t, "Mouse", "peripherals", nil, 10)
	p3 := h.product(t, "Monitor", "displays", nil, 120)
	u1 := h.user(t, "ada")
	u2 := h.user(t, "grace")

	for _, edge := range []struct {
		user, product string
	}{
		{u1, p1},
		{u2, p1}, {u2, p2}, {u2, p3},
	} {
		if err := h.store.UpsertViewed(ctx, edge.user, edge.product, now); err != nil {
			t.Fatalf("UpsertViewed(%s,%s): %v", edge.user, edge.product, err)
		}
	}
	// A repeat view converges on the same edge instead of duplicating it, and
	// the later call's timestamp overwrites the stored one.
	later := now.Add(time.Minute)
	if err := h.store.UpsertViewed(ctx, u2, p2, later); err != nil {
		t.Fatalf("repeat UpsertViewed: %v", err)
	}
	records, err := h.store.read(ctx, `
MATCH (u:User {user_id: $user_id})-[r:VIEWED]->(p:Product {product_id: $product_id})
RETURN r.viewed_at AS viewed_at
`, map[string]any{"user_id": u2, "product_id": p2})
	if err != nil {
		t.Fatalf("read viewed edge: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("viewed edges between %s and %s: want=1 got=%d", u2, p2, len(records))
	}
	if got := recordString(records[0], "viewed_at"); got != timeString(later) {
		t.Fatalf("repeat view timestamp: want=%s got=%s", timeString(later), got)
	}

	similar, err := h.store.SimilarProducts(ctx, p1, 5)
	if err != nil {
		t.Fatalf("SimilarProducts: %v", err)
	}
	if len(similar) != 2 {
		t.Fatalf("similar to %s: want=2 got=%+v", p1, similar)
	}
	// Equal scores fall back to ascending product id: p2 was created before p3.
	if similar[0].ProductID != p2 || similar[1].ProductID != p3 {
		t.Fatalf("tie break order: %+v", similar)
	}
	for _, row := range similar {
		if row.CommonUsers != 1 {
			t.Fatalf("repeat views must not inflate the score: %+v", row)
		}
	}

	recs, err := h.store.UserRecommendations(ctx, u1, 5)
	if err != nil {
		t.Fatalf("UserRecommendations: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("recommendations for %s: want=2 got=%+v", u1, recs)
	}
	for _, row := range recs {
		if row.ProductID == p1 {
			t.Fatalf("anchor-viewed product must be excluded: %+v", recs)
		}
	}

	// Once the user has viewed a recommended product it disappears.
	if err := h.store.UpsertViewed(ctx, u1, p2, now); err != nil {
		t.Fatalf("UpsertViewed: %v", err)
	}
	recs, err = h.store.UserRecommendations(ctx, u1, 5)
	if err != nil {
		t.Fatalf("UserRecommendations: %v", err)
	}
	for _, row := range recs {
		if row.ProductID == p2 {
			t.Fatalf("already-viewed product must be excluded: %+v", recs)
		}
	}
}

func TestIntegrationRankingByScore(t *testing.T) {
	h := newGraphHarness(t)
	ctx := context.Background()
	now := time.Now()

	p1 := h.product(t, "Laptop", "computers", nil, 900)
	p2 := h.product(t, "Sleeve", "computers", nil, 30)
	p3 := h.product(t, "Dock", "computers", nil, 150)
	u1 := h.user(t, "ada")
	u2 := h.user(t, "grace")
	u3 := h.user(t, "linus")

	// All three view the anchor; two of them also view p3, one views p2. The
	// higher-scored product carries the larger id, so an ordering that leaned
	// on the id tie-break instead of the score would come out reversed.
	for _, edge := range []struct {
		user, product string
	}{
		{u1, p1}, {u2, p1}, {u3, p1},
		{u1, p3}, {u2, p3},
		{u3, p2},
	} {
		if err := h.store.UpsertViewed(ctx, edge.user, edge.product, now); err != nil {
			t.Fatalf("UpsertViewed(%s,%s): %v", edge.user, edge.product, err)
		}
	}

	similar, err := h.store.SimilarProducts(ctx, p1, 5)
	if err != nil {
		t.Fatalf("SimilarProducts: %v", err)
	}
	if len(similar) != 2 {
		t.Fatalf("similar to %s: want=2 got=%+v", p1, similar)
	}
	if similar[0].ProductID != p3 || similar[0].CommonUsers != 2 {
		t.Fatalf("higher score must rank first: %+v", similar)
	}
	if similar[1].ProductID != p2 || similar[1].CommonUsers != 1 {
		t.Fatalf("lower score must rank second: %+v", similar)
	}
}

func TestIntegrationPurchasedSymmetry(t *testing.T) {
	h := newGraphHarness(t)
	ctx := context.Background()
	now := time.Now()

	q1 := h.product(t, "Camera", "photo", nil, 300)
	q2 := h.product(t, "Tripod", "photo", nil, 40)
	u1 := h.user(t, "linus")

	buy := func(product, purchaseID string) {
		t.Helper()
		err := h.store.UpsertPurchased(ctx, u1, product, PurchaseEdge{PurchaseID: purchaseID, Quantity: 1, At: now})
		if err != nil {
			t.Fatalf("UpsertPurchased(%s,%s): %v", product, purchaseID, err)
		}
	}
	buy(q1, "it-order-1")
	buy(q2, "it-order-2")

	forward, err := h.store.FrequentlyBoughtTogether(ctx, q1, 5)
	if err != nil {
		t.Fatalf("FrequentlyBoughtTogether(%s): %v", q1, err)
	}
	backward, err := h.store.FrequentlyBoughtTogether(ctx, q2, 5)
	if err != nil {
		t.Fatalf("FrequentlyBoughtTogether(%s): %v", q2, err)
	}
	if len(forward) != 1 || forward[0].ProductID != q2 || forward[0].Frequency != 1 {
		t.Fatalf("forward: %+v", forward)
	}
	if len(backward) != 1 || backward[0].ProductID != q1 || backward[0].Frequency != 1 {
		t.Fatalf("backward: %+v", backward)
	}
	if forward[0].Frequency != backward[0].Frequency {
		t.Fatalf("co-purchase count must be symmetric: %d vs %d", forward[0].Frequency, backward[0].Frequency)
	}

	// A retried purchase id converges on the same edge.
	buy(q2, "it-order-2")
	forward, err = h.store.FrequentlyBoughtTogether(ctx, q1, 5)
	if err != nil {
		t.Fatalf("FrequentlyBoughtTogether: %v", err)
	}
	if forward[0].Frequency != 1 {
		t.Fatalf("retry must not inflate frequency: %+v", forward)
	}

	// A distinct purchase id adds a second edge and a second co-purchase pair.
	buy(q2, "it-order-3")
	forward, err = h.store.FrequentlyBoughtTogether(ctx, q1, 5)
	if err != nil {
		t.Fatalf("FrequentlyBoughtTogether: %v", err)
	}
	if forward[0].Frequency != 2 {
		t.Fatalf("repeat purchase must count per purchase id: %+v", forward)
	}
}

func TestIntegrationContentSimilar(t *testing.T) {
	h := newGraphHarness(t)
	ctx := context.Background()

	p1 := h.product(t, "Studio Headphones", "audio", []string{"wireless", "over-ear", "anc"}, 200)
	p2 := h.product(t, "Travel Headphones", "audio", []string{"wireless", "anc"}, 120)
	p3 := h.product(t, "Wired Earbuds", "audio", []string{"wired"}, 20)
	p4 := h.product(t, "Action Camera", "video", []string{"wireless", "anc"}, 250)

	rows, err := h.store.ContentSimilar(ctx, p1, 5)
	if err != nil {
		t.Fatalf("ContentSimilar: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want only the same-category tag match, got %+v (p3=%s p4=%s)", rows, p3, p4)
	}
	if rows[0].ProductID != p2 || rows[0].SharedTags != 2 {
		t.Fatalf("match: %+v", rows[0])
	}
}

func TestIntegrationMissingEndpointsAndDelete(t *testing.T) {
	h := newGraphHarness(t)
	ctx := context.Background()
	now := time.Now()

	p1 := h.product(t, "Keyboard", "peripherals", nil, 25)
	p2 := h.product(t, "Mouse", "peripherals", nil, 10)
	u1 := h.user(t, "ada")
	u2 := h.user(t, "grace")

	// Edge writes against a missing node are silent no-ops.
	if err := h.store.UpsertViewed(ctx, "it-no-such-user", p1, now); err != nil {
		t.Fatalf("missing user: %v", err)
	}
	if err := h.store.UpsertViewed(ctx, u1, "0", now); err != nil {
		t.Fatalf("missing product: %v", err)
	}

	for _, u := range []string{u1, u2} {
		for _, p := range []string{p1, p2} {
			if err := h.store.UpsertViewed(ctx, u, p, now); err != nil {
				t.Fatalf("UpsertViewed: %v", err)
			}
		}
	}

	similar, err := h.store.SimilarProducts(ctx, p1, 5)
	if err != nil || len(similar) != 1 {
		t.Fatalf("before delete: rows=%+v err=%v", similar, err)
	}

	if err := h.store.DeleteProductNode(ctx, p2); err != nil {
		t.Fatalf("DeleteProductNode: %v", err)
	}
	similar, err = h.store.SimilarProducts(ctx, p1, 5)
	if err != nil {
		t.Fatalf("after delete: %v", err)
	}
	if len(similar) != 0 {
		t.Fatalf("deleted product must vanish from results: %+v", similar)
	}

	// Unknown anchors read back empty, not as errors.
	empty, err := h.store.SimilarProducts(ctx, "0", 5)
	if err != nil || len(empty) != 0 {
		t.Fatalf("unknown anchor: rows=%+v err=%v", empty, err)
	}
}
