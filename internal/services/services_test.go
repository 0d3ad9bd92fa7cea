package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/yungbote/shopgraph-backend/internal/data/graph"
	"github.com/yungbote/shopgraph-backend/internal/domain"
	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// fakeGraph records every write as "KIND:user:product" and serves canned rows
// on the read side. Setting writeErr/readErr makes the corresponding side fail.
type fakeGraph struct {
	mu       sync.Mutex
	calls    []string
	writeErr error

	readErr  error
	reads    int
	recs     []domain.RecommendedProduct
	similar  []domain.SimilarProduct
	together []domain.BoughtTogetherProduct
	content  []domain.ContentMatch
}

func (g *fakeGraph) record(call string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.writeErr != nil {
		return g.writeErr
	}
	g.calls = append(g.calls, call)
	return nil
}

func (g *fakeGraph) callCount(prefix string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (g *fakeGraph) UpsertUserNode(_ context.Context, userID, name, email string) error {
	return g.record("user:" + userID)
}

func (g *fakeGraph) SetUserProfile(_ context.Context, userID, name, email string) error {
	return g.record("profile:" + userID + ":" + name + ":" + email)
}

func (g *fakeGraph) UpsertProductNode(_ context.Context, product *domain.Product) error {
	return g.record(fmt.Sprintf("product:%s:%s:%.2f", product.GraphID(), product.Name, product.Price))
}

func (g *fakeGraph) DeleteProductNode(_ context.Context, productID string) error {
	return g.record("delete_product:" + productID)
}

func (g *fakeGraph) UpsertViewed(_ context.Context, userID, productID string, _ time.Time) error {
	return g.record(graph.RelViewed + ":" + userID + ":" + productID)
}

func (g *fakeGraph) UpsertLikes(_ context.Context, userID, productID string, _ time.Time) error {
	return g.record(graph.RelLikes + ":" + userID + ":" + productID)
}

func (g *fakeGraph) UpsertInCart(_ context.Context, userID, productID string, _ time.Time) error {
	return g.record(graph.RelInCart + ":" + userID + ":" + productID)
}

func (g *fakeGraph) UpsertPurchased(_ context.Context, userID, productID string, edge graph.PurchaseEdge) error {
	return g.record(fmt.Sprintf("%s:%s:%s:%s:%d", graph.RelPurchased, userID, productID, edge.PurchaseID, edge.Quantity))
}

func (g *fakeGraph) read() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reads++
	return g.readErr
}

func (g *fakeGraph) UserRecommendations(_ context.Context, _ string, _ int) ([]domain.RecommendedProduct, error) {
	if err := g.read(); err != nil {
		return nil, err
	}
	return g.recs, nil
}

func (g *fakeGraph) SimilarProducts(_ context.Context, _ string, _ int) ([]domain.SimilarProduct, error) {
	if err := g.read(); err != nil {
		return nil, err
	}
	return g.similar, nil
}

func (g *fakeGraph) FrequentlyBoughtTogether(_ context.Context, _ string, _ int) ([]domain.BoughtTogetherProduct, error) {
	if err := g.read(); err != nil {
		return nil, err
	}
	return g.together, nil
}

func (g *fakeGraph) ContentSimilar(_ context.Context, _ string, _ int) ([]domain.ContentMatch, error) {
	if err := g.read(); err != nil {
		return nil, err
	}
	return g.content, nil
}

type fakeViewRepo struct {
	appended  []*domain.ProductView
	appendErr error
	scanRows  []domain.ProductView
	scanErr   error
}

func (r *fakeViewRepo) Append(_ context.Context, view *domain.ProductView) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.appended = append(r.appended, view)
	return nil
}

func (r *fakeViewRepo) ListByUser(_ context.Context, userID string, _ int) ([]*domain.ProductView, error) {
	var out []*domain.ProductView
	for _, v := range r.appended {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeViewRepo) Scan(ctx context.Context, fn func(domain.ProductView) error) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	for _, row := range r.scanRows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

type fakeInteractionRepo struct {
	appended  []*domain.Interaction
	appendErr error
	scanRows  []domain.Interaction
}

func (r *fakeInteractionRepo) Append(_ context.Context, interaction *domain.Interaction) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.appended = append(r.appended, interaction)
	return nil
}

func (r *fakeInteractionRepo) ListByUser(_ context.Context, userID string) ([]*domain.Interaction, error) {
	var out []*domain.Interaction
	for _, i := range r.appended {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeInteractionRepo) Scan(ctx context.Context, fn func(domain.Interaction) error) error {
	for _, row := range r.scanRows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

type fakePurchaseRepo struct {
	appended  []*domain.Purchase
	appendErr error
	scanRows  []domain.Purchase
}

func (r *fakePurchaseRepo) Append(_ context.Context, purchase *domain.Purchase) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.appended = append(r.appended, purchase)
	return nil
}

func (r *fakePurchaseRepo) ListByUser(_ context.Context, userID string) ([]*domain.Purchase, error) {
	var out []*domain.Purchase
	for _, p := range r.appended {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePurchaseRepo) Scan(ctx context.Context, fn func(domain.Purchase) error) error {
	for _, row := range r.scanRows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

type fakeProductRepo struct {
	byID    map[int64]*domain.Product
	updates map[int64]bson.M
	deleted []int64
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{byID: map[int64]*domain.Product{}, updates: map[int64]bson.M{}}
	for _, p := range products {
		r.byID[p.CatalogID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.byID[product.CatalogID] = product
	return nil
}

func (r *fakeProductRepo) GetByCatalogID(_ context.Context, catalogID int64) (*domain.Product, error) {
	return r.byID[catalogID], nil
}

func (r *fakeProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Search(ctx context.Context, _ string) ([]*domain.Product, error) {
	return r.List(ctx)
}

func (r *fakeProductRepo) Update(_ context.Context, catalogID int64, set bson.M) error {
	r.updates[catalogID] = set
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, catalogID int64) error {
	delete(r.byID, catalogID)
	r.deleted = append(r.deleted, catalogID)
	return nil
}

type fakePreferenceRepo struct {
	byUser map[string]*domain.Preference
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{byUser: map[string]*domain.Preference{}}
}

func (r *fakePreferenceRepo) Upsert(_ context.Context, userID string, values map[string]any) error {
	r.byUser[userID] = &domain.Preference{UserID: userID, Values: values, UpdatedAt: time.Now().UTC()}
	return nil
}

func (r *fakePreferenceRepo) GetByUser(_ context.Context, userID string) (*domain.Preference, error) {
	return r.byUser[userID], nil
}

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	updates map[string]bson.M
	seq     int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*domain.User{}, byID: map[string]*domain.User{}, updates: map[string]bson.M{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (string, error) {
	r.seq++
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", r.seq)
	}
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}
	r.byEmail[user.Email] = user
	r.byID[user.UserID] = user
	return user.UserID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID string) (*domain.User, error) {
	return r.byID[userID], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) Update(_ context.Context, userID string, set bson.M) error {
	r.updates[userID] = set
	return nil
}

type fakeOrderRepo struct {
	created  []*domain.Order
	statuses map[string]string
	seq      int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{statuses: map[string]string{}}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) (string, error) {
	r.seq++
	if order.OrderID == "" {
		order.OrderID = fmt.Sprintf("order-%d", r.seq)
	}
	r.created = append(r.created, order)
	return order.OrderID, nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.created {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID, status string) error {
	r.statuses[orderID] = status
	return nil
}

type fakeCache struct {
	store map[string][]byte
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	raw, ok := c.store[key]
	return raw, ok
}

func (c *fakeCache) Set(_ context.Context, key string, val []byte, _ time.Duration) {
	c.store[key] = val
	c.sets++
}
