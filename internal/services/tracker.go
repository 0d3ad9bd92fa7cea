package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/shopgraph-backend/internal/data/graph"
	"github.com/yungbote/shopgraph-backend/internal/domain"
	"github.com/yungbote/shopgraph-backend/internal/observability"
	"github.com/yungbote/shopgraph-backend/internal/platform/apperr"
	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
	"github.com/yungbote/shopgraph-backend/internal/repos"
)

// ActivityTracker fans one application event out to both stores: the raw
// record lands in the document store first and its failure propagates; the
// derived graph edge is written best-effort afterwards. A failed graph write
// is logged and counted, never returned — recommendation data is allowed to
// go momentarily stale.
type ActivityTracker interface {
	TrackView(ctx context.Context, userID, productID string, extra map[string]any) error
	TrackLike(ctx context.Context, userID, productID string, extra map[string]any) error
	TrackAddToCart(ctx context.Context, userID, productID string, extra map[string]any) error
	TrackPurchase(ctx context.Context, userID, productID string, in PurchaseInput) (*domain.Purchase, error)
	Checkout(ctx context.Context, userID string, items []CheckoutItem) (*domain.Order, error)
	UserActivity(ctx context.Context, userID string) (*UserActivity, error)
}

// CheckoutItem is one cart line at checkout time.
type CheckoutItem struct {
	ProductID string
	Quantity  int64
}

// PurchaseInput carries caller-supplied purchase details. Zero/nil fields are
// resolved from the current catalog snapshot; PurchaseID left empty gets a
// fresh uuid (callers wanting retry-safe purchase writes must supply their
// own stable id).
type PurchaseInput struct {
	PurchaseID   string
	ProductName  string
	Quantity     int64
	Price        *float64
	TotalAmount  *float64
	PurchaseDate time.Time
}

type UserActivity struct {
	Purchases   []*domain.Purchase    `json:"purchases"`
	Views       []*domain.ProductView `json:"views"`
	Orders      []*domain.Order       `json:"orders"`
	Preferences *domain.Preference    `json:"preferences"`
}

type activityTracker struct {
	views        repos.ViewRepo
	interactions repos.InteractionRepo
	purchases    repos.PurchaseRepo
	products     repos.ProductRepo
	preferences  repos.PreferenceRepo
	orders       repos.OrderRepo
	graph        GraphWriter
	metrics      *observability.Metrics
	log          *logger.Logger
}

func NewActivityTracker(
	views repos.ViewRepo,
	interactions repos.InteractionRepo,
	purchases repos.PurchaseRepo,
	products repos.ProductRepo,
	preferences repos.PreferenceRepo,
	orders repos.OrderRepo,
	graphStore GraphWriter,
	metrics *observability.Metrics,
	baseLog *logger.Logger,
) ActivityTracker {
	return &activityTracker{
		views:        views,
		interactions: interactions,
		purchases:    purchases,
		products:     products,
		preferences:  preferences,
		orders:       orders,
		graph:        graphStore,
		metrics:      metrics,
		log:          baseLog.With("service", "ActivityTracker"),
	}
}

func (t *activityTracker) TrackView(ctx context.Context, userID, productID string, extra map[string]any) error {
	userID, pid, err := t.validate(userID, productID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	view := &domain.ProductView{
		ViewID:    uuid.NewString(),
		UserID:    userID,
		ProductID: pid,
		ViewedAt:  now,
		Extra:     extra,
	}
	if err := t.views.Append(ctx, view); err != nil {
		return err
	}

	t.bestEffortEdge(graph.RelViewed, userID, pid, func() error {
		return t.graph.UpsertViewed(ctx, userID, pid, now)
	})
	return nil
}

func (t *activityTracker) TrackLike(ctx context.Context, userID, productID string, extra map[string]any) error {
	return t.trackInteraction(ctx, userID, productID, domain.InteractionLike, graph.RelLikes, extra,
		func(ctx context.Context, uid, pid string, at time.Time) error {
			return t.graph.UpsertLikes(ctx, uid, pid, at)
		})
}

func (t *activityTracker) TrackAddToCart(ctx context.Context, userID, productID string, extra map[string]any) error {
	return t.trackInteraction(ctx, userID, productID, domain.InteractionAddToCart, graph.RelInCart, extra,
		func(ctx context.Context, uid, pid string, at time.Time) error {
			return t.graph.UpsertInCart(ctx, uid, pid, at)
		})
}

func (t *activityTracker) trackInteraction(
	ctx context.Context,
	userID, productID, interactionType, relKind string,
	extra map[string]any,
	upsert func(ctx context.Context, userID, productID string, at time.Time) error,
) error {
	userID, pid, err := t.validate(userID, productID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	interaction := &domain.Interaction{
		InteractionID:   uuid.NewString(),
		UserID:          userID,
		ProductID:       pid,
		InteractionType: interactionType,
		InteractedAt:    now,
		Extra:           extra,
	}
	if err := t.interactions.Append(ctx, interaction); err != nil {
		return err
	}

	t.bestEffortEdge(relKind, userID, pid, func() error {
		return upsert(ctx, userID, pid, now)
	})
	return nil
}

func (t *activityTracker) TrackPurchase(ctx context.Context, userID, productID string, in PurchaseInput) (*domain.Purchase, error) {
	userID, pid, err := t.validate(userID, productID)
	if err != nil {
		return nil, err
	}

	// Catalog snapshot fills in whatever the caller left out.
	catalogID, _ := domain.ProductCatalogID(pid)
	product, err := t.products.GetByCatalogID(ctx, catalogID)
	if err != nil {
		return nil, err
	}

	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	name := in.ProductName
	if name == "" {
		if product != nil {
			name = product.Name
		} else {
			name = "-"
		}
	}
	var price float64
	if in.Price != nil {
		price = *in.Price
	} else if product != nil {
		price = product.Price
	}
	var total float64
	if in.TotalAmount != nil {
		total = *in.TotalAmount
	} else {
		total = price * float64(quantity)
	}
	purchaseID := in.PurchaseID
	if purchaseID == "" {
		purchaseID = uuid.NewString()
	}
	purchasedAt := in.PurchaseDate
	if purchasedAt.IsZero() {
		purchasedAt = time.Now().UTC()
	}

	purchase := &domain.Purchase{
		PurchaseID:   purchaseID,
		UserID:       userID,
		ProductID:    pid,
		ProductName:  name,
		Quantity:     quantity,
		Price:        price,
		TotalAmount:  total,
		PurchaseDate: purchasedAt,
	}
	if err := t.purchases.Append(ctx, purchase); err != nil {
		return nil, err
	}

	t.bestEffortEdge(graph.RelPurchased, userID, pid, func() error {
		return t.graph.UpsertPurchased(ctx, userID, pid, graph.PurchaseEdge{
			PurchaseID: purchaseID,
			Quantity:   quantity,
			Price:      price,
			At:         purchasedAt,
		})
	})
	return purchase, nil
}

// Checkout turns a cart into one order document plus one purchase record (and
// PURCHASED edge) per line. Purchase ids are derived from the order id, so a
// replayed checkout converges on the same purchases instead of duplicating.
func (t *activityTracker) Checkout(ctx context.Context, userID string, items []CheckoutItem) (*domain.Order, error) {
	if userID == "" {
		return nil, apperr.Invalid("user id is required")
	}
	if len(items) == 0 {
		return nil, apperr.Invalid("checkout requires at least one item")
	}

	order := &domain.Order{UserID: userID}
	for _, item := range items {
		pid, err := domain.NormalizeProductID(item.ProductID)
		if err != nil {
			return nil, apperr.Invalid("%v", err)
		}
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		catalogID, _ := domain.ProductCatalogID(pid)
		product, err := t.products.GetByCatalogID(ctx, catalogID)
		if err != nil {
			return nil, err
		}
		name := "-"
		var price float64
		if product != nil {
			name = product.Name
			price = product.Price
		}

		order.Items = append(order.Items, domain.OrderItem{
			ProductID: pid,
			Name:      name,
			Quantity:  quantity,
			Price:     price,
		})
		order.TotalAmount += price * float64(quantity)
	}

	orderID, err := t.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	for i, item := range order.Items {
		price := item.Price
		if _, err := t.TrackPurchase(ctx, userID, item.ProductID, PurchaseInput{
			PurchaseID:  fmt.Sprintf("%s-%d", orderID, i),
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Price:       &price,
		}); err != nil {
			return nil, err
		}
	}

	if err := t.orders.UpdateStatus(ctx, orderID, repos.OrderStatusCompleted); err != nil {
		return nil, err
	}
	order.Status = repos.OrderStatusCompleted
	return order, nil
}

func (t *activityTracker) UserActivity(ctx context.Context, userID string) (*UserActivity, error) {
	if userID == "" {
		return nil, apperr.Invalid("user id is required")
	}

	purchases, err := t.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views, err := t.views.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	orders, err := t.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs, err := t.preferences.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserActivity{Purchases: purchases, Views: views, Orders: orders, Preferences: prefs}, nil
}

func (t *activityTracker) validate(userID, productID string) (string, string, error) {
	if userID == "" {
		return "", "", apperr.Invalid("user id is required")
	}
	pid, err := domain.NormalizeProductID(productID)
	if err != nil {
		return "", "", apperr.Invalid("%v", err)
	}
	return userID, pid, nil
}

func (t *activityTracker) bestEffortEdge(kind, userID, productID string, write func() error) {
	t.metrics.GraphWriteAttempted.WithLabel(kind).Inc()
	if err := write(); err != nil {
		t.metrics.GraphWriteFailed.WithLabel(kind).Inc()
		t.log.Warn("graph edge upsert failed",
			"kind", kind,
			"user_id", userID,
			"product_id", productID,
			"error", err,
		)
	}
}
