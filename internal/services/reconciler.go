package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/shopgraph-backend/internal/data/graph"
	"github.com/yungbote/shopgraph-backend/internal/domain"
	"github.com/yungbote/shopgraph-backend/internal/observability"
	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
)

// ViewSource / InteractionSource / PurchaseSource are the slices of the
// document store the reconciler replays. The repos satisfy them.
type ViewSource interface {
	Scan(ctx context.Context, fn func(domain.ProductView) error) error
}

type InteractionSource interface {
	Scan(ctx context.Context, fn func(domain.Interaction) error) error
}

type PurchaseSource interface {
	Scan(ctx context.Context, fn func(domain.Purchase) error) error
}

// Reconciler closes the accepted consistency gap between the raw interaction
// log and the graph on demand: it replays every raw record as an edge upsert.
// Replays are idempotent by construction (MERGE-keyed edges), so running it
// concurrently with live traffic converges rather than duplicating. Between
// runs the gap remains accepted behavior.
type Reconciler interface {
	Backfill(ctx context.Context) error
}

type reconciler struct {
	views        ViewSource
	interactions InteractionSource
	purchases    PurchaseSource
	graph        GraphWriter
	parallelism  int
	metrics      *observability.Metrics
	log          *logger.Logger
}

func NewReconciler(
	views ViewSource,
	interactions InteractionSource,
	purchases PurchaseSource,
	graphStore GraphWriter,
	parallelism int,
	metrics *observability.Metrics,
	baseLog *logger.Logger,
) Reconciler {
	if parallelism <= 0 {
		parallelism = 4
	}
	return &reconciler{
		views:        views,
		interactions: interactions,
		purchases:    purchases,
		graph:        graphStore,
		parallelism:  parallelism,
		metrics:      metrics,
		log:          baseLog.With("service", "Reconciler"),
	}
}

// Backfill streams the three collections concurrently. Scan errors abort the
// run; individual edge-write failures are counted and logged so one broken
// record cannot wedge the whole replay.
func (r *reconciler) Backfill(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	g.Go(func() error {
		return r.views.Scan(ctx, func(view domain.ProductView) error {
			r.replay(graph.RelViewed, func() error {
				return r.graph.UpsertViewed(ctx, view.UserID, view.ProductID, view.ViewedAt)
			})
			return ctx.Err()
		})
	})

	g.Go(func() error {
		return r.interactions.Scan(ctx, func(interaction domain.Interaction) error {
			switch interaction.InteractionType {
			case domain.InteractionLike:
				r.replay(graph.RelLikes, func() error {
					return r.graph.UpsertLikes(ctx, interaction.UserID, interaction.ProductID, interaction.InteractedAt)
				})
			case domain.InteractionAddToCart:
				r.replay(graph.RelInCart, func() error {
					return r.graph.UpsertInCart(ctx, interaction.UserID, interaction.ProductID, interaction.InteractedAt)
				})
			default:
				r.log.Debug("skipping unknown interaction type", "type", interaction.InteractionType)
			}
			return ctx.Err()
		})
	})

	g.Go(func() error {
		return r.purchases.Scan(ctx, func(purchase domain.Purchase) error {
			r.replay(graph.RelPurchased, func() error {
				return r.graph.UpsertPurchased(ctx, purchase.UserID, purchase.ProductID, graph.PurchaseEdge{
					PurchaseID: purchase.PurchaseID,
					Quantity:   purchase.Quantity,
					Price:      purchase.Price,
					At:         purchase.PurchaseDate,
				})
			})
			return ctx.Err()
		})
	})

	start := time.Now()
	err := g.Wait()
	r.log.Info("graph backfill finished", "elapsed", time.Since(start).String(), "error", err)
	return err
}

func (r *reconciler) replay(kind string, write func() error) {
	if err := write(); err != nil {
		r.metrics.ReconcilerFailed.WithLabel(kind).Inc()
		r.log.Warn("backfill edge upsert failed", "kind", kind, "error", err)
		return
	}
	r.metrics.ReconcilerReplayed.WithLabel(kind).Inc()
}
