package app

import (
	"github.com/yungbote/shopgraph-backend/internal/data/graph"
	"github.com/yungbote/shopgraph-backend/internal/observability"
	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
	"github.com/yungbote/shopgraph-backend/internal/services"
)

type Services struct {
	Graph           *graph.Store
	Tracker         services.ActivityTracker
	Recommendations services.RecommendationService
	Catalog         services.CatalogService
	Identity        services.IdentityService
	Reconciler      services.Reconciler
}

func wireServices(cfg Config, log *logger.Logger, clients Clients, reposet Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	graphStore := graph.NewStore(clients.Neo4j, log)

	var cache services.ResultCache
	if clients.Redis != nil {
		cache = clients.Redis
	}

	return Services{
		Graph: graphStore,
		Tracker: services.NewActivityTracker(
			reposet.Views,
			reposet.Interactions,
			reposet.Purchases,
			reposet.Products,
			reposet.Preferences,
			reposet.Orders,
			graphStore,
			metrics,
			log,
		),
		Recommendations: services.NewRecommendationService(graphStore, cache, cfg.RecCacheTTL(), metrics, log),
		Catalog:         services.NewCatalogService(reposet.Products, graphStore, metrics, log),
		Identity:        services.NewIdentityService(reposet.Users, reposet.Preferences, graphStore, metrics, log),
		Reconciler: services.NewReconciler(
			reposet.Views,
			reposet.Interactions,
			reposet.Purchases,
			graphStore,
			cfg.BackfillParallelism,
			metrics,
			log,
		),
	}
}
