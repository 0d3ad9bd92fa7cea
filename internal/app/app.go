package app

import (
	"context"
	"fmt"

	"github.com/yungbote/shopgraph-backend/internal/observability"
	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
)

// App is the composition root: every client, repo, and service is constructed
// once here and injected downward, and Close tears the clients down in
// reverse order. No package-level singletons.
type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
}

func New(ctx context.Context) (*App, error) {
	bootstrapLog, err := logger.New("development")
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := LoadConfig(bootstrapLog)
	if err != nil {
		bootstrapLog.Sync()
		return nil, err
	}

	log := bootstrapLog
	if cfg.LogMode != "development" {
		bootstrapLog.Sync()
		log, err = logger.New(cfg.LogMode)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	clients, err := wireClients(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	metrics := observability.NewMetrics()
	reposet := wireRepos(clients.Mongo.Database(), log)
	serviceset := wireServices(cfg, log, clients, reposet, metrics)

	serviceset.Graph.EnsureSchema(ctx)

	return &App{
		Log:      log,
		Cfg:      cfg,
		Clients:  clients,
		Repos:    reposet,
		Services: serviceset,
		Metrics:  metrics,
	}, nil
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	a.Clients.Close(ctx)
	if a.Log != nil {
		a.Log.Sync()
	}
}
