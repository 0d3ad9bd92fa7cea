package app

import (
	"context"
	"fmt"

	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
	"github.com/yungbote/shopgraph-backend/internal/platform/mongodb"
	"github.com/yungbote/shopgraph-backend/internal/platform/neo4jdb"
	"github.com/yungbote/shopgraph-backend/internal/platform/redisdb"
)

type Clients struct {
	Mongo *mongodb.Client
	Neo4j *neo4jdb.Client
	Redis *redisdb.Client
}

// wireClients connects the document store (required), the graph store
// (optional: connection failure degrades to an inert graph, the engine keeps
// serving empty lists), and the result cache (optional).
func wireClients(ctx context.Context, cfg Config, log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	mongoClient, err := mongodb.New(ctx, mongodb.Config{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	}, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init mongodb: %w", err)
	}

	neo4jClient, err := neo4jdb.New(neo4jdb.Config{
		URI:         cfg.Neo4jURI,
		Username:    cfg.Neo4jUser,
		Password:    cfg.Neo4jPassword,
		Database:    cfg.Neo4jDatabase,
		Timeout:     cfg.Neo4jTimeout(),
		MaxPoolSize: cfg.Neo4jMaxPoolSize,
	}, log)
	if err != nil {
		log.Warn("neo4j unavailable, recommendation graph disabled", "error", err)
		neo4jClient = nil
	} else if neo4jClient == nil {
		log.Info("no NEO4J_URI configured, recommendation graph disabled")
	}

	redisClient, err := redisdb.New(ctx, redisdb.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, log)
	if err != nil {
		log.Warn("redis unavailable, recommendation cache disabled", "error", err)
		redisClient = nil
	}

	return Clients{Mongo: mongoClient, Neo4j: neo4jClient, Redis: redisClient}, nil
}

func (c *Clients) Close(ctx context.Context) {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Neo4j != nil {
		_ = c.Neo4j.Close(ctx)
	}
	if c.Mongo != nil {
		_ = c.Mongo.Close(ctx)
	}
}
