package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
)

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type Client struct {
	client *mongo.Client
	db     *mongo.Database
	log    *logger.Logger
}

func New(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("mongodb: logger required")
	}

	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, fmt.Errorf("mongodb: URI required")
	}
	database := strings.TrimSpace(cfg.Database)
	if database == "" {
		return nil, fmt.Errorf("mongodb: database name required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if ctx == nil {
		ctx = context.Background()
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	return &Client{
		client: client,
		db:     client.Database(database),
		log:    log.With("client", "MongoDB"),
	}, nil
}

func (c *Client) Database() *mongo.Database {
	if c == nil {
		return nil
	}
	return c.db
}

func (c *Client) Collection(name string) *mongo.Collection {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Collection(name)
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	c.db = nil
	return err
}
