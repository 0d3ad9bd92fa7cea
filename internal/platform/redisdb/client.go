package redisdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

type Client struct {
	rdb *redis.Client
	log *logger.Logger
}

// New returns (nil, nil) when no address is configured; the result cache is
// optional and callers treat a nil client as "cache disabled".
func New(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("redisdb: logger required")
	}

	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redisdb: ping: %w", err)
	}

	return &Client{rdb: rdb, log: log.With("client", "Redis")}, nil
}

// Get reports (nil, false) on miss and on transport errors: the cache is
// read-through and never blocks the caller's query path.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *Client) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		c.log.Debug("cache set failed", "key", key, "error", err)
	}
}

func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	err := c.rdb.Close()
	c.rdb = nil
	return err
}
