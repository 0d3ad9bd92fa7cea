package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/shopgraph-backend/internal/platform/envutil"
	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
)

type Config struct {
	LogMode string `yaml:"log_mode"`

	MongoURI      string `yaml:"mongodb_uri"`
	MongoDatabase string `yaml:"mongodb_db"`

	Neo4jURI            string `yaml:"neo4j_uri"`
	Neo4jUser           string `yaml:"neo4j_user"`
	Neo4jPassword       string `yaml:"neo4j_password"`
	Neo4jDatabase       string `yaml:"neo4j_database"`
	Neo4jTimeoutSeconds int    `yaml:"neo4j_timeout_seconds"`
	Neo4jMaxPoolSize    int    `yaml:"neo4j_max_pool_size"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	RecCacheTTLSeconds  int `yaml:"rec_cache_ttl_seconds"`
	BackfillParallelism int `yaml:"backfill_parallelism"`
}

func (c Config) Neo4jTimeout() time.Duration {
	return time.Duration(c.Neo4jTimeoutSeconds) * time.Second
}

func (c Config) RecCacheTTL() time.Duration {
	return time.Duration(c.RecCacheTTLSeconds) * time.Second
}

// LoadConfig layers defaults, an optional YAML file named by CONFIG_FILE, and
// environment variables, in increasing precedence.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		LogMode:             "development",
		MongoURI:            "mongodb://localhost:27017/",
		MongoDatabase:       "tokoelektronik",
		Neo4jUser:           "neo4j",
		Neo4jDatabase:       "neo4j",
		Neo4jTimeoutSeconds: 10,
		Neo4jMaxPoolSize:    50,
		RecCacheTTLSeconds:  60,
		BackfillParallelism: 4,
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		log.Info("Loaded config file", "path", path)
	}

	cfg.LogMode = envutil.Str("LOG_MODE", cfg.LogMode)
	cfg.MongoURI = envutil.Str("MONGODB_URI", cfg.MongoURI)
	cfg.MongoDatabase = envutil.Str("MONGODB_DB", cfg.MongoDatabase)
	cfg.Neo4jURI = envutil.Str("NEO4J_URI", cfg.Neo4jURI)
	cfg.Neo4jUser = envutil.Str("NEO4J_USER", cfg.Neo4jUser)
	cfg.Neo4jPassword = envutil.Str("NEO4J_PASSWORD", cfg.Neo4jPassword)
	cfg.Neo4jDatabase = envutil.Str("NEO4J_DATABASE", cfg.Neo4jDatabase)
	cfg.Neo4jTimeoutSeconds = envutil.Int("NEO4J_TIMEOUT_SECONDS", cfg.Neo4jTimeoutSeconds)
	cfg.Neo4jMaxPoolSize = envutil.Int("NEO4J_MAX_POOL_SIZE", cfg.Neo4jMaxPoolSize)
	cfg.RedisAddr = envutil.Str("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = envutil.Str("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = envutil.Int("REDIS_DB", cfg.RedisDB)
	cfg.RecCacheTTLSeconds = envutil.Int("REC_CACHE_TTL_SECONDS", cfg.RecCacheTTLSeconds)
	cfg.BackfillParallelism = envutil.Int("BACKFILL_PARALLELISM", cfg.BackfillParallelism)

	return cfg, nil
}
