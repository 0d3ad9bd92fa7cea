package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yungbote/shopgraph-backend/internal/data/graph"
	"github.com/yungbote/shopgraph-backend/internal/domain"
	"github.com/yungbote/shopgraph-backend/internal/observability"
	"github.com/yungbote/shopgraph-backend/internal/platform/apperr"
	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
)

// ResultCache is an optional read-through cache for ranked query results.
// *redisdb.Client satisfies it; a nil cache disables caching.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

// RecommendationService is the read-only ranked-query layer over the graph.
// Malformed ids are rejected before any store round-trip; store failures come
// back as a single recommendations_unavailable condition; an empty result is
// a valid answer, not an error.
type RecommendationService interface {
	PersonalizedRecommendations(ctx context.Context, userID string, limit int) ([]domain.RecommendedProduct, error)
	SimilarProducts(ctx context.Context, productID string, limit int) ([]domain.SimilarProduct, error)
	FrequentlyBoughtTogether(ctx context.Context, productID string, limit int) ([]domain.BoughtTogetherProduct, error)
	ContentSimilar(ctx context.Context, productID string, limit int) ([]domain.ContentMatch, error)
}

type recommendationService struct {
	graph    GraphReader
	cache    ResultCache
	cacheTTL time.Duration
	metrics  *observability.Metrics
	log      *logger.Logger
}

func NewRecommendationService(
	graphStore GraphReader,
	cache ResultCache,
	cacheTTL time.Duration,
	metrics *observability.Metrics,
	baseLog *logger.Logger,
) RecommendationService {
	if cacheTTL <= 0 {
		cacheTTL = 60 * time.Second
	}
	return &recommendationService{
		graph:    graphStore,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		log:      baseLog.With("service", "RecommendationService"),
	}
}

func (s *recommendationService) PersonalizedRecommendations(ctx context.Context, userID string, limit int) ([]domain.RecommendedProduct, error) {
	const query = "personalized"
	if userID == "" {
		return nil, apperr.Invalid("user id is required")
	}
	key := s.cacheKey(query, userID, limit)

	var cached []domain.RecommendedProduct
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.graph.UserRecommendations(ctx, userID, limit)
	if err != nil {
		return nil, s.unavailable(query, err)
	}
	s.served(query)
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

func (s *recommendationService) SimilarProducts(ctx context.Context, productID string, limit int) ([]domain.SimilarProduct, error) {
	const query = "similar_products"
	pid, err := domain.NormalizeProductID(productID)
	if err != nil {
		return nil, apperr.Invalid("%v", err)
	}
	key := s.cacheKey(query, pid, limit)

	var cached []domain.SimilarProduct
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.graph.SimilarProducts(ctx, pid, limit)
	if err != nil {
		return nil, s.unavailable(query, err)
	}
	s.served(query)
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

func (s *recommendationService) FrequentlyBoughtTogether(ctx context.Context, productID string, limit int) ([]domain.BoughtTogetherProduct, error) {
	const query = "frequently_bought_together"
	pid, err := domain.NormalizeProductID(productID)
	if err != nil {
		return nil, apperr.Invalid("%v", err)
	}
	key := s.cacheKey(query, pid, limit)

	var cached []domain.BoughtTogetherProduct
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.graph.FrequentlyBoughtTogether(ctx, pid, limit)
	if err != nil {
		return nil, s.unavailable(query, err)
	}
	s.served(query)
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

func (s *recommendationService) ContentSimilar(ctx context.Context, productID string, limit int) ([]domain.ContentMatch, error) {
	const query = "content_similar"
	pid, err := domain.NormalizeProductID(productID)
	if err != nil {
		return nil, apperr.Invalid("%v", err)
	}
	key := s.cacheKey(query, pid, limit)

	var cached []domain.ContentMatch
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.graph.ContentSimilar(ctx, pid, limit)
	if err != nil {
		return nil, s.unavailable(query, err)
	}
	s.served(query)
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

func (s *recommendationService) cacheKey(query, anchor string, limit int) string {
	if limit <= 0 {
		limit = graph.DefaultLimit
	}
	return fmt.Sprintf("rec:%s:%s:%d", query, anchor, limit)
}

func (s *recommendationService) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		s.metrics.CacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.metrics.CacheMisses.Inc()
		return false
	}
	s.metrics.CacheHits.Inc()
	return true
}

func (s *recommendationService) cacheSet(ctx context.Context, key string, rows any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, raw, s.cacheTTL)
}

func (s *recommendationService) served(query string) {
	s.metrics.EngineQueries.WithLabel(query).Inc()
}

func (s *recommendationService) unavailable(query string, err error) error {
	s.metrics.EngineFailures.WithLabel(query).Inc()
	s.log.Error("ranked query failed", "query", query, "error", err)
	return apperr.New(503, apperr.CodeRecommendationsUnavailable, fmt.Errorf("%s: %w", query, err))
}
