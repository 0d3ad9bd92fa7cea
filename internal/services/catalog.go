package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/yungbote/shopgraph-backend/internal/domain"
	"github.com/yungbote/shopgraph-backend/internal/observability"
	"github.com/yungbote/shopgraph-backend/internal/platform/apperr"
	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
	"github.com/yungbote/shopgraph-backend/internal/repos"
)

const graphNodeProduct = "ProductNode"

// CatalogService owns the products collection and mirrors every catalog
// change into the graph: create/update upserts the Product node, delete
// cascades through DETACH DELETE. Mirror writes follow the same derived-index
// policy as the tracker: failures are counted and logged, never returned.
type CatalogService interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, catalogID int64, update ProductUpdate) error
	DeleteProduct(ctx context.Context, catalogID int64) error
	GetProduct(ctx context.Context, catalogID int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	SearchProducts(ctx context.Context, query string) ([]*domain.Product, error)
}

// ProductUpdate carries the mutable catalog fields; nil means "leave as is".
type ProductUpdate struct {
	Name     *string
	Category *string
	Tags     *[]string
	Price    *float64
	Image    *string
}

type catalogService struct {
	products repos.ProductRepo
	graph    GraphWriter
	metrics  *observability.Metrics
	log      *logger.Logger
}

func NewCatalogService(products repos.ProductRepo, graphStore GraphWriter, metrics *observability.Metrics, baseLog *logger.Logger) CatalogService {
	return &catalogService{
		products: products,
		graph:    graphStore,
		metrics:  metrics,
		log:      baseLog.With("service", "CatalogService"),
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product == nil || product.CatalogID <= 0 {
		return apperr.Invalid("product requires a positive catalog id")
	}
	if product.Name == "" {
		return apperr.Invalid("product name is required")
	}

	existing, err := s.products.GetByCatalogID(ctx, product.CatalogID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.Invalid("product id %d already exists", product.CatalogID)
	}

	if err := s.products.Create(ctx, product); err != nil {
		return err
	}
	s.mirror(ctx, product)
	return nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, catalogID int64, update ProductUpdate) error {
	product, err := s.products.GetByCatalogID(ctx, catalogID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperr.New(404, apperr.CodeNotFound, nil)
	}

	set := bson.M{}
	if update.Name != nil {
		product.Name = *update.Name
		set["name"] = product.Name
	}
	if update.Category != nil {
		product.Category = *update.Category
		set["category"] = product.Category
	}
	if update.Tags != nil {
		product.Tags = *update.Tags
		set["tags"] = product.Tags
	}
	if update.Price != nil {
		product.Price = *update.Price
		set["price"] = product.Price
	}
	if update.Image != nil {
		product.Image = *update.Image
		set["image"] = product.Image
	}
	if len(set) == 0 {
		return nil
	}

	if err := s.products.Update(ctx, catalogID, set); err != nil {
		return err
	}
	s.mirror(ctx, product)
	return nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, catalogID int64) error {
	product, err := s.products.GetByCatalogID(ctx, catalogID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperr.New(404, apperr.CodeNotFound, nil)
	}

	if err := s.products.Delete(ctx, catalogID); err != nil {
		return err
	}

	s.metrics.GraphWriteAttempted.WithLabel(graphNodeProduct).Inc()
	if err := s.graph.DeleteProductNode(ctx, product.GraphID()); err != nil {
		s.metrics.GraphWriteFailed.WithLabel(graphNodeProduct).Inc()
		s.log.Warn("graph product delete failed", "product_id", product.GraphID(), "error", err)
	}
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, catalogID int64) (*domain.Product, error) {
	return s.products.GetByCatalogID(ctx, catalogID)
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

func (s *catalogService) SearchProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	return s.products.Search(ctx, query)
}

func (s *catalogService) mirror(ctx context.Context, product *domain.Product) {
	s.metrics.GraphWriteAttempted.WithLabel(graphNodeProduct).Inc()
	if err := s.graph.UpsertProductNode(ctx, product); err != nil {
		s.metrics.GraphWriteFailed.WithLabel(graphNodeProduct).Inc()
		s.log.Warn("graph product mirror failed", "product_id", product.GraphID(), "error", err)
	}
}
