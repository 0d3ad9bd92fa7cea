package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/shopgraph-backend/internal/platform/logger"
	"github.com/yungbote/shopgraph-backend/internal/platform/neo4jdb"
)

// Store is the property-graph facade: User and Product nodes plus typed,
// timestamped VIEWED / LIKES / IN_CART / PURCHASED relationships. Every method
// opens one short-lived session and closes it before returning. A Store built
// on a nil client is valid and inert: writes no-op, reads return empty.
type Store struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewStore(client *neo4jdb.Client, baseLog *logger.Logger) *Store {
	return &Store{client: client, log: baseLog.With("store", "Graph")}
}

func (s *Store) Enabled() bool {
	return s != nil && s.client != nil && s.client.Driver != nil
}

func (s *Store) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.client.Database,
	})
}

// EnsureSchema creates uniqueness constraints for node identities. Best-effort:
// restricted users may not be allowed to touch schema, so failures are logged
// and the store keeps working.
func (s *Store) EnsureSchema(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	statements := []string{
		`CREATE CONSTRAINT user_user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.user_id IS UNIQUE`,
		`CREATE CONSTRAINT product_product_id_unique IF NOT EXISTS FOR (p:Product) REQUIRE p.product_id IS UNIQUE`,
	}
	for _, stmt := range statements {
		if res, err := session.Run(ctx, stmt, nil); err != nil {
			s.log.Warn("neo4j schema init failed (continuing)", "error", err)
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}

func (s *Store) write(ctx context.Context, cypher string, params map[string]any) error {
	if !s.Enabled() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (s *Store) read(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	if !s.Enabled() {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	out, _ := records.([]*neo4j.Record)
	return out, nil
}

func recordString(record *neo4j.Record, key string) string {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func recordInt(record *neo4j.Record, key string) int64 {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func recordFloat(record *neo4j.Record, key string) float64 {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return 0
	}
}
