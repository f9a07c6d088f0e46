// Package cube provides the engine facade: query execution and the derived
// operations (slice-and-dice, rankings, growth rates, member enumeration,
// statistics, refresh) composed from the parse → compile → execute → format
// pipeline.
package cube

import (
	"context"
	"log/slog"
	"sync"

	"cubedeck/internal/catalog"
	"cubedeck/internal/compile"
	"cubedeck/internal/domain"
	"cubedeck/internal/format"
	"cubedeck/internal/mdx"
)

// Service is the OLAP engine entry point consumed by the serving layer.
// It holds no per-query state; concurrent calls are safe.
type Service struct {
	catalog *catalog.Catalog
	conn    domain.WarehouseConn
	logger  *slog.Logger

	mu         sync.Mutex
	refreshing map[string]*sync.Mutex // per-cube refresh serialization
}

// NewService creates a Service over the given catalog and warehouse connection.
func NewService(cat *catalog.Catalog, conn domain.WarehouseConn, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog:    cat,
		conn:       conn,
		logger:     logger,
		refreshing: make(map[string]*sync.Mutex),
	}
}

// ListCubes returns all registered cube definitions in registration order.
func (s *Service) ListCubes() []*domain.CubeDefinition {
	return s.catalog.List()
}

// GetCubeMetadata returns the definition registered under name.
func (s *Service) GetCubeMetadata(name string) (*domain.CubeDefinition, bool) {
	return s.catalog.Get(name)
}

// ExecuteQuery parses queryText, compiles it against the named cube, runs it,
// and reshapes the rows into CubeData.
func (s *Service) ExecuteQuery(ctx context.Context, cubeName, queryText string) (*domain.CubeData, error) {
	cube, q, compiled, err := s.compileQuery(cubeName, queryText)
	if err != nil {
		return nil, err
	}

	rows, err := s.conn.Execute(ctx, compiled.SQL, compiled.Params)
	if err != nil {
		return nil, err
	}
	return format.Format(q, cube, rows)
}

// ExplainQuery compiles queryText against the named cube and returns the
// generated SQL and parameters without executing.
func (s *Service) ExplainQuery(cubeName, queryText string) (*compile.Compiled, error) {
	_, _, compiled, err := s.compileQuery(cubeName, queryText)
	return compiled, err
}

func (s *Service) compileQuery(cubeName, queryText string) (*domain.CubeDefinition, *domain.ParsedQuery, *compile.Compiled, error) {
	cube, ok := s.catalog.Get(cubeName)
	if !ok {
		return nil, nil, nil, domain.ErrSemantic(domain.UnknownCube, cubeName)
	}

	q, err := mdx.Parse(queryText)
	if err != nil {
		return nil, nil, nil, err
	}
	if q.From != cube.Name {
		return nil, nil, nil, domain.ErrValidation("query selects from %q, not %q", q.From, cube.Name)
	}

	compiled, err := compile.Compile(q, cube)
	if err != nil {
		return nil, nil, nil, err
	}

	s.logger.Debug("compiled query", "cube", cube.Name, "sql", compiled.SQL)
	return cube, q, compiled, nil
}

// cube resolves a cube by name.
func (s *Service) cube(name string) (*domain.CubeDefinition, error) {
	cube, ok := s.catalog.Get(name)
	if !ok {
		return nil, domain.ErrSemantic(domain.UnknownCube, name)
	}
	return cube, nil
}
