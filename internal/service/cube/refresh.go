package cube

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"cubedeck/internal/domain"
)

// RefreshCube atomically rebuilds the cube's backing tables from their
// staging counterparts. For each table <t> of the cube (fact table plus
// dimension tables), a versioned shadow is built from <t>_staging and swapped
// into place; the whole swap runs in one transaction, so concurrent readers
// see either the old tables or the new ones, never a mix.
//
// The external ETL collaborator owns the <t>_staging relations. Refreshes for
// the same cube serialize; different cubes refresh independently.
func (s *Service) RefreshCube(ctx context.Context, cubeName string) error {
	cube, err := s.cube(cubeName)
	if err != nil {
		return err
	}

	mu := s.refreshLock(cube.Name)
	mu.Lock()
	defer mu.Unlock()

	version := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	tables := cube.Tables()

	stmts := make([]string, 0, len(tables)*4)
	for _, t := range tables {
		shadow := fmt.Sprintf("%s__v%s", t, version)
		retired := fmt.Sprintf("%s__retired_%s", t, version)
		stmts = append(stmts,
			fmt.Sprintf("CREATE TABLE %s AS SELECT * FROM %s_staging", shadow, t),
			fmt.Sprintf("ALTER TABLE %s RENAME TO %s", t, retired),
			fmt.Sprintf("ALTER TABLE %s RENAME TO %s", shadow, t),
			fmt.Sprintf("DROP TABLE %s", retired),
		)
	}

	s.logger.Info("refreshing cube", "cube", cube.Name, "version", version, "tables", len(tables))
	if err := s.conn.ExecBatch(ctx, stmts); err != nil {
		s.logger.Error("cube refresh failed", "cube", cube.Name, "version", version, "error", err)
		return domain.ErrRefresh(err)
	}
	s.logger.Info("cube refreshed", "cube", cube.Name, "version", version)
	return nil
}

func (s *Service) refreshLock(cubeName string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.refreshing[cubeName]
	if !ok {
		mu = &sync.Mutex{}
		s.refreshing[cubeName] = mu
	}
	return mu
}
