package cube

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"cubedeck/internal/compile"
	"cubedeck/internal/domain"
	"cubedeck/internal/format"
)

// DimensionMembers enumerates the current members of a dimension hierarchy
// directly from the dimension table, bypassing the fact table. hierarchyName
// selects a hierarchy by name; empty selects the dimension's first.
func (s *Service) DimensionMembers(ctx context.Context, cubeName, dimName, hierarchyName string) ([]domain.Row, error) {
	cube, err := s.cube(cubeName)
	if err != nil {
		return nil, err
	}
	dim, ok := cube.Dimension(dimName)
	if !ok {
		return nil, domain.ErrSemanticIn(domain.UnknownDimension, dimName, cube.Name)
	}

	hier := &dim.Hierarchies[0]
	if hierarchyName != "" {
		h, ok := dim.Hierarchy(hierarchyName)
		if !ok {
			return nil, domain.ErrSemanticIn(domain.UnknownHierarchy, hierarchyName, dimName)
		}
		hier = h
	}

	cols := make([]string, 0, len(hier.Levels))
	order := make([]string, 0, len(hier.Levels))
	for i := range hier.Levels {
		level := &hier.Levels[i]
		cols = append(cols, level.Column)
		// DISTINCT requires every ORDER BY term in the select list.
		if oc := level.OrderColumn(); oc != level.Column {
			cols = append(cols, oc)
		}
		order = append(order, level.OrderColumn())
	}

	sqlText := fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE is_current = true ORDER BY %s",
		strings.Join(cols, ", "), dim.Table, strings.Join(order, ", "))
	return s.conn.Execute(ctx, sqlText, nil)
}

// SliceAndDice selects the given dimensions and measures with IN filters on
// dimension values, then runs the standard pipeline. Dimension references are
// either "Dimension" (resolved to the finest level of its first hierarchy) or
// "Dimension.Level". Filter keys are dimension names; each filters at the
// level selected for that dimension, or the finest level when the dimension
// is not selected.
func (s *Service) SliceAndDice(ctx context.Context, cubeName string, dims, measures []string, filters map[string][]interface{}) (*domain.CubeData, error) {
	cube, err := s.cube(cubeName)
	if err != nil {
		return nil, err
	}

	q := &domain.ParsedQuery{From: cube.Name}
	levelByDim := map[string]string{}
	for _, ref := range dims {
		dimName, level, err := s.resolveDimRef(cube, ref)
		if err != nil {
			return nil, err
		}
		levelByDim[dimName] = level
		q.Select = append(q.Select, domain.SelectItem{
			Kind: domain.SelectKindDimensionLevel, Dimension: dimName, Level: level,
		})
	}
	for _, m := range measures {
		q.Select = append(q.Select, domain.SelectItem{Kind: domain.SelectKindMeasure, Measure: m})
	}

	// Map iteration order is random; sort for a deterministic statement.
	filterDims := make([]string, 0, len(filters))
	for dimName := range filters {
		filterDims = append(filterDims, dimName)
	}
	sort.Strings(filterDims)
	for _, dimName := range filterDims {
		values := filters[dimName]
		if len(values) == 0 {
			return nil, domain.ErrValidation("filter on dimension %q has no values", dimName)
		}
		level, ok := levelByDim[dimName]
		if !ok {
			_, level, err = s.resolveDimRef(cube, dimName)
			if err != nil {
				return nil, err
			}
		}
		q.Where = append(q.Where, domain.Predicate{Dimension: dimName, Level: level, Values: values})
	}

	compiled, err := compile.Compile(q, cube)
	if err != nil {
		return nil, err
	}
	rows, err := s.conn.Execute(ctx, compiled.SQL, compiled.Params)
	if err != nil {
		return nil, err
	}
	return format.Format(q, cube, rows)
}

// resolveDimRef resolves "Dimension" or "Dimension.Level" to a dimension name
// and level name, defaulting to the finest level of the first hierarchy.
func (s *Service) resolveDimRef(cube *domain.CubeDefinition, ref string) (string, string, error) {
	dimName, level, hasLevel := strings.Cut(ref, ".")
	dim, ok := cube.Dimension(dimName)
	if !ok {
		return "", "", domain.ErrSemanticIn(domain.UnknownDimension, dimName, cube.Name)
	}
	if !hasLevel {
		level = dim.FinestLevel().Name
	}
	return dim.Name, level, nil
}

// Rankings returns the top-N members of a dimension by measure value,
// descending. Ties keep the store's row order (stable sort, no secondary
// key); ranks run 1..len with no gaps.
func (s *Service) Rankings(ctx context.Context, cubeName, dimName, measureName string, topN int) ([]domain.Ranking, error) {
	if topN < 0 {
		return nil, domain.ErrValidation("topN must be >= 0, got %d", topN)
	}

	_, dim, rows, err := s.groupByDimension(ctx, cubeName, dimName, measureName)
	if err != nil {
		return nil, err
	}

	dimCol := dim.Name + "_" + dim.FinestLevel().Name
	type entry struct {
		member interface{}
		value  float64
	}
	entries := make([]entry, 0, len(rows))
	for _, row := range rows {
		member, _ := row.Get(dimCol)
		raw, _ := row.Get(measureName)
		entries = append(entries, entry{member: member, value: toFloat(raw)})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].value > entries[j].value })
	if len(entries) > topN {
		entries = entries[:topN]
	}

	rankings := make([]domain.Ranking, len(entries))
	for i, e := range entries {
		rankings[i] = domain.Ranking{Rank: i + 1, Dimension: e.member, Value: e.value}
	}
	return rankings, nil
}

// GrowthRates computes period-over-period growth of a measure along a time
// dimension, ordered ascending. The first period has no predecessor and a
// zero previous value yields a zero rate. periods > 0 keeps only the trailing
// periods points.
func (s *Service) GrowthRates(ctx context.Context, cubeName, timeDimName, measureName string, periods int) ([]domain.GrowthPoint, error) {
	_, dim, rows, err := s.groupByDimension(ctx, cubeName, timeDimName, measureName)
	if err != nil {
		return nil, err
	}

	dimCol := dim.Name + "_" + dim.FinestLevel().Name
	points := make([]domain.GrowthPoint, 0, len(rows))
	previous := 0.0
	for i, row := range rows {
		period, _ := row.Get(dimCol)
		raw, _ := row.Get(measureName)
		current := toFloat(raw)

		rate := 0.0
		if i > 0 && previous != 0 {
			rate = round2((current - previous) / previous * 100)
		}
		points = append(points, domain.GrowthPoint{
			Period:     period,
			Current:    current,
			Previous:   previous,
			GrowthRate: rate,
		})
		previous = current
	}
	if periods > 0 && len(points) > periods {
		points = points[len(points)-periods:]
	}
	return points, nil
}

// groupByDimension compiles and runs the (dimension finest level, measure)
// group-by query shared by Rankings and GrowthRates.
func (s *Service) groupByDimension(ctx context.Context, cubeName, dimName, measureName string) (*domain.CubeDefinition, *domain.Dimension, []domain.Row, error) {
	cube, err := s.cube(cubeName)
	if err != nil {
		return nil, nil, nil, err
	}
	dim, ok := cube.Dimension(dimName)
	if !ok {
		return nil, nil, nil, domain.ErrSemanticIn(domain.UnknownDimension, dimName, cube.Name)
	}

	q := &domain.ParsedQuery{
		From: cube.Name,
		Select: []domain.SelectItem{
			{Kind: domain.SelectKindDimensionLevel, Dimension: dim.Name, Level: dim.FinestLevel().Name},
			{Kind: domain.SelectKindMeasure, Measure: measureName},
		},
	}
	compiled, err := compile.Compile(q, cube)
	if err != nil {
		return nil, nil, nil, err
	}
	rows, err := s.conn.Execute(ctx, compiled.SQL, compiled.Params)
	if err != nil {
		return nil, nil, nil, err
	}
	return cube, dim, rows, nil
}

// Statistics summarizes the cube: fact row count, per-dimension current
// member counts, the observed date range of its time dimension, and schema
// counts. Member counts run concurrently against the shared pool.
func (s *Service) Statistics(ctx context.Context, cubeName string) (*domain.CubeStatistics, error) {
	cube, err := s.cube(cubeName)
	if err != nil {
		return nil, err
	}

	stats := &domain.CubeStatistics{
		MeasureCount:          len(cube.Measures),
		CalculatedMemberCount: len(cube.CalculatedMembers),
		Dimensions:            make([]domain.DimensionStats, len(cube.Dimensions)),
	}

	rows, err := s.conn.Execute(ctx, fmt.Sprintf("SELECT COUNT(*) AS total_records FROM %s", cube.FactTable), nil)
	if err != nil {
		return nil, err
	}
	if len(rows) == 1 {
		v, _ := rows[0].Get("total_records")
		stats.TotalRecords = toInt(v)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range cube.Dimensions {
		dim := &cube.Dimensions[i]
		g.Go(func() error {
			sqlText := fmt.Sprintf("SELECT COUNT(DISTINCT %s) AS member_count FROM %s WHERE is_current = true",
				dim.KeyColumn, dim.Table)
			rows, err := s.conn.Execute(gctx, sqlText, nil)
			if err != nil {
				return err
			}
			count := int64(0)
			if len(rows) == 1 {
				v, _ := rows[0].Get("member_count")
				count = toInt(v)
			}
			stats.Dimensions[i] = domain.DimensionStats{Dimension: dim.Name, MemberCount: count}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if timeDim := findTimeDimension(cube); timeDim != nil {
		col := timeDim.FinestLevel().Column
		sqlText := fmt.Sprintf("SELECT MIN(%s.%s) AS earliest, MAX(%s.%s) AS latest FROM %s fact LEFT JOIN %s %s ON fact.%s = %s.%s",
			timeDim.Alias(), col, timeDim.Alias(), col,
			cube.FactTable, timeDim.Table, timeDim.Alias(), timeDim.FactKeyColumn(), timeDim.Alias(), timeDim.KeyColumn)
		rows, err := s.conn.Execute(ctx, sqlText, nil)
		if err != nil {
			return nil, err
		}
		if len(rows) == 1 {
			earliest, _ := rows[0].Get("earliest")
			latest, _ := rows[0].Get("latest")
			if earliest != nil || latest != nil {
				stats.DateRange = &domain.DateRange{Earliest: earliest, Latest: latest}
			}
		}
	}

	return stats, nil
}

// findTimeDimension picks the cube's time axis by conventional name.
func findTimeDimension(cube *domain.CubeDefinition) *domain.Dimension {
	for i := range cube.Dimensions {
		if strings.EqualFold(cube.Dimensions[i].Name, "Time") || strings.EqualFold(cube.Dimensions[i].Name, "Date") {
			return &cube.Dimensions[i]
		}
	}
	return nil
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func toInt(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
