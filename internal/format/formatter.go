// Package format reshapes raw warehouse rows into a multidimensional CubeData.
package format

import (
	"fmt"

	"cubedeck/internal/domain"
)

// Format builds a CubeData from the rows the executor returned for q.
//
// The Dimensions and Measures arrays preserve the left-to-right select-list
// order of the source query, and Data preserves the executor's row order
// (which is the compiler's ORDER BY). Dimension members are the distinct
// values observed in the result, not the dimension's full domain.
func Format(q *domain.ParsedQuery, cube *domain.CubeDefinition, rows []domain.Row) (*domain.CubeData, error) {
	data := &domain.CubeData{
		Data: make([][]interface{}, 0, len(rows)),
		Metadata: domain.CubeMetadata{
			DimensionMembers: map[string][]interface{}{},
			MeasureInfo:      map[string]domain.MeasureInfo{},
		},
	}

	var dimCols, measureCols []string
	for _, item := range q.Select {
		switch item.Kind {
		case domain.SelectKindDimensionLevel:
			col := item.Dimension + "_" + item.Level
			dimCols = append(dimCols, col)
			data.Dimensions = append(data.Dimensions, col)
		case domain.SelectKindMeasure:
			m, ok := cube.Measure(item.Measure)
			if !ok {
				return nil, domain.ErrSemanticIn(domain.UnknownMeasure, item.Measure, cube.Name)
			}
			measureCols = append(measureCols, m.Name)
			data.Measures = append(data.Measures, m.Name)
			data.Metadata.MeasureInfo[m.Name] = domain.MeasureInfo{
				DataType:     m.DataType,
				FormatString: m.FormatString,
				Aggregation:  m.Aggregation,
			}
		}
	}

	seen := map[string]map[interface{}]bool{}
	for _, col := range dimCols {
		seen[col] = map[interface{}]bool{}
		data.Metadata.DimensionMembers[col] = []interface{}{}
	}

	for _, row := range rows {
		out := make([]interface{}, 0, len(dimCols)+len(measureCols))
		for _, col := range dimCols {
			v, ok := row.Get(col)
			if !ok {
				return nil, domain.ErrExecution(fmt.Errorf("result row is missing column %q", col))
			}
			out = append(out, v)
			if isHashable(v) && !seen[col][v] {
				seen[col][v] = true
				data.Metadata.DimensionMembers[col] = append(data.Metadata.DimensionMembers[col], v)
			}
		}
		for _, col := range measureCols {
			v, ok := row.Get(col)
			if !ok {
				return nil, domain.ErrExecution(fmt.Errorf("result row is missing column %q", col))
			}
			out = append(out, v)
		}
		data.Data = append(data.Data, out)
	}

	return data, nil
}

// isHashable reports whether v can be used as a map key for member
// de-duplication. Grouped columns come back from the driver as scalars.
func isHashable(v interface{}) bool {
	switch v.(type) {
	case nil, string, int, int32, int64, float32, float64, bool:
		return true
	}
	return false
}
