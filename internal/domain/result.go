package domain

// Row is one warehouse result row: an ordered mapping from column name to a
// typed scalar. Columns is shared across rows from the same result set.
type Row struct {
	Columns []string
	Values  []interface{}
}

// Get returns the value of the named column.
func (r Row) Get(column string) (interface{}, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// MeasureInfo is per-measure metadata copied from the cube definition.
type MeasureInfo struct {
	DataType     string
	FormatString string
	Aggregation  string
}

// CubeMetadata carries member sets and measure metadata for a result.
type CubeMetadata struct {
	// DimensionMembers maps a result dimension column to the distinct values
	// observed in the returned rows, in first-observed order.
	DimensionMembers map[string][]interface{}
	MeasureInfo      map[string]MeasureInfo
}

// CubeData is a multidimensional result set. Dimensions and Measures preserve
// the select-list order of the source query; Data rows carry dimension values
// first, then measure values, in the executor's row order.
type CubeData struct {
	Dimensions []string
	Measures   []string
	Data       [][]interface{}
	Metadata   CubeMetadata
}

// Ranking is one entry of a top-N ranking.
type Ranking struct {
	Rank      int
	Dimension interface{}
	Value     float64
}

// GrowthPoint is one period of a period-over-period growth series.
type GrowthPoint struct {
	Period     interface{}
	Current    float64
	Previous   float64
	GrowthRate float64
}

// DimensionStats is a per-dimension current-member count.
type DimensionStats struct {
	Dimension   string
	MemberCount int64
}

// DateRange bounds the time dimension observed in the fact table.
type DateRange struct {
	Earliest interface{}
	Latest   interface{}
}

// CubeStatistics summarizes a cube's backing data and schema.
type CubeStatistics struct {
	TotalRecords          int64
	DateRange             *DateRange
	Dimensions            []DimensionStats
	MeasureCount          int
	CalculatedMemberCount int
}
