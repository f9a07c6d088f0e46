package compile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cubedeck/internal/domain"
	"cubedeck/internal/mdx"
)

func procurementCube() *domain.CubeDefinition {
	return &domain.CubeDefinition{
		Name:      "MaritimeProcurement",
		FactTable: "fact_po",
		Dimensions: []domain.Dimension{
			{
				Name:       "Vessel",
				Table:      "dim_vessel",
				KeyColumn:  "vessel_key",
				NameColumn: "vessel_name",
				Hierarchies: []domain.Hierarchy{
					{
						Name: "VesselHierarchy",
						Levels: []domain.HierarchyLevel{
							{Name: "VesselType", Column: "vessel_type"},
							{Name: "Vessel", Column: "vessel_name"},
						},
					},
				},
			},
			{
				Name:       "Time",
				Table:      "dim_time",
				KeyColumn:  "time_key",
				NameColumn: "month_name",
				Hierarchies: []domain.Hierarchy{
					{
						Name: "Calendar",
						Levels: []domain.HierarchyLevel{
							{Name: "Year", Column: "year"},
							{Name: "Month", Column: "month_name", OrderBy: "month_num"},
						},
					},
				},
			},
		},
		Measures: []domain.Measure{
			{Name: "POAmount", Column: "po_amount", Aggregation: domain.AggregationSum, DataType: domain.DataTypeCurrency},
			{Name: "VendorCount", Column: "vendor_key", Aggregation: domain.AggregationCountDistinct, DataType: domain.DataTypeNumber},
		},
	}
}

func mustParse(t *testing.T, text string) *domain.ParsedQuery {
	t.Helper()
	q, err := mdx.Parse(text)
	require.NoError(t, err)
	return q
}

func TestCompile_GroupByQuery(t *testing.T) {
	q := mustParse(t, "SELECT [Measures].[POAmount], [Vessel].[VesselType] FROM [MaritimeProcurement]")

	c, err := Compile(q, procurementCube())
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT d_vessel.vessel_type AS Vessel_VesselType, SUM(fact.po_amount) AS POAmount"+
			" FROM fact_po fact"+
			" LEFT JOIN dim_vessel d_vessel ON fact.vessel_key = d_vessel.vessel_key"+
			" GROUP BY d_vessel.vessel_type"+
			" ORDER BY d_vessel.vessel_type ASC",
		c.SQL)
	assert.Empty(t, c.Params)
}

func TestCompile_MeasureOnlyOmitsGroupBy(t *testing.T) {
	q := mustParse(t, "SELECT [Measures].[POAmount] FROM [MaritimeProcurement]")

	c, err := Compile(q, procurementCube())
	require.NoError(t, err)

	assert.Equal(t, "SELECT SUM(fact.po_amount) AS POAmount FROM fact_po fact", c.SQL)
}

func TestCompile_CountDistinct(t *testing.T) {
	q := mustParse(t, "SELECT [Measures].[VendorCount] FROM [MaritimeProcurement]")

	c, err := Compile(q, procurementCube())
	require.NoError(t, err)

	assert.Contains(t, c.SQL, "COUNT(DISTINCT fact.vendor_key) AS VendorCount")
}

func TestCompile_JoinDeduplication(t *testing.T) {
	q := mustParse(t, "SELECT [Vessel].[VesselType], [Vessel].[Vessel], [Measures].[POAmount] FROM [MaritimeProcurement]")

	c, err := Compile(q, procurementCube())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(c.SQL, "JOIN dim_vessel"), "one join per dimension")
	assert.Contains(t, c.SQL, "GROUP BY d_vessel.vessel_type, d_vessel.vessel_name")
}

func TestCompile_OrderByOverride(t *testing.T) {
	q := mustParse(t, "SELECT [Time].[Month], [Measures].[POAmount] FROM [MaritimeProcurement]")

	c, err := Compile(q, procurementCube())
	require.NoError(t, err)

	assert.Contains(t, c.SQL, "GROUP BY d_time.month_name, d_time.month_num")
	assert.Contains(t, c.SQL, "ORDER BY d_time.month_num ASC")
}

func TestCompile_PredicatesAreParameterized(t *testing.T) {
	q := mustParse(t, "SELECT [Measures].[POAmount] FROM [MaritimeProcurement] WHERE [Vessel].[VesselType] = 'TANKER' AND [Time].[Year] = 2024")

	c, err := Compile(q, procurementCube())
	require.NoError(t, err)

	assert.Contains(t, c.SQL, "WHERE d_vessel.vessel_type = ? AND d_time.year = ?")
	assert.Equal(t, []interface{}{"TANKER", int64(2024)}, c.Params)
	assert.NotContains(t, c.SQL, "TANKER", "literals never appear in SQL text")
	// Predicate dimensions are joined even when not selected.
	assert.Contains(t, c.SQL, "LEFT JOIN dim_time d_time ON fact.time_key = d_time.time_key")
}

func TestCompile_MultiValuePredicate(t *testing.T) {
	q := &domain.ParsedQuery{
		Select: []domain.SelectItem{{Kind: domain.SelectKindMeasure, Measure: "POAmount"}},
		From:   "MaritimeProcurement",
		Where: []domain.Predicate{
			{Dimension: "Vessel", Level: "VesselType", Values: []interface{}{"TANKER", "BULK"}},
		},
	}

	c, err := Compile(q, procurementCube())
	require.NoError(t, err)

	assert.Contains(t, c.SQL, "d_vessel.vessel_type IN (?, ?)")
	assert.Equal(t, []interface{}{"TANKER", "BULK"}, c.Params)
}

func TestCompile_SemanticErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind domain.SemanticErrorKind
		id   string
	}{
		{"unknown measure", "SELECT [Measures].[Tonnage] FROM [MaritimeProcurement]", domain.UnknownMeasure, "Tonnage"},
		{"unknown dimension", "SELECT [Port].[Country], [Measures].[POAmount] FROM [MaritimeProcurement]", domain.UnknownDimension, "Port"},
		{"unknown level", "SELECT [Vessel].[Flag], [Measures].[POAmount] FROM [MaritimeProcurement]", domain.UnknownLevel, "Flag"},
		{"unknown predicate level", "SELECT [Measures].[POAmount] FROM [MaritimeProcurement] WHERE [Vessel].[Flag] = 'PA'", domain.UnknownLevel, "Flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(mustParse(t, tt.text), procurementCube())
			var semErr *domain.SemanticError
			require.ErrorAs(t, err, &semErr)
			assert.Equal(t, tt.kind, semErr.Kind)
			assert.Equal(t, tt.id, semErr.Identifier, "offending identifier surfaced verbatim")
		})
	}
}

func TestCompile_LevelSearchSpansHierarchies(t *testing.T) {
	cube := procurementCube()
	cube.Dimensions[0].Hierarchies = append(cube.Dimensions[0].Hierarchies, domain.Hierarchy{
		Name:   "FlagHierarchy",
		Levels: []domain.HierarchyLevel{{Name: "Flag", Column: "flag_state"}},
	})

	q := mustParse(t, "SELECT [Vessel].[Flag], [Measures].[POAmount] FROM [MaritimeProcurement]")
	c, err := Compile(q, cube)
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "d_vessel.flag_state AS Vessel_Flag")
}
