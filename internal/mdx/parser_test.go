package mdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cubedeck/internal/domain"
)

func TestParse_MeasureAndDimension(t *testing.T) {
	q, err := Parse("SELECT [Measures].[POAmount], [Vessel].[VesselType] FROM [MaritimeProcurement]")
	require.NoError(t, err)

	assert.Equal(t, "MaritimeProcurement", q.From)
	require.Len(t, q.Select, 2)
	assert.Equal(t, domain.SelectItem{Kind: domain.SelectKindMeasure, Measure: "POAmount"}, q.Select[0])
	assert.Equal(t, domain.SelectItem{Kind: domain.SelectKindDimensionLevel, Dimension: "Vessel", Level: "VesselType"}, q.Select[1])
	assert.Empty(t, q.Where)
}

func TestParse_KeywordsCaseInsensitive(t *testing.T) {
	q, err := Parse("select [Measures].[POAmount] from MaritimeProcurement")
	require.NoError(t, err)
	assert.Equal(t, "MaritimeProcurement", q.From)
}

func TestParse_WherePredicates(t *testing.T) {
	q, err := Parse("SELECT [Measures].[POAmount] FROM [MaritimeProcurement] " +
		"WHERE [Vessel].[VesselType] = 'TANKER' AND [Time].[Year] = 2024")
	require.NoError(t, err)

	require.Len(t, q.Where, 2)
	assert.Equal(t, domain.Predicate{Dimension: "Vessel", Level: "VesselType", Values: []interface{}{"TANKER"}}, q.Where[0])
	assert.Equal(t, domain.Predicate{Dimension: "Time", Level: "Year", Values: []interface{}{int64(2024)}}, q.Where[1])
}

func TestParse_SelectListOrderPreserved(t *testing.T) {
	q, err := Parse("SELECT [Vessel].[VesselType], [Measures].[POAmount], [Vessel].[Vessel], [Measures].[POCount] FROM [C]")
	require.NoError(t, err)

	require.Len(t, q.Select, 4)
	assert.Equal(t, []domain.SelectItem{
		{Kind: domain.SelectKindDimensionLevel, Dimension: "Vessel", Level: "VesselType"},
		{Kind: domain.SelectKindDimensionLevel, Dimension: "Vessel", Level: "Vessel"},
	}, q.DimensionItems())
	assert.Equal(t, []domain.SelectItem{
		{Kind: domain.SelectKindMeasure, Measure: "POAmount"},
		{Kind: domain.SelectKindMeasure, Measure: "POCount"},
	}, q.MeasureItems())
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{"empty query", "", 1},
		{"missing select", "FROM [C]", 1},
		{"missing from", "SELECT [Measures].[X]", 1},
		{"bare select item", "SELECT POAmount FROM [C]", 1},
		{"unterminated bracket", "SELECT [Measures].[X FROM [C]", 1},
		{"missing dot", "SELECT [Measures] [X] FROM [C]", 1},
		{"trailing tokens", "SELECT [Measures].[X] FROM [C] GARBAGE", 1},
		{"predicate on measure", "SELECT [Measures].[X] FROM [C] WHERE [Measures].[X] = 1", 1},
		{"predicate missing literal", "SELECT [Measures].[X] FROM [C] WHERE [V].[T] =", 1},
		{"unterminated string", "SELECT [Measures].[X] FROM [C] WHERE [V].[T] = 'TANK", 1},
		{"second line reported", "SELECT [Measures].[X]\nFROM [C] ???", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			var synErr *domain.QuerySyntaxError
			require.ErrorAs(t, err, &synErr, "text %q", tt.text)
			assert.Equal(t, tt.line, synErr.Line)
		})
	}
}

func TestParse_MultilineQuery(t *testing.T) {
	q, err := Parse("SELECT [Measures].[POAmount],\n       [Vessel].[VesselType]\nFROM [MaritimeProcurement]\nWHERE [Vessel].[VesselType] = 'TANKER'")
	require.NoError(t, err)
	assert.Len(t, q.Select, 2)
	assert.Len(t, q.Where, 1)
}
