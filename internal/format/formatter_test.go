package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cubedeck/internal/domain"
)

func testCube() *domain.CubeDefinition {
	return &domain.CubeDefinition{
		Name:      "MaritimeProcurement",
		FactTable: "fact_po",
		Dimensions: []domain.Dimension{
			{
				Name: "Vessel", Table: "dim_vessel", KeyColumn: "vessel_key",
				Hierarchies: []domain.Hierarchy{{
					Name: "VesselHierarchy",
					Levels: []domain.HierarchyLevel{
						{Name: "VesselType", Column: "vessel_type"},
						{Name: "Vessel", Column: "vessel_name"},
					},
				}},
			},
		},
		Measures: []domain.Measure{
			{Name: "POAmount", Column: "po_amount", Aggregation: domain.AggregationSum, DataType: domain.DataTypeCurrency, FormatString: "#,##0.00"},
			{Name: "POCount", Column: "po_id", Aggregation: domain.AggregationCount, DataType: domain.DataTypeNumber},
		},
	}
}

func row(cols []string, values ...interface{}) domain.Row {
	return domain.Row{Columns: cols, Values: values}
}

func TestFormat_SelectListOrderPreserved(t *testing.T) {
	// Query listed the measure before the dimension; arrays keep that order
	// per kind, rows carry dimension values first.
	q := &domain.ParsedQuery{
		Select: []domain.SelectItem{
			{Kind: domain.SelectKindMeasure, Measure: "POAmount"},
			{Kind: domain.SelectKindDimensionLevel, Dimension: "Vessel", Level: "VesselType"},
		},
		From: "MaritimeProcurement",
	}
	cols := []string{"Vessel_VesselType", "POAmount"}
	rows := []domain.Row{
		row(cols, "BULK", 30.0),
		row(cols, "TANKER", 150.0),
	}

	data, err := Format(q, testCube(), rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"Vessel_VesselType"}, data.Dimensions)
	assert.Equal(t, []string{"POAmount"}, data.Measures)
	assert.Equal(t, [][]interface{}{{"BULK", 30.0}, {"TANKER", 150.0}}, data.Data)
}

func TestFormat_DimensionMembersDistinctObserved(t *testing.T) {
	q := &domain.ParsedQuery{
		Select: []domain.SelectItem{
			{Kind: domain.SelectKindDimensionLevel, Dimension: "Vessel", Level: "VesselType"},
			{Kind: domain.SelectKindDimensionLevel, Dimension: "Vessel", Level: "Vessel"},
			{Kind: domain.SelectKindMeasure, Measure: "POAmount"},
		},
		From: "MaritimeProcurement",
	}
	cols := []string{"Vessel_VesselType", "Vessel_Vessel", "POAmount"}
	rows := []domain.Row{
		row(cols, "BULK", "Cygnus", 30.0),
		row(cols, "TANKER", "Aurora", 100.0),
		row(cols, "TANKER", "Borealis", 50.0),
	}

	data, err := Format(q, testCube(), rows)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"BULK", "TANKER"}, data.Metadata.DimensionMembers["Vessel_VesselType"])
	assert.Equal(t, []interface{}{"Cygnus", "Aurora", "Borealis"}, data.Metadata.DimensionMembers["Vessel_Vessel"])
}

func TestFormat_MeasureInfoCopied(t *testing.T) {
	q := &domain.ParsedQuery{
		Select: []domain.SelectItem{
			{Kind: domain.SelectKindMeasure, Measure: "POAmount"},
			{Kind: domain.SelectKindMeasure, Measure: "POCount"},
		},
		From: "MaritimeProcurement",
	}
	cols := []string{"POAmount", "POCount"}
	rows := []domain.Row{row(cols, 180.0, int64(3))}

	data, err := Format(q, testCube(), rows)
	require.NoError(t, err)

	assert.Equal(t, domain.MeasureInfo{
		DataType:     domain.DataTypeCurrency,
		FormatString: "#,##0.00",
		Aggregation:  domain.AggregationSum,
	}, data.Metadata.MeasureInfo["POAmount"])
	assert.Equal(t, domain.MeasureInfo{
		DataType:    domain.DataTypeNumber,
		Aggregation: domain.AggregationCount,
	}, data.Metadata.MeasureInfo["POCount"])
}

func TestFormat_EmptyResult(t *testing.T) {
	q := &domain.ParsedQuery{
		Select: []domain.SelectItem{
			{Kind: domain.SelectKindDimensionLevel, Dimension: "Vessel", Level: "VesselType"},
			{Kind: domain.SelectKindMeasure, Measure: "POAmount"},
		},
		From: "MaritimeProcurement",
	}

	data, err := Format(q, testCube(), nil)
	require.NoError(t, err)

	assert.Empty(t, data.Data)
	assert.Equal(t, []interface{}{}, data.Metadata.DimensionMembers["Vessel_VesselType"])
}
