// Package cubedef loads declarative cube definitions from YAML documents.
package cubedef

import "cubedeck/internal/domain"

// KindCubeDefinition is the accepted document kind.
const KindCubeDefinition = "CubeDefinition"

// Document is the generic envelope parsed first to determine Kind.
type Document struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
}

// CubeDoc declares one cube.
type CubeDoc struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Cube       CubeSpec `yaml:"cube"`
}

// CubeSpec mirrors domain.CubeDefinition in YAML form.
type CubeSpec struct {
	Name              string                 `yaml:"name"`
	Description       string                 `yaml:"description,omitempty"`
	FactTable         string                 `yaml:"fact_table"`
	Dimensions        []DimensionSpec        `yaml:"dimensions"`
	Measures          []MeasureSpec          `yaml:"measures"`
	CalculatedMembers []CalculatedMemberSpec `yaml:"calculated_members,omitempty"`
}

// DimensionSpec describes one dimension and its hierarchies.
type DimensionSpec struct {
	Name        string          `yaml:"name"`
	Table       string          `yaml:"table"`
	KeyColumn   string          `yaml:"key_column"`
	NameColumn  string          `yaml:"name_column,omitempty"`
	Hierarchies []HierarchySpec `yaml:"hierarchies"`
	Attributes  []AttributeSpec `yaml:"attributes,omitempty"`
}

// HierarchySpec describes a drill-down path, coarsest level first.
type HierarchySpec struct {
	Name   string      `yaml:"name"`
	Levels []LevelSpec `yaml:"levels"`
}

// LevelSpec maps a level name to its column.
type LevelSpec struct {
	Name    string `yaml:"name"`
	Column  string `yaml:"column"`
	OrderBy string `yaml:"order_by,omitempty"`
}

// AttributeSpec describes a non-hierarchical dimension column.
type AttributeSpec struct {
	Name   string `yaml:"name"`
	Column string `yaml:"column"`
}

// MeasureSpec describes one measure.
type MeasureSpec struct {
	Name         string `yaml:"name"`
	Column       string `yaml:"column"`
	Aggregation  string `yaml:"aggregation"`
	DataType     string `yaml:"data_type"`
	FormatString string `yaml:"format_string,omitempty"`
}

// CalculatedMemberSpec describes one calculated member.
type CalculatedMemberSpec struct {
	Name         string `yaml:"name"`
	Expression   string `yaml:"expression"`
	DataType     string `yaml:"data_type"`
	FormatString string `yaml:"format_string,omitempty"`
}

// toDomain converts the YAML spec to the domain definition.
func (s *CubeSpec) toDomain() *domain.CubeDefinition {
	def := &domain.CubeDefinition{
		Name:        s.Name,
		Description: s.Description,
		FactTable:   s.FactTable,
	}
	for _, d := range s.Dimensions {
		dim := domain.Dimension{
			Name:       d.Name,
			Table:      d.Table,
			KeyColumn:  d.KeyColumn,
			NameColumn: d.NameColumn,
		}
		for _, h := range d.Hierarchies {
			hier := domain.Hierarchy{Name: h.Name}
			for _, l := range h.Levels {
				hier.Levels = append(hier.Levels, domain.HierarchyLevel{
					Name: l.Name, Column: l.Column, OrderBy: l.OrderBy,
				})
			}
			dim.Hierarchies = append(dim.Hierarchies, hier)
		}
		for _, a := range d.Attributes {
			dim.Attributes = append(dim.Attributes, domain.DimensionAttribute{Name: a.Name, Column: a.Column})
		}
		def.Dimensions = append(def.Dimensions, dim)
	}
	for _, m := range s.Measures {
		def.Measures = append(def.Measures, domain.Measure{
			Name:         m.Name,
			Column:       m.Column,
			Aggregation:  m.Aggregation,
			DataType:     m.DataType,
			FormatString: m.FormatString,
		})
	}
	for _, cm := range s.CalculatedMembers {
		def.CalculatedMembers = append(def.CalculatedMembers, domain.CalculatedMember{
			Name:         cm.Name,
			Expression:   cm.Expression,
			DataType:     cm.DataType,
			FormatString: cm.FormatString,
		})
	}
	return def
}
