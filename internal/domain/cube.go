package domain

import (
	"strings"

	"cubedeck/internal/expr"
)

const (
	MaxCubeNameLength = 255

	AggregationSum           = "sum"
	AggregationAvg           = "avg"
	AggregationCount         = "count"
	AggregationMin           = "min"
	AggregationMax           = "max"
	AggregationCountDistinct = "count_distinct"

	DataTypeNumber     = "number"
	DataTypeCurrency   = "currency"
	DataTypePercentage = "percentage"
)

// CubeDefinition describes one star-schema cube: a fact table, its dimensions,
// its measures, and any calculated members. Definitions are owned by a Catalog
// and treated as immutable once registered.
type CubeDefinition struct {
	Name              string
	Description       string
	FactTable         string
	Dimensions        []Dimension
	Measures          []Measure
	CalculatedMembers []CalculatedMember
}

// Dimension is a categorical axis of a cube backed by a dimension table.
// The fact table carries a foreign key column named <lowercase(name)>_key
// referencing KeyColumn.
type Dimension struct {
	Name        string
	Table       string
	KeyColumn   string
	NameColumn  string
	Hierarchies []Hierarchy
	Attributes  []DimensionAttribute
}

// DimensionAttribute is a non-hierarchical descriptive column.
type DimensionAttribute struct {
	Name   string
	Column string
}

// Hierarchy is an ordered drill-down path, coarsest level first.
type Hierarchy struct {
	Name   string
	Levels []HierarchyLevel
}

// HierarchyLevel maps a level name to a dimension-table column. OrderBy
// overrides the sort column; empty means sort on Column.
type HierarchyLevel struct {
	Name    string
	Column  string
	OrderBy string
}

// OrderColumn returns the column this level sorts on.
func (l *HierarchyLevel) OrderColumn() string {
	if l.OrderBy != "" {
		return l.OrderBy
	}
	return l.Column
}

// Measure is a numeric fact column with a declared aggregation.
type Measure struct {
	Name         string
	Column       string
	Aggregation  string
	DataType     string
	FormatString string
}

// CalculatedMember is a named arithmetic expression over measure tokens.
// The expression is parsed into AST at registration time and stored as
// metadata only; the engine never evaluates it.
type CalculatedMember struct {
	Name         string
	Expression   string
	DataType     string
	FormatString string
	AST          expr.Expr
}

// FactKeyColumn returns the fact-table foreign key column for the dimension,
// following the <lowercase(name)>_key convention.
func (d *Dimension) FactKeyColumn() string {
	return strings.ToLower(d.Name) + "_key"
}

// Alias returns the stable SQL alias used when joining the dimension table.
func (d *Dimension) Alias() string {
	return "d_" + strings.ToLower(d.Name)
}

// Hierarchy returns the hierarchy with the given name.
func (d *Dimension) Hierarchy(name string) (*Hierarchy, bool) {
	for i := range d.Hierarchies {
		if d.Hierarchies[i].Name == name {
			return &d.Hierarchies[i], true
		}
	}
	return nil, false
}

// FindLevel searches all hierarchies of the dimension for a level with the
// given name and returns the first match.
func (d *Dimension) FindLevel(name string) (*HierarchyLevel, bool) {
	for i := range d.Hierarchies {
		for j := range d.Hierarchies[i].Levels {
			if d.Hierarchies[i].Levels[j].Name == name {
				return &d.Hierarchies[i].Levels[j], true
			}
		}
	}
	return nil, false
}

// FinestLevel returns the finest-grained level of the dimension's first
// hierarchy. Valid only on a registered (validated) dimension.
func (d *Dimension) FinestLevel() *HierarchyLevel {
	levels := d.Hierarchies[0].Levels
	return &levels[len(levels)-1]
}

// Dimension returns the dimension with the given name.
func (c *CubeDefinition) Dimension(name string) (*Dimension, bool) {
	for i := range c.Dimensions {
		if c.Dimensions[i].Name == name {
			return &c.Dimensions[i], true
		}
	}
	return nil, false
}

// Measure returns the measure with the given name.
func (c *CubeDefinition) Measure(name string) (*Measure, bool) {
	for i := range c.Measures {
		if c.Measures[i].Name == name {
			return &c.Measures[i], true
		}
	}
	return nil, false
}

// Tables returns the fact table followed by each dimension table, de-duplicated
// in definition order.
func (c *CubeDefinition) Tables() []string {
	seen := map[string]bool{c.FactTable: true}
	tables := []string{c.FactTable}
	for i := range c.Dimensions {
		t := c.Dimensions[i].Table
		if !seen[t] {
			seen[t] = true
			tables = append(tables, t)
		}
	}
	return tables
}

var validAggregations = map[string]bool{
	AggregationSum:           true,
	AggregationAvg:           true,
	AggregationCount:         true,
	AggregationMin:           true,
	AggregationMax:           true,
	AggregationCountDistinct: true,
}

var validDataTypes = map[string]bool{
	DataTypeNumber:     true,
	DataTypeCurrency:   true,
	DataTypePercentage: true,
}

// Validate checks that the definition is internally consistent: required
// fields present, unique dimension/measure/level names, at least one hierarchy
// per dimension and one level per hierarchy, known aggregation and data types,
// and parseable calculated-member expressions.
func (c *CubeDefinition) Validate() error {
	if c.Name == "" {
		return ErrSchema("cube name is required")
	}
	if len(c.Name) > MaxCubeNameLength {
		return ErrSchema("cube name must be <= %d characters", MaxCubeNameLength)
	}
	if c.FactTable == "" {
		return ErrSchema("cube %q: fact table is required", c.Name)
	}

	names := map[string]string{}
	for i := range c.Dimensions {
		d := &c.Dimensions[i]
		if d.Name == "" {
			return ErrSchema("cube %q: dimension name is required", c.Name)
		}
		if prev, ok := names[d.Name]; ok {
			return ErrSchema("cube %q: name %q used by both %s and dimension", c.Name, d.Name, prev)
		}
		names[d.Name] = "dimension"
		if err := d.validate(c.Name); err != nil {
			return err
		}
	}
	for i := range c.Measures {
		m := &c.Measures[i]
		if m.Name == "" {
			return ErrSchema("cube %q: measure name is required", c.Name)
		}
		if prev, ok := names[m.Name]; ok {
			return ErrSchema("cube %q: name %q used by both %s and measure", c.Name, m.Name, prev)
		}
		names[m.Name] = "measure"
		if m.Column == "" {
			return ErrSchema("cube %q: measure %q has no column", c.Name, m.Name)
		}
		if !validAggregations[m.Aggregation] {
			return ErrSchema("cube %q: measure %q has unknown aggregation %q", c.Name, m.Name, m.Aggregation)
		}
		if !validDataTypes[m.DataType] {
			return ErrSchema("cube %q: measure %q has unknown data type %q", c.Name, m.Name, m.DataType)
		}
	}
	for i := range c.CalculatedMembers {
		cm := &c.CalculatedMembers[i]
		if cm.Name == "" {
			return ErrSchema("cube %q: calculated member name is required", c.Name)
		}
		ast, err := expr.Parse(cm.Expression)
		if err != nil {
			return ErrSchema("cube %q: calculated member %q: %v", c.Name, cm.Name, err)
		}
		cm.AST = ast
	}
	return nil
}

func (d *Dimension) validate(cubeName string) error {
	if d.Table == "" {
		return ErrSchema("cube %q: dimension %q has no table", cubeName, d.Name)
	}
	if d.KeyColumn == "" {
		return ErrSchema("cube %q: dimension %q has no key column", cubeName, d.Name)
	}
	if len(d.Hierarchies) == 0 {
		return ErrSchema("cube %q: dimension %q has no hierarchies", cubeName, d.Name)
	}
	for i := range d.Hierarchies {
		h := &d.Hierarchies[i]
		if len(h.Levels) == 0 {
			return ErrSchema("cube %q: hierarchy %q of dimension %q has no levels", cubeName, h.Name, d.Name)
		}
		seen := map[string]bool{}
		for j := range h.Levels {
			l := &h.Levels[j]
			if l.Name == "" || l.Column == "" {
				return ErrSchema("cube %q: hierarchy %q of dimension %q has a level without name or column", cubeName, h.Name, d.Name)
			}
			if seen[l.Name] {
				return ErrSchema("cube %q: hierarchy %q of dimension %q has duplicate level %q", cubeName, h.Name, d.Name, l.Name)
			}
			seen[l.Name] = true
		}
	}
	return nil
}
