package domain

const (
	SelectKindMeasure        = "MEASURE"
	SelectKindDimensionLevel = "DIMENSION_LEVEL"
)

// SelectItem is one entry of a query select list: either a measure reference
// or a dimension-level reference.
type SelectItem struct {
	Kind      string
	Measure   string
	Dimension string
	Level     string
}

// Predicate filters on a dimension-level column. The parser produces a single
// value; slice-and-dice produces several, compiled to an IN list. Values are
// always bound as parameters, never inlined.
type Predicate struct {
	Dimension string
	Level     string
	Values    []interface{}
}

// ParsedQuery is the AST produced by the query parser. It is purely
// syntactic; resolution against a CubeDefinition happens in the compiler.
type ParsedQuery struct {
	Select []SelectItem
	From   string
	Where  []Predicate
}

// DimensionItems returns the dimension-level select items in select-list order.
func (q *ParsedQuery) DimensionItems() []SelectItem {
	items := make([]SelectItem, 0, len(q.Select))
	for _, it := range q.Select {
		if it.Kind == SelectKindDimensionLevel {
			items = append(items, it)
		}
	}
	return items
}

// MeasureItems returns the measure select items in select-list order.
func (q *ParsedQuery) MeasureItems() []SelectItem {
	items := make([]SelectItem, 0, len(q.Select))
	for _, it := range q.Select {
		if it.Kind == SelectKindMeasure {
			items = append(items, it)
		}
	}
	return items
}
