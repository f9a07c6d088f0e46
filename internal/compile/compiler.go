// Package compile resolves a parsed query against a cube definition and
// renders a parameterized aggregate SQL statement.
//
// All identifiers in the generated text come from the validated cube
// definition; caller-supplied input only ever appears as bound parameters.
package compile

import (
	"fmt"
	"strings"

	"cubedeck/internal/domain"
)

// Compiled is a rendered SQL statement with its bind parameters.
type Compiled struct {
	SQL    string
	Params []interface{}
}

// Compile validates every reference of q against the cube schema and renders
// the statement:
//
//	SELECT <dim cols> <aggregates> FROM <fact> fact <joins>
//	[WHERE ...] [GROUP BY ...] [ORDER BY ...]
//
// Dimension columns precede aggregates so result rows carry dimension values
// first. Each dimension is joined at most once regardless of how many of its
// levels appear. Queries without dimension-level items omit GROUP BY and
// ORDER BY.
func Compile(q *domain.ParsedQuery, cube *domain.CubeDefinition) (*Compiled, error) {
	if len(q.Select) == 0 {
		return nil, domain.ErrValidation("query has no select items")
	}

	var (
		dimCols     []string
		measureCols []string
		joins       []string
		groupBy     []string
		orderBy     []string
		where       []string
		params      []interface{}
	)
	joined := map[string]bool{}

	addJoin := func(d *domain.Dimension) {
		if joined[d.Name] {
			return
		}
		joined[d.Name] = true
		joins = append(joins, fmt.Sprintf("LEFT JOIN %s %s ON fact.%s = %s.%s",
			d.Table, d.Alias(), d.FactKeyColumn(), d.Alias(), d.KeyColumn))
	}

	for _, item := range q.Select {
		switch item.Kind {
		case domain.SelectKindMeasure:
			m, ok := cube.Measure(item.Measure)
			if !ok {
				return nil, domain.ErrSemanticIn(domain.UnknownMeasure, item.Measure, cube.Name)
			}
			measureCols = append(measureCols, fmt.Sprintf("%s AS %s", aggregate(m), m.Name))
		case domain.SelectKindDimensionLevel:
			d, level, err := resolveLevel(cube, item.Dimension, item.Level)
			if err != nil {
				return nil, err
			}
			addJoin(d)
			dimCols = append(dimCols, fmt.Sprintf("%s.%s AS %s_%s", d.Alias(), level.Column, d.Name, level.Name))
			groupBy = append(groupBy, fmt.Sprintf("%s.%s", d.Alias(), level.Column))
			// A sort-column override must be grouped too, or strict engines
			// reject the ORDER BY.
			if oc := level.OrderColumn(); oc != level.Column {
				groupBy = append(groupBy, fmt.Sprintf("%s.%s", d.Alias(), oc))
			}
			orderBy = append(orderBy, fmt.Sprintf("%s.%s ASC", d.Alias(), level.OrderColumn()))
		default:
			return nil, domain.ErrValidation("unknown select item kind %q", item.Kind)
		}
	}

	for _, pred := range q.Where {
		d, level, err := resolveLevel(cube, pred.Dimension, pred.Level)
		if err != nil {
			return nil, err
		}
		if len(pred.Values) == 0 {
			return nil, domain.ErrValidation("predicate on %s.%s has no values", pred.Dimension, pred.Level)
		}
		addJoin(d)
		col := fmt.Sprintf("%s.%s", d.Alias(), level.Column)
		if len(pred.Values) == 1 {
			where = append(where, col+" = ?")
		} else {
			where = append(where, fmt.Sprintf("%s IN (%s)", col, placeholders(len(pred.Values))))
		}
		params = append(params, pred.Values...)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(append(append([]string{}, dimCols...), measureCols...), ", "))
	b.WriteString(" FROM ")
	b.WriteString(cube.FactTable)
	b.WriteString(" fact")
	for _, j := range joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	if len(groupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(groupBy, ", "))
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(orderBy, ", "))
	}

	return &Compiled{SQL: b.String(), Params: params}, nil
}

// resolveLevel finds the dimension and searches all of its hierarchies for
// the named level.
func resolveLevel(cube *domain.CubeDefinition, dimName, levelName string) (*domain.Dimension, *domain.HierarchyLevel, error) {
	d, ok := cube.Dimension(dimName)
	if !ok {
		return nil, nil, domain.ErrSemanticIn(domain.UnknownDimension, dimName, cube.Name)
	}
	level, ok := d.FindLevel(levelName)
	if !ok {
		return nil, nil, domain.ErrSemanticIn(domain.UnknownLevel, levelName, dimName)
	}
	return d, level, nil
}

func aggregate(m *domain.Measure) string {
	if m.Aggregation == domain.AggregationCountDistinct {
		return fmt.Sprintf("COUNT(DISTINCT fact.%s)", m.Column)
	}
	return fmt.Sprintf("%s(fact.%s)", strings.ToUpper(m.Aggregation), m.Column)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
