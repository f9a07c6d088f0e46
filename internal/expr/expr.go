// Package expr parses calculated-member expressions into a small arithmetic
// AST over measure tokens. Expressions are never executed; the AST exists so
// that definitions can be validated at registration time and handed to
// clients as structured metadata.
package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a node of a calculated-member expression tree.
type Expr interface {
	// String renders the node in canonical source form.
	String() string
}

// MeasureRef references a measure by name, written [Measures].[Name].
type MeasureRef struct {
	Name string
}

func (m *MeasureRef) String() string { return fmt.Sprintf("[Measures].[%s]", m.Name) }

// Number is a numeric literal.
type Number struct {
	Value float64
}

func (n *Number) String() string { return strconv.FormatFloat(n.Value, 'f', -1, 64) }

// Binary is an infix arithmetic operation: + - * /.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

// Measures returns the distinct measure names referenced by the expression,
// in first-reference order.
func Measures(e Expr) []string {
	seen := map[string]bool{}
	var names []string
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *MeasureRef:
			if !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}
		case *Binary:
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(e)
	return names
}

// Parse parses an expression of measure tokens, numeric literals, the four
// arithmetic operators, and parentheses.
func Parse(input string) (Expr, error) {
	p := &parser{input: input}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, fmt.Errorf("unexpected %q at offset %d", rest(p.input, p.pos), p.pos)
	}
	return e, nil
}

type parser struct {
	input string
	pos   int
}

func rest(s string, pos int) string {
	r := s[pos:]
	if len(r) > 10 {
		r = r[:10]
	}
	return r
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// expr := term (("+"|"-") term)*
func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		c := p.peek()
		if c != '+' && c != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: string(c), Left: left, Right: right}
	}
}

// term := factor (("*"|"/") factor)*
func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		c := p.peek()
		if c != '*' && c != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: string(c), Left: left, Right: right}
	}
}

// factor := number | measure_ref | "(" expr ")"
func (p *parser) parseFactor() (Expr, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing closing parenthesis at offset %d", p.pos)
		}
		p.pos++
		return e, nil
	case c == '[':
		return p.parseMeasureRef()
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case c == 0:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected %q at offset %d", rest(p.input, p.pos), p.pos)
	}
}

func (p *parser) parseNumber() (Expr, error) {
	start := p.pos
	for p.pos < len(p.input) && (p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '.') {
		p.pos++
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q at offset %d", p.input[start:p.pos], start)
	}
	return &Number{Value: v}, nil
}

// parseMeasureRef consumes a [Measures].[Name] token.
func (p *parser) parseMeasureRef() (Expr, error) {
	start := p.pos
	qualifier, err := p.parseBracketed()
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(qualifier, "Measures") {
		return nil, fmt.Errorf("expected [Measures] qualifier at offset %d, got [%s]", start, qualifier)
	}
	if p.peek() != '.' {
		return nil, fmt.Errorf("expected '.' after [Measures] at offset %d", p.pos)
	}
	p.pos++
	name, err := p.parseBracketed()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("empty measure name at offset %d", start)
	}
	return &MeasureRef{Name: name}, nil
}

func (p *parser) parseBracketed() (string, error) {
	if p.peek() != '[' {
		return "", fmt.Errorf("expected '[' at offset %d", p.pos)
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] != ']' {
		p.pos++
	}
	if p.pos >= len(p.input) {
		return "", fmt.Errorf("unterminated bracket at offset %d", start-1)
	}
	s := p.input[start:p.pos]
	p.pos++
	return s, nil
}
