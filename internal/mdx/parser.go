package mdx

import (
	"strconv"
	"strings"

	"cubedeck/internal/domain"
)

// Parse parses query text of the form
//
//	SELECT <select list> FROM <cube> [WHERE <predicate list>]
//
// where a select item is [Measures].[Name] or [Dimension].[Level], the cube
// reference is [Name] or a bare identifier, and a predicate is
// [Dimension].[Level] = <literal>, AND-separated. Keywords are
// case-insensitive. Any token outside the grammar fails with a
// QuerySyntaxError carrying the offending line.
func Parse(text string) (*domain.ParsedQuery, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	q := &domain.ParsedQuery{}
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		q.Select = append(q.Select, item)
		if p.peek().typ != tokenComma {
			break
		}
		p.next()
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	switch tok := p.next(); tok.typ {
	case tokenBracketed, tokenIdent:
		q.From = tok.text
	default:
		return nil, domain.ErrSyntax(tok.line, "expected cube reference, got %s", tok.typ)
	}

	if p.peekKeyword("WHERE") {
		p.next()
		for {
			pred, err := p.parsePredicate()
			if err != nil {
				return nil, err
			}
			q.Where = append(q.Where, pred)
			if !p.peekKeyword("AND") {
				break
			}
			p.next()
		}
	}

	if tok := p.next(); tok.typ != tokenEOF {
		return nil, domain.ErrSyntax(tok.line, "unexpected %s %q after query", tok.typ, tok.text)
	}
	return q, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.typ != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) peekKeyword(kw string) bool {
	tok := p.peek()
	return tok.typ == tokenIdent && strings.EqualFold(tok.text, kw)
}

func (p *parser) expectKeyword(kw string) error {
	tok := p.next()
	if tok.typ != tokenIdent || !strings.EqualFold(tok.text, kw) {
		return domain.ErrSyntax(tok.line, "expected %s, got %q", kw, tok.text)
	}
	return nil
}

// parseQualifiedPair consumes [A].[B] and returns (A, B).
func (p *parser) parseQualifiedPair() (string, string, error) {
	first := p.next()
	if first.typ != tokenBracketed {
		return "", "", domain.ErrSyntax(first.line, "expected bracketed identifier, got %q", first.text)
	}
	if tok := p.next(); tok.typ != tokenDot {
		return "", "", domain.ErrSyntax(tok.line, "expected '.' after [%s], got %q", first.text, tok.text)
	}
	second := p.next()
	if second.typ != tokenBracketed {
		return "", "", domain.ErrSyntax(second.line, "expected bracketed identifier after [%s]., got %q", first.text, second.text)
	}
	return first.text, second.text, nil
}

func (p *parser) parseSelectItem() (domain.SelectItem, error) {
	first, second, err := p.parseQualifiedPair()
	if err != nil {
		return domain.SelectItem{}, err
	}
	if strings.EqualFold(first, "Measures") {
		return domain.SelectItem{Kind: domain.SelectKindMeasure, Measure: second}, nil
	}
	return domain.SelectItem{Kind: domain.SelectKindDimensionLevel, Dimension: first, Level: second}, nil
}

func (p *parser) parsePredicate() (domain.Predicate, error) {
	dim, level, err := p.parseQualifiedPair()
	if err != nil {
		return domain.Predicate{}, err
	}
	if strings.EqualFold(dim, "Measures") {
		return domain.Predicate{}, domain.ErrSyntax(p.peek().line, "predicates apply to dimension levels, not measures")
	}
	if tok := p.next(); tok.typ != tokenEquals {
		return domain.Predicate{}, domain.ErrSyntax(tok.line, "expected '=' in predicate, got %q", tok.text)
	}

	lit := p.next()
	var value interface{}
	switch lit.typ {
	case tokenString:
		value = lit.text
	case tokenNumber:
		if strings.ContainsRune(lit.text, '.') {
			f, err := strconv.ParseFloat(lit.text, 64)
			if err != nil {
				return domain.Predicate{}, domain.ErrSyntax(lit.line, "invalid number literal %q", lit.text)
			}
			value = f
		} else {
			n, err := strconv.ParseInt(lit.text, 10, 64)
			if err != nil {
				return domain.Predicate{}, domain.ErrSyntax(lit.line, "invalid number literal %q", lit.text)
			}
			value = n
		}
	default:
		return domain.Predicate{}, domain.ErrSyntax(lit.line, "expected literal in predicate, got %s", lit.typ)
	}

	return domain.Predicate{Dimension: dim, Level: level, Values: []interface{}{value}}, nil
}
