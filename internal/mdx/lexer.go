// Package mdx tokenizes and parses the cube query language into a ParsedQuery.
// The parser is purely syntactic: it never consults a cube definition, so
// unknown dimensions or measures surface later, in the compiler.
package mdx

import (
	"strings"

	"cubedeck/internal/domain"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenIdent
	tokenBracketed
	tokenDot
	tokenComma
	tokenEquals
	tokenString
	tokenNumber
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "end of query"
	case tokenIdent:
		return "identifier"
	case tokenBracketed:
		return "bracketed identifier"
	case tokenDot:
		return "'.'"
	case tokenComma:
		return "','"
	case tokenEquals:
		return "'='"
	case tokenString:
		return "string literal"
	case tokenNumber:
		return "number literal"
	}
	return "unknown token"
}

type token struct {
	typ  tokenType
	text string
	line int
}

// lex tokenizes the full query text. Any character that cannot start a token
// fails immediately with a QuerySyntaxError.
func lex(input string) ([]token, error) {
	var toks []token
	line := 1
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '[':
			end := strings.IndexByte(input[i+1:], ']')
			if end < 0 {
				return nil, domain.ErrSyntax(line, "unterminated '[' identifier")
			}
			toks = append(toks, token{tokenBracketed, input[i+1 : i+1+end], line})
			i += end + 2
		case c == '\'':
			end := i + 1
			for end < len(input) && input[end] != '\'' && input[end] != '\n' {
				end++
			}
			if end >= len(input) || input[end] != '\'' {
				return nil, domain.ErrSyntax(line, "unterminated string literal")
			}
			toks = append(toks, token{tokenString, input[i+1 : end], line})
			i = end + 1
		case c == '.':
			toks = append(toks, token{tokenDot, ".", line})
			i++
		case c == ',':
			toks = append(toks, token{tokenComma, ",", line})
			i++
		case c == '=':
			toks = append(toks, token{tokenEquals, "=", line})
			i++
		case isDigit(c) || (c == '-' && i+1 < len(input) && isDigit(input[i+1])):
			end := i + 1
			for end < len(input) && (isDigit(input[end]) || input[end] == '.') {
				end++
			}
			toks = append(toks, token{tokenNumber, input[i:end], line})
			i = end
		case isIdentStart(c):
			end := i + 1
			for end < len(input) && isIdentPart(input[end]) {
				end++
			}
			toks = append(toks, token{tokenIdent, input[i:end], line})
			i = end
		default:
			return nil, domain.ErrSyntax(line, "unexpected character %q", string(c))
		}
	}
	toks = append(toks, token{tokenEOF, "", line})
	return toks, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
