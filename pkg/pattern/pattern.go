// Package pattern parses triple and quad patterns written as whitespace
// separated terms, e.g. `?s <http://example.org/knows> ?o`.
//
// Subject and predicate never contain whitespace. The object may (quoted
// literals), so it is recovered as the raw text between the predicate and an
// optional trailing graph term rather than by counting tokens.
package pattern

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrMalformedPattern = errors.New("malformed pattern")
	ErrInvalidArity     = errors.New("pattern must have 3 or 4 terms")
)

// Pattern is an ordered list of 3 (triple) or 4 (quad) terms.
type Pattern struct {
	terms []string
}

// New builds a pattern from explicit terms.
func New(terms ...string) (*Pattern, error) {
	if len(terms) != 3 && len(terms) != 4 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidArity, len(terms))
	}
	return &Pattern{terms: append([]string(nil), terms...)}, nil
}

// Terms returns a copy of the pattern's terms in position order.
func (p *Pattern) Terms() []string {
	return append([]string(nil), p.terms...)
}

// Len returns the number of terms.
func (p *Pattern) Len() int {
	return len(p.terms)
}

// IsQuad reports whether the pattern carries a graph term.
func (p *Pattern) IsQuad() bool {
	return len(p.terms) == 4
}

// Bound reports, per position, whether the term is a bound value.
func (p *Pattern) Bound() [4]bool {
	var bound [4]bool
	for i, term := range p.terms {
		bound[i] = !IsVariable(term)
	}
	return bound
}

func (p *Pattern) String() string {
	return strings.Join(p.terms, " ")
}

// IsVariable reports whether term is a variable (`?x` or `$x`).
func IsVariable(term string) bool {
	return strings.HasPrefix(term, "?") || strings.HasPrefix(term, "$")
}

// looksLikeGraph reports whether a trailing token can be read as a graph term.
func looksLikeGraph(token string) bool {
	return strings.HasPrefix(token, "<") || IsVariable(token)
}

type span struct {
	start, end int
}

// tokenize splits input on Unicode whitespace, keeping byte offsets.
func tokenize(input string) []span {
	var spans []span
	start := -1
	for i, r := range input {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(input)})
	}
	return spans
}

// Parse reads a triple or quad pattern.
//
// The first two tokens are the subject and predicate. Everything after the
// predicate is the object, unless there are more than three tokens and the
// last one starts with '<', '?' or '$', in which case that token is the graph.
// A literal object whose final word looks like an IRI or variable is read as
// object plus graph; that ambiguity is inherent to the syntax.
func Parse(input string) (*Pattern, error) {
	if !utf8.ValidString(input) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrMalformedPattern)
	}

	spans := tokenize(input)
	if len(spans) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 terms, got %d", ErrMalformedPattern, len(spans))
	}

	subject := input[spans[0].start:spans[0].end]
	predicate := input[spans[1].start:spans[1].end]

	rest := spans[2:]
	objectEnd := rest[len(rest)-1].end
	var graph string

	if len(spans) > 3 {
		last := rest[len(rest)-1]
		if token := input[last.start:last.end]; looksLikeGraph(token) {
			graph = token
			objectEnd = rest[len(rest)-2].end
		}
	}

	object := strings.TrimSpace(input[rest[0].start:objectEnd])
	if graph == "" {
		return &Pattern{terms: []string{subject, predicate, object}}, nil
	}
	return &Pattern{terms: []string{subject, predicate, object, graph}}, nil
}
