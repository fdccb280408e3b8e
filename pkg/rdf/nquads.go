package rdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// NQuadsReader reads N-Quads (and therefore N-Triples) one line at a time.
// N-Quads format: <subject> <predicate> <object> [<graph>] .
// Statements without a graph term belong to the default graph. PREFIX and
// BASE lines are accepted as an extension.
type NQuadsReader struct {
	r    *bufio.Reader
	lex  *lexer
	line int
}

// NewNQuadsReader creates a new N-Quads reader
func NewNQuadsReader(r io.Reader) *NQuadsReader {
	return &NQuadsReader{
		r:   bufio.NewReader(r),
		lex: newLexer(""),
	}
}

// Each calls fn for every quad in the input, stopping at the first error.
func (p *NQuadsReader) Each(fn func(*Quad) error) error {
	for {
		text, err := p.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("error reading input: %w", err)
		}
		if text != "" {
			p.line++
			p.lex.reset(text, p.line)

			quad, perr := p.parseLine()
			if perr != nil {
				return perr
			}
			if quad != nil {
				if ferr := fn(quad); ferr != nil {
					return ferr
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// parseLine parses one line, returning nil for blank lines, comments and
// directives.
func (p *NQuadsReader) parseLine() (*Quad, error) {
	l := p.lex
	l.skipWhitespaceAndComments()
	if l.eof() {
		return nil, nil
	}

	if ok, err := l.directive(); ok || err != nil {
		return nil, err
	}

	quad, err := p.parseQuad()
	if err != nil {
		return nil, err
	}

	l.skipWhitespaceAndComments()
	if !l.eof() {
		return nil, l.errorf("unexpected content after '.'")
	}
	return quad, nil
}

// parseQuad parses a quad: subject predicate object [graph] .
func (p *NQuadsReader) parseQuad() (*Quad, error) {
	l := p.lex

	subject, err := l.parseTerm()
	if err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}
	if subject.Type() == TermTypeLiteral {
		return nil, l.errorf("literal in subject position")
	}

	predicate, err := l.parseTerm()
	if err != nil {
		return nil, fmt.Errorf("predicate: %w", err)
	}
	if predicate.Type() != TermTypeNamedNode {
		return nil, l.errorf("predicate must be an IRI")
	}

	object, err := l.parseTerm()
	if err != nil {
		return nil, fmt.Errorf("object: %w", err)
	}

	// Optional graph (4th position)
	var graph Term = NewDefaultGraph()
	l.skipWhitespaceAndComments()
	if ch := l.peek(); ch == '<' || ch == '_' {
		graph, err = l.parseTerm()
		if err != nil {
			return nil, fmt.Errorf("graph: %w", err)
		}
	}

	if err := l.expect('.'); err != nil {
		return nil, err
	}
	return NewQuad(subject, predicate, object, graph), nil
}
