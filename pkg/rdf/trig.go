package rdf

import (
	"fmt"
	"io"
)

// TriGParser parses TriG (Turtle plus named graph blocks). Triples outside
// any block, and triples inside a bare { } block, belong to the default graph.
type TriGParser struct {
	lex *lexer
}

// NewTriGParser creates a new TriG parser
func NewTriGParser(input string) *TriGParser {
	return &TriGParser{lex: newLexer(input)}
}

// ReadTriG parses a whole TriG document from r.
func ReadTriG(r io.Reader, fn func(*Quad) error) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return NewTriGParser(string(data)).Each(fn)
}

// Each calls fn for every quad in the document, stopping at the first error.
func (p *TriGParser) Each(fn func(*Quad) error) error {
	l := p.lex
	for {
		l.skipWhitespaceAndComments()
		if l.eof() {
			return nil
		}

		if ok, err := l.directive(); err != nil {
			return err
		} else if ok {
			continue
		}

		// GRAPH <iri> { triples }
		if l.matchKeyword("GRAPH") {
			l.pos += len("GRAPH")
			graph, err := l.parseTerm()
			if err != nil {
				return fmt.Errorf("graph name: %w", err)
			}
			if graph.Type() == TermTypeLiteral {
				return l.errorf("graph name must be an IRI or blank node")
			}
			if err := p.parseGraphBlock(graph, fn); err != nil {
				return err
			}
			continue
		}

		// { triples }
		if l.peek() == '{' {
			if err := p.parseGraphBlock(NewDefaultGraph(), fn); err != nil {
				return err
			}
			continue
		}

		// Either "<g> { triples }" or a triple block in the default graph.
		subject, err := p.parseSubject(NewDefaultGraph(), fn)
		if err != nil {
			return err
		}
		l.skipWhitespaceAndComments()
		if l.peek() == '{' {
			if subject.Type() == TermTypeLiteral {
				return l.errorf("graph name must be an IRI or blank node")
			}
			if err := p.parseGraphBlock(subject, fn); err != nil {
				return err
			}
			continue
		}

		if err := p.parsePredicateObjectList(subject, NewDefaultGraph(), fn); err != nil {
			return err
		}
		if err := l.expect('.'); err != nil {
			return err
		}
	}
}

// parseGraphBlock parses { triples } and assigns them to graph.
func (p *TriGParser) parseGraphBlock(graph Term, fn func(*Quad) error) error {
	l := p.lex
	if err := l.expect('{'); err != nil {
		return err
	}

	for {
		l.skipWhitespaceAndComments()
		if l.eof() {
			return l.errorf("unexpected end of input, expected '}'")
		}
		if l.peek() == '}' {
			l.pos++ // skip '}'
			return nil
		}

		subject, err := p.parseSubject(graph, fn)
		if err != nil {
			return err
		}
		if err := p.parsePredicateObjectList(subject, graph, fn); err != nil {
			return err
		}

		// The last statement in a block may omit its '.'.
		l.skipWhitespaceAndComments()
		switch l.peek() {
		case '.':
			l.pos++
		case '}':
		default:
			return l.errorf("expected '.' or '}'")
		}
	}
}

// parsePredicateObjectList parses "p o1, o2 ; p2 o3" for subject.
func (p *TriGParser) parsePredicateObjectList(subject, graph Term, fn func(*Quad) error) error {
	l := p.lex
	for {
		predicate, err := p.parseVerb()
		if err != nil {
			return err
		}

		for {
			object, err := p.parseObject(graph, fn)
			if err != nil {
				return err
			}
			if err := fn(NewQuad(subject, predicate, object, graph)); err != nil {
				return err
			}

			l.skipWhitespaceAndComments()
			if l.peek() != ',' {
				break
			}
			l.pos++ // skip ','
		}

		if l.peek() != ';' {
			return nil
		}
		// Repeated and trailing ';' are allowed.
		for l.peek() == ';' {
			l.pos++
			l.skipWhitespaceAndComments()
		}
		switch l.peek() {
		case '.', ']', '}', 0:
			return nil
		}
	}
}

// parseVerb parses a predicate, accepting the keyword "a" for rdf:type.
func (p *TriGParser) parseVerb() (Term, error) {
	l := p.lex
	l.skipWhitespaceAndComments()
	if l.matchWord("a") {
		l.pos++
		return RDFType, nil
	}

	predicate, err := l.parseTerm()
	if err != nil {
		return nil, fmt.Errorf("predicate: %w", err)
	}
	if predicate.Type() != TermTypeNamedNode {
		return nil, l.errorf("predicate must be an IRI")
	}
	return predicate, nil
}

// parseSubject parses a subject, which may be a blank node property list
// or a collection.
func (p *TriGParser) parseSubject(graph Term, fn func(*Quad) error) (Term, error) {
	term, err := p.parseNode(graph, fn)
	if err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}
	return term, nil
}

// parseObject parses an object, which may be a blank node property list or
// a collection.
func (p *TriGParser) parseObject(graph Term, fn func(*Quad) error) (Term, error) {
	term, err := p.parseNode(graph, fn)
	if err != nil {
		return nil, fmt.Errorf("object: %w", err)
	}
	return term, nil
}

func (p *TriGParser) parseNode(graph Term, fn func(*Quad) error) (Term, error) {
	l := p.lex
	l.skipWhitespaceAndComments()
	switch l.peek() {
	case '[':
		return p.parseBlankNodePropertyList(graph, fn)
	case '(':
		return p.parseCollection(graph, fn)
	}
	return l.parseTerm()
}

// parseBlankNodePropertyList parses [ p o ; ... ], or [] for a fresh node.
func (p *TriGParser) parseBlankNodePropertyList(graph Term, fn func(*Quad) error) (Term, error) {
	l := p.lex
	l.pos++ // skip '['
	node := l.freshBlankNode()

	l.skipWhitespaceAndComments()
	if l.peek() == ']' {
		l.pos++
		return node, nil
	}

	if err := p.parsePredicateObjectList(node, graph, fn); err != nil {
		return nil, err
	}
	if err := l.expect(']'); err != nil {
		return nil, err
	}
	return node, nil
}

// parseCollection parses ( o1 o2 ... ) into an rdf:first/rdf:rest list.
func (p *TriGParser) parseCollection(graph Term, fn func(*Quad) error) (Term, error) {
	l := p.lex
	l.pos++ // skip '('

	var head, prev Term = rdfNil, nil
	for {
		l.skipWhitespaceAndComments()
		if l.eof() {
			return nil, l.errorf("unexpected end of input, expected ')'")
		}
		if l.peek() == ')' {
			l.pos++
			break
		}

		item, err := p.parseObject(graph, fn)
		if err != nil {
			return nil, err
		}

		cell := l.freshBlankNode()
		if prev == nil {
			head = cell
		} else if err := fn(NewQuad(prev, rdfRest, cell, graph)); err != nil {
			return nil, err
		}
		if err := fn(NewQuad(cell, rdfFirst, item, graph)); err != nil {
			return nil, err
		}
		prev = cell
	}

	if prev != nil {
		if err := fn(NewQuad(prev, rdfRest, rdfNil, graph)); err != nil {
			return nil, err
		}
	}
	return head, nil
}

var (
	rdfFirst = NewNamedNode("http://www.w3.org/1999/02/22-rdf-syntax-ns#first")
	rdfRest  = NewNamedNode("http://www.w3.org/1999/02/22-rdf-syntax-ns#rest")
	rdfNil   = NewNamedNode("http://www.w3.org/1999/02/22-rdf-syntax-ns#nil")
)
