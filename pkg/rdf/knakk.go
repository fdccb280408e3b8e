package rdf

import (
	"errors"
	"fmt"
	"io"
	"strings"

	knakk "github.com/knakk/rdf"
)

// decodeTriples streams Turtle or RDF/XML through the knakk decoder. Every
// triple lands in the default graph.
func decodeTriples(r io.Reader, format knakk.Format, fn func(*Quad) error) error {
	dec := knakk.NewTripleDecoder(r, format)
	for {
		t, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSyntax, err)
		}

		s, err := fromKnakk(t.Subj)
		if err != nil {
			return err
		}
		p, err := fromKnakk(t.Pred)
		if err != nil {
			return err
		}
		o, err := fromKnakk(t.Obj)
		if err != nil {
			return err
		}
		if err := fn(NewQuad(s, p, o, NewDefaultGraph())); err != nil {
			return err
		}
	}
}

// fromKnakk converts a decoded term into the local term model so that every
// reader renders terms identically.
func fromKnakk(t knakk.Term) (Term, error) {
	switch v := t.(type) {
	case knakk.IRI:
		return NewNamedNode(trimIRI(v.String())), nil
	case knakk.Blank:
		return NewBlankNode(strings.TrimPrefix(v.String(), "_:")), nil
	case knakk.Literal:
		if lang := v.Lang(); lang != "" {
			return NewLiteralWithLanguage(v.String(), lang), nil
		}
		if dt := trimIRI(v.DataType.String()); dt != "" {
			return NewLiteralWithDatatype(v.String(), NewNamedNode(dt)), nil
		}
		return NewLiteral(v.String()), nil
	default:
		return nil, fmt.Errorf("%w: unexpected term %T", ErrSyntax, t)
	}
}

func trimIRI(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
}
