package rdf

import (
	"fmt"
	"strings"
)

// TermType represents the type of an RDF term
type TermType byte

const (
	TermTypeNamedNode TermType = iota + 1
	TermTypeBlankNode
	TermTypeLiteral
	TermTypeDefaultGraph
)

// Term represents an RDF term (IRI, blank node, or literal).
// String returns the N-Triples form of the term, which is also the form
// stored in Cottas columns.
type Term interface {
	Type() TermType
	String() string
	Equals(other Term) bool
}

// NamedNode represents an IRI
type NamedNode struct {
	IRI string
}

func NewNamedNode(iri string) *NamedNode {
	return &NamedNode{IRI: iri}
}

func (n *NamedNode) Type() TermType {
	return TermTypeNamedNode
}

func (n *NamedNode) String() string {
	return "<" + n.IRI + ">"
}

func (n *NamedNode) Equals(other Term) bool {
	if on, ok := other.(*NamedNode); ok {
		return n.IRI == on.IRI
	}
	return false
}

// BlankNode represents a blank node
type BlankNode struct {
	ID string
}

func NewBlankNode(id string) *BlankNode {
	return &BlankNode{ID: id}
}

func (b *BlankNode) Type() TermType {
	return TermTypeBlankNode
}

func (b *BlankNode) String() string {
	return "_:" + b.ID
}

func (b *BlankNode) Equals(other Term) bool {
	if ob, ok := other.(*BlankNode); ok {
		return b.ID == ob.ID
	}
	return false
}

// Literal represents an RDF literal
type Literal struct {
	Value    string
	Language string     // for language-tagged strings
	Datatype *NamedNode // for typed literals
}

func NewLiteral(value string) *Literal {
	return &Literal{Value: value}
}

func NewLiteralWithLanguage(value, language string) *Literal {
	return &Literal{Value: value, Language: language}
}

func NewLiteralWithDatatype(value string, datatype *NamedNode) *Literal {
	return &Literal{Value: value, Datatype: datatype}
}

func (l *Literal) Type() TermType {
	return TermTypeLiteral
}

// String renders the literal with N-Triples escaping. Language tags are
// lower-cased and an explicit xsd:string datatype is omitted, so equal
// literals always render to the same text.
func (l *Literal) String() string {
	escaped := `"` + escapeString(l.Value) + `"`
	if l.Language != "" {
		return escaped + "@" + strings.ToLower(l.Language)
	}
	if l.Datatype != nil && l.Datatype.IRI != XSDString.IRI {
		return escaped + "^^" + l.Datatype.String()
	}
	return escaped
}

func (l *Literal) Equals(other Term) bool {
	if ol, ok := other.(*Literal); ok {
		return l.String() == ol.String()
	}
	return false
}

// DefaultGraph represents the default graph
type DefaultGraph struct{}

func NewDefaultGraph() *DefaultGraph {
	return &DefaultGraph{}
}

func (d *DefaultGraph) Type() TermType {
	return TermTypeDefaultGraph
}

// String is empty: the default graph has no textual form in a statement.
func (d *DefaultGraph) String() string {
	return ""
}

func (d *DefaultGraph) Equals(other Term) bool {
	_, ok := other.(*DefaultGraph)
	return ok
}

// Quad represents an RDF quad (subject, predicate, object, graph)
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

func NewQuad(subject, predicate, object, graph Term) *Quad {
	if graph == nil {
		graph = NewDefaultGraph()
	}
	return &Quad{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
		Graph:     graph,
	}
}

// Statement renders the quad in N-Triples term syntax.
func (q *Quad) Statement() Statement {
	return Statement{
		S: q.Subject.String(),
		P: q.Predicate.String(),
		O: q.Object.String(),
		G: q.Graph.String(),
	}
}

func (q *Quad) String() string {
	return q.Statement().String()
}

// Statement is a quad whose terms are already in N-Triples syntax.
// G is empty for the default graph.
type Statement struct {
	S, P, O, G string
}

// InDefaultGraph reports whether the statement carries no graph name.
func (s Statement) InDefaultGraph() bool {
	return s.G == ""
}

// String renders the statement as one N-Quads line without the newline.
func (s Statement) String() string {
	if s.InDefaultGraph() {
		return fmt.Sprintf("%s %s %s .", s.S, s.P, s.O)
	}
	return fmt.Sprintf("%s %s %s %s .", s.S, s.P, s.O, s.G)
}

// Helper functions for common XSD datatypes
var (
	XSDString  = NewNamedNode("http://www.w3.org/2001/XMLSchema#string")
	XSDInteger = NewNamedNode("http://www.w3.org/2001/XMLSchema#integer")
	XSDDecimal = NewNamedNode("http://www.w3.org/2001/XMLSchema#decimal")
	XSDDouble  = NewNamedNode("http://www.w3.org/2001/XMLSchema#double")
	XSDBoolean = NewNamedNode("http://www.w3.org/2001/XMLSchema#boolean")
)

// RDFType is the IRI the Turtle keyword "a" abbreviates.
var RDFType = NewNamedNode("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")

// escapeString escapes a literal value for N-Triples/N-Quads output:
// named escapes for \t \b \n \r \f \" \\ and \uXXXX for other control
// characters and the noncharacters U+FFFE and U+FFFF.
func escapeString(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\t':
			builder.WriteString(`\t`)
		case '\b':
			builder.WriteString(`\b`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\f':
			builder.WriteString(`\f`)
		case '"':
			builder.WriteString(`\"`)
		case '\\':
			builder.WriteString(`\\`)
		default:
			if r < 0x20 || r == 0x7F || r == 0xFFFE || r == 0xFFFF {
				fmt.Fprintf(&builder, `\u%04X`, r)
			} else {
				builder.WriteRune(r)
			}
		}
	}

	return builder.String()
}
