package rdf

import (
	"errors"
	"testing"
)

func TestTriGParser_SimpleDefaultGraph(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:alice ex:name "Alice" .`

	quads := collect(t, NewTriGParser(input).Each)
	if len(quads) != 1 {
		t.Fatalf("Expected 1 quad, got %d", len(quads))
	}

	quad := quads[0]
	if quad.S != "<http://example.org/alice>" {
		t.Errorf("Wrong subject: %s", quad.S)
	}
	if quad.P != "<http://example.org/name>" {
		t.Errorf("Wrong predicate: %s", quad.P)
	}
	if !quad.InDefaultGraph() {
		t.Errorf("Expected default graph, got %s", quad.G)
	}
}

func TestTriGParser_NamedGraph(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .

GRAPH ex:graph1 {
  ex:bob ex:name "Bob" .
  ex:bob ex:age 30
}`

	quads := collect(t, NewTriGParser(input).Each)
	if len(quads) != 2 {
		t.Fatalf("Expected 2 quads, got %d", len(quads))
	}
	for i, quad := range quads {
		if quad.G != "<http://example.org/graph1>" {
			t.Errorf("Quad %d: wrong graph: %s", i, quad.G)
		}
	}
	if quads[1].O != `"30"^^<http://www.w3.org/2001/XMLSchema#integer>` {
		t.Errorf("Wrong numeric object: %s", quads[1].O)
	}
}

func TestTriGParser_MixedDefaultAndNamed(t *testing.T) {
	input := `PREFIX ex: <http://example.org/>

ex:alice ex:name "Alice" .

ex:graph1 {
  ex:bob ex:name "Bob" .
}

{ ex:charlie ex:name "Charlie" . }`

	quads := collect(t, NewTriGParser(input).Each)
	if len(quads) != 3 {
		t.Fatalf("Expected 3 quads, got %d", len(quads))
	}
	if !quads[0].InDefaultGraph() {
		t.Errorf("First quad should be in default graph, got %s", quads[0].G)
	}
	if quads[1].G != "<http://example.org/graph1>" {
		t.Errorf("Second quad should be in graph1, got %s", quads[1].G)
	}
	if !quads[2].InDefaultGraph() {
		t.Errorf("Bare block should be the default graph, got %s", quads[2].G)
	}
}

func TestTriGParser_PredicateObjectLists(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:alice a ex:Person ;
    ex:knows ex:bob, ex:charlie ;
    ex:flag true ;
    .`

	quads := collect(t, NewTriGParser(input).Each)
	expected := []Statement{
		{S: "<http://example.org/alice>", P: "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>", O: "<http://example.org/Person>"},
		{S: "<http://example.org/alice>", P: "<http://example.org/knows>", O: "<http://example.org/bob>"},
		{S: "<http://example.org/alice>", P: "<http://example.org/knows>", O: "<http://example.org/charlie>"},
		{S: "<http://example.org/alice>", P: "<http://example.org/flag>", O: `"true"^^<http://www.w3.org/2001/XMLSchema#boolean>`},
	}
	if len(quads) != len(expected) {
		t.Fatalf("Expected %d quads, got %d: %v", len(expected), len(quads), quads)
	}
	for i := range expected {
		if quads[i] != expected[i] {
			t.Errorf("Quad %d: expected %v, got %v", i, expected[i], quads[i])
		}
	}
}

func TestTriGParser_BlankNodesAndCollections(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:g {
  ex:alice ex:address [ ex:city "Paris" ] .
  ex:alice ex:tags ( "a" "b" ) .
  _:x ex:p [] .
}`

	quads := collect(t, NewTriGParser(input).Each)
	// 2 for the property list, 5 for the two-item collection, 1 for _:x.
	if len(quads) != 8 {
		t.Fatalf("Expected 8 quads, got %d: %v", len(quads), quads)
	}
	for i, quad := range quads {
		if quad.G != "<http://example.org/g>" {
			t.Errorf("Quad %d: wrong graph %s", i, quad.G)
		}
	}
	if quads[0].P != "<http://example.org/city>" || quads[1].P != "<http://example.org/address>" {
		t.Errorf("Property list emitted in wrong order: %v", quads[:2])
	}
	if quads[0].S != quads[1].O {
		t.Errorf("Property list subject %s should be the object %s", quads[0].S, quads[1].O)
	}
	if quads[7].S != "_:x" {
		t.Errorf("Expected labelled blank node subject, got %s", quads[7].S)
	}
}

func TestTriGParser_BaseDeclaration(t *testing.T) {
	input := `@base <http://example.org/data/> .
<alice> <#name> "Alice" .
BASE <http://other.org/x>
</root> <p> "x" .`

	quads := collect(t, NewTriGParser(input).Each)
	if len(quads) != 2 {
		t.Fatalf("Expected 2 quads, got %d", len(quads))
	}
	if quads[0].S != "<http://example.org/data/alice>" {
		t.Errorf("Wrong resolved subject: %s", quads[0].S)
	}
	if quads[0].P != "<http://example.org/data/#name>" {
		t.Errorf("Wrong resolved predicate: %s", quads[0].P)
	}
	if quads[1].S != "<http://other.org/root>" || quads[1].P != "<http://other.org/p>" {
		t.Errorf("Wrong resolution against second base: %v", quads[1])
	}
}

func TestTriGParser_EscapeSequences(t *testing.T) {
	input := `<http://example.org/s> <http://example.org/p> "tab\there A 'q'" .
<http://example.org/s> <http://example.org/p> 'single "quoted"' .
<http://example.org/s> <http://example.org/p> """long
string""" .`

	quads := collect(t, NewTriGParser(input).Each)
	expected := []string{
		`"tab\there A 'q'"`,
		`"single \"quoted\""`,
		`"long\nstring"`,
	}
	if len(quads) != len(expected) {
		t.Fatalf("Expected %d quads, got %d", len(expected), len(quads))
	}
	for i, want := range expected {
		if quads[i].O != want {
			t.Errorf("Quad %d: expected %s, got %s", i, want, quads[i].O)
		}
	}
}

func TestTriGParser_Errors(t *testing.T) {
	inputs := []string{
		`<http://example.org/g> { <http://example.org/s> <http://example.org/p> "o" .`,
		`<http://example.org/s> <http://example.org/p> "o"`,
		`"lit" { <http://example.org/s> <http://example.org/p> "o" }`,
		`<http://example.org/s> "p" "o" .`,
	}
	for _, input := range inputs {
		err := NewTriGParser(input).Each(func(*Quad) error { return nil })
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("Expected ErrSyntax for %q, got %v", input, err)
		}
	}
}
