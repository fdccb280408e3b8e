package rdf

import (
	"errors"
	"strings"
	"testing"
)

func collect(t *testing.T, each func(func(*Quad) error) error) []Statement {
	t.Helper()
	var out []Statement
	err := each(func(q *Quad) error {
		out = append(out, q.Statement())
		return nil
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return out
}

func TestNQuadsReader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Statement
	}{
		{
			name:  "simple triple (N-Triples format)",
			input: "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n",
			expected: []Statement{
				{S: "<http://example.org/s>", P: "<http://example.org/p>", O: "<http://example.org/o>"},
			},
		},
		{
			name:  "quad with named graph",
			input: "<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .",
			expected: []Statement{
				{S: "<http://example.org/s>", P: "<http://example.org/p>", O: "<http://example.org/o>", G: "<http://example.org/g>"},
			},
		},
		{
			name: "literals",
			input: `<http://example.org/s1> <http://example.org/p1> "literal1" .
<http://example.org/s2> <http://example.org/p2> "literal2"^^<http://www.w3.org/2001/XMLSchema#string> <http://example.org/g> .
<http://example.org/s3> <http://example.org/p3> "hello"@en .
<http://example.org/s4> <http://example.org/p4> "line\nbreak \"q\" é" .
`,
			expected: []Statement{
				{S: "<http://example.org/s1>", P: "<http://example.org/p1>", O: `"literal1"`},
				{S: "<http://example.org/s2>", P: "<http://example.org/p2>", O: `"literal2"`, G: "<http://example.org/g>"},
				{S: "<http://example.org/s3>", P: "<http://example.org/p3>", O: `"hello"@en`},
				{S: "<http://example.org/s4>", P: "<http://example.org/p4>", O: `"line\nbreak \"q\" é"`},
			},
		},
		{
			name: "blank nodes, comments and blank lines",
			input: `# leading comment
_:b1 <http://example.org/p> "value" .

<http://example.org/s> <http://example.org/p> _:b2 _:graph . # trailing comment
`,
			expected: []Statement{
				{S: "_:b1", P: "<http://example.org/p>", O: `"value"`},
				{S: "<http://example.org/s>", P: "<http://example.org/p>", O: "_:b2", G: "_:graph"},
			},
		},
		{
			name: "with PREFIX",
			input: `PREFIX ex: <http://example.org/>
ex:s ex:p 42 .
`,
			expected: []Statement{
				{S: "<http://example.org/s>", P: "<http://example.org/p>", O: `"42"^^<http://www.w3.org/2001/XMLSchema#integer>`},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, NewNQuadsReader(strings.NewReader(tt.input)).Each)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d statements, got %d: %v", len(tt.expected), len(got), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Statement %d: expected %v, got %v", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestNQuadsReader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing dot", "<http://example.org/s> <http://example.org/p> <http://example.org/o>\n"},
		{"unclosed IRI", "<http://example.org/s <http://example.org/p> <http://example.org/o> .\n"},
		{"literal predicate", `<http://example.org/s> "p" <http://example.org/o> .`},
		{"literal subject", `"s" <http://example.org/p> <http://example.org/o> .`},
		{"unclosed literal", `<http://example.org/s> <http://example.org/p> "open .`},
		{"trailing garbage", "<http://example.org/s> <http://example.org/p> <http://example.org/o> . x\n"},
		{"undefined prefix", "ex:s ex:p ex:o .\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNQuadsReader(strings.NewReader(tt.input)).Each(func(*Quad) error { return nil })
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("Expected ErrSyntax, got %v", err)
			}
		})
	}
}

func TestNQuadsReader_ErrorLine(t *testing.T) {
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n<bad\n"
	err := NewNQuadsReader(strings.NewReader(input)).Each(func(*Quad) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Expected error on line 2, got %v", err)
	}
}

func TestNQuadsReader_CallbackError(t *testing.T) {
	stop := errors.New("stop")
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"
	err := NewNQuadsReader(strings.NewReader(input)).Each(func(*Quad) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("Expected callback error, got %v", err)
	}
}
