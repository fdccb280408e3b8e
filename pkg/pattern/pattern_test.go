package pattern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "all variables",
			input: "?s ?p ?o",
			want:  []string{"?s", "?p", "?o"},
		},
		{
			name:  "bound predicate",
			input: "?s <http://ex/p> ?o",
			want:  []string{"?s", "<http://ex/p>", "?o"},
		},
		{
			name:  "quad with IRI graph",
			input: "<http://ex/a> <http://ex/p> <http://ex/b> <http://ex/g>",
			want:  []string{"<http://ex/a>", "<http://ex/p>", "<http://ex/b>", "<http://ex/g>"},
		},
		{
			name:  "quad with variable graph",
			input: "?s ?p ?o ?g",
			want:  []string{"?s", "?p", "?o", "?g"},
		},
		{
			name:  "dollar variable graph",
			input: "?s ?p ?o $g",
			want:  []string{"?s", "?p", "?o", "$g"},
		},
		{
			name:  "literal object with spaces",
			input: `<http://ex/a> <http://ex/name> "Alice Smith"@en`,
			want:  []string{"<http://ex/a>", "<http://ex/name>", `"Alice Smith"@en`},
		},
		{
			name:  "literal object with spaces and graph",
			input: `?s <http://ex/name> "Alice   Smith" <http://ex/g>`,
			want:  []string{"?s", "<http://ex/name>", `"Alice   Smith"`, "<http://ex/g>"},
		},
		{
			name:  "surrounding whitespace",
			input: "  ?s\t?p   ?o \n",
			want:  []string{"?s", "?p", "?o"},
		},
		{
			name:  "object text repeats subject and predicate",
			input: `<a> <p> "<a> and <p> go"`,
			want:  []string{"<a>", "<p>", `"<a> and <p> go"`},
		},
		{
			name:  "literal ending in variable-like token is read as graph",
			input: `?s ?p "ask ?x`,
			want:  []string{"?s", "?p", `"ask`, "?x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Terms())
			assert.Equal(t, len(tt.want), p.Len())
			assert.Equal(t, len(tt.want) == 4, p.IsQuad())
		})
	}
}

func TestParseMalformed(t *testing.T) {
	for _, input := range []string{"", "   ", "?s", "?s ?p", "<a>\t<b>", "?s ?p \"caf\xe9\""} {
		_, err := Parse(input)
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, ErrMalformedPattern), input)
	}
}

func TestNew(t *testing.T) {
	p, err := New("?s", "?p", "?o")
	require.NoError(t, err)
	assert.Equal(t, "?s ?p ?o", p.String())

	_, err = New("?s", "?p")
	assert.ErrorIs(t, err, ErrInvalidArity)

	_, err = New("?s", "?p", "?o", "?g", "?x")
	assert.ErrorIs(t, err, ErrInvalidArity)
}

func TestBound(t *testing.T) {
	p, err := Parse("<http://ex/a> ?p ?o <http://ex/g>")
	require.NoError(t, err)
	assert.Equal(t, [4]bool{true, false, false, true}, p.Bound())

	p, err = Parse("?s $p \"x\"")
	require.NoError(t, err)
	assert.Equal(t, [4]bool{false, false, true, false}, p.Bound())
}

func TestIsVariable(t *testing.T) {
	assert.True(t, IsVariable("?s"))
	assert.True(t, IsVariable("$s"))
	assert.True(t, IsVariable("?"))
	assert.False(t, IsVariable("<http://ex/a>"))
	assert.False(t, IsVariable(`"?s"`))
	assert.False(t, IsVariable(""))
}
