package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"spo", true},
		{"pos", true},
		{"osp", true},
		{"SPO", true},
		{"PsO", true},
		{"gspo", true},
		{"spog", true},
		{"OGPS", true},
		{"", false},
		{"sp", false},
		{"ssp", false},
		{"spoo", false},
		{"spox", false},
		{"spogg", false},
		{"abc", false},
		{"s p o", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.label))
		})
	}
}

func TestValidateAllPermutations(t *testing.T) {
	triples := TriplePermutations()
	quads := QuadPermutations()
	assert.Len(t, triples, 6)
	assert.Len(t, quads, 24)

	for _, label := range append(triples, quads...) {
		assert.True(t, Validate(label), label)
	}
}

func TestOrderingClause(t *testing.T) {
	assert.Equal(t, []string{"p", "s", "o"}, OrderingClause("pso", false))
	assert.Equal(t, []string{"g", "s", "p", "o"}, OrderingClause("gspo", true))
	assert.Equal(t, []string{"s", "p", "o", "g"}, OrderingClause("spo", true))
	assert.Equal(t, []string{"o", "s", "p"}, OrderingClause("OSP", false))
	assert.Equal(t, []string{"s", "g", "p", "o"}, OrderingClause("sgpo", false))
}

func TestOrderingClausePanicsOnInvalidLabel(t *testing.T) {
	for _, label := range []string{"", "ssp", "spoo", "xyz"} {
		require.Panics(t, func() { OrderingClause(label, false) }, label)
	}
}

func TestIsQuad(t *testing.T) {
	assert.False(t, IsQuad("spo"))
	assert.True(t, IsQuad("GSPO"))
	assert.False(t, IsQuad("gsp"))
}

func TestForPattern(t *testing.T) {
	tests := []struct {
		name  string
		bound [4]bool
		want  string
	}{
		{"nothing bound", [4]bool{}, "spo"},
		{"subject", [4]bool{true, false, false, false}, "spo"},
		{"predicate", [4]bool{false, true, false, false}, "pos"},
		{"object", [4]bool{false, false, true, false}, "osp"},
		{"predicate object", [4]bool{false, true, true, false}, "pos"},
		{"object subject", [4]bool{true, false, true, false}, "osp"},
		{"graph only", [4]bool{false, false, false, true}, "gspo"},
		{"graph predicate", [4]bool{false, true, false, true}, "gpos"},
		{"graph object", [4]bool{false, false, true, true}, "gosp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForPattern(tt.bound)
			assert.Equal(t, tt.want, got)
			assert.True(t, Validate(got))
		})
	}
}

func TestCovers(t *testing.T) {
	bound := [4]bool{false, true, true, false}
	assert.Equal(t, 2, Covers("pos", bound))
	assert.Equal(t, 0, Covers("spo", bound))
	assert.Equal(t, 1, Covers("ops", [4]bool{false, false, true, false}))
	assert.Equal(t, 0, Covers("bogus", bound))
}
