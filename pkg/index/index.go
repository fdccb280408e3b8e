// Package index models the column orderings a Cottas file can be clustered by.
//
// An index label such as "spo" or "gpos" names the columns, in order, that rows
// were sorted by when the file was written. Labels are persisted as file
// metadata and are never inferred from file contents.
package index

import (
	"fmt"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default is the label used when the caller does not name one.
const Default = "spo"

// Position indexes into a triple or quad pattern.
const (
	Subject = iota
	Predicate
	Object
	Graph
)

// Columns maps pattern positions to stored column names.
var Columns = [4]string{"s", "p", "o", "g"}

const (
	tripleSet = "ops"
	quadSet   = "gops"
)

var lower = cases.Lower(language.Und)

// Normalize lower-cases a label.
func Normalize(label string) string {
	return lower.String(label)
}

// Validate reports whether label is a permutation of "spo" or "spog",
// ignoring case. It never fails; callers decide what an invalid label means.
func Validate(label string) bool {
	chars := []rune(Normalize(label))
	slices.Sort(chars)

	switch len(chars) {
	case 3:
		return string(chars) == tripleSet
	case 4:
		return string(chars) == quadSet
	default:
		return false
	}
}

// IsQuad reports whether a valid label includes the graph column.
func IsQuad(label string) bool {
	return Validate(label) && len([]rune(label)) == 4
}

// OrderingClause returns the row ordering for label as stored column names.
// When includeGraph is set and the label has no graph column, "g" is appended.
//
// The label must already have passed Validate; anything else panics, since an
// ordering silently derived from a bad label would corrupt merged output.
func OrderingClause(label string, includeGraph bool) []string {
	if !Validate(label) {
		panic(fmt.Sprintf("index: invalid label %q", label))
	}

	cols := make([]string, 0, 4)
	for _, c := range Normalize(label) {
		switch c {
		case 's':
			cols = append(cols, Columns[Subject])
		case 'p':
			cols = append(cols, Columns[Predicate])
		case 'o':
			cols = append(cols, Columns[Object])
		case 'g':
			cols = append(cols, Columns[Graph])
		}
	}

	if includeGraph && !slices.Contains(cols, Columns[Graph]) {
		cols = append(cols, Columns[Graph])
	}
	return cols
}
