package rdf

import (
	"sort"
	"strings"
)

// Isomorphic reports whether two statement sets are equal up to a renaming
// of blank nodes. Blank nodes may appear as subject, object or graph name.
// Duplicates are ignored on both sides.
func Isomorphic(expected, actual []Statement) bool {
	expected, actual = dedupe(expected), dedupe(actual)
	if len(expected) != len(actual) {
		return false
	}

	expectedBlanks := blankLabels(expected)
	actualBlanks := blankLabels(actual)
	if len(expectedBlanks) != len(actualBlanks) {
		return false
	}

	actualSet := make(map[string]bool, len(actual))
	for _, s := range actual {
		actualSet[s.String()] = true
	}

	if len(expectedBlanks) == 0 {
		for _, s := range expected {
			if !actualSet[s.String()] {
				return false
			}
		}
		return true
	}

	// Matching well connected nodes first prunes the search early.
	expectedBlanks = sortByDegree(expectedBlanks, expected)
	actualBlanks = sortByDegree(actualBlanks, actual)

	m := &matcher{
		expected: expected,
		actual:   actualSet,
		mapping:  make(map[string]string, len(expectedBlanks)),
		used:     make(map[string]bool, len(actualBlanks)),
	}
	return m.backtrack(expectedBlanks, actualBlanks, 0)
}

func isBlank(term string) bool {
	return strings.HasPrefix(term, "_:")
}

func dedupe(stmts []Statement) []Statement {
	seen := make(map[Statement]bool, len(stmts))
	out := make([]Statement, 0, len(stmts))
	for _, s := range stmts {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// blankLabels returns the distinct blank nodes of stmts in sorted order.
func blankLabels(stmts []Statement) []string {
	blanks := make(map[string]bool)
	for _, s := range stmts {
		for _, t := range [...]string{s.S, s.O, s.G} {
			if isBlank(t) {
				blanks[t] = true
			}
		}
	}

	result := make([]string, 0, len(blanks))
	for label := range blanks {
		result = append(result, label)
	}
	sort.Strings(result)
	return result
}

// sortByDegree orders blanks by the number of statements they appear in,
// most connected first.
func sortByDegree(blanks []string, stmts []Statement) []string {
	degrees := make(map[string]int, len(blanks))
	for _, s := range stmts {
		for _, t := range [...]string{s.S, s.O, s.G} {
			if isBlank(t) {
				degrees[t]++
			}
		}
	}

	sort.SliceStable(blanks, func(i, j int) bool {
		return degrees[blanks[i]] > degrees[blanks[j]]
	})
	return blanks
}

type matcher struct {
	expected []Statement
	actual   map[string]bool
	mapping  map[string]string
	used     map[string]bool
}

func (m *matcher) backtrack(expectedBlanks, actualBlanks []string, i int) bool {
	if i == len(expectedBlanks) {
		// Every statement is fully mapped here, so consistency is equality.
		return m.consistent()
	}

	current := expectedBlanks[i]
	for _, candidate := range actualBlanks {
		if m.used[candidate] {
			continue
		}

		m.mapping[current] = candidate
		m.used[candidate] = true

		if m.consistent() && m.backtrack(expectedBlanks, actualBlanks, i+1) {
			return true
		}

		delete(m.mapping, current)
		delete(m.used, candidate)
	}
	return false
}

// consistent checks that every expected statement whose blank nodes are all
// mapped has a counterpart in actual.
func (m *matcher) consistent() bool {
	for _, s := range m.expected {
		mapped, ok := m.apply(s)
		if ok && !m.actual[mapped.String()] {
			return false
		}
	}
	return true
}

// apply renames the blank nodes of s, reporting false when one is unmapped.
func (m *matcher) apply(s Statement) (Statement, bool) {
	ok := true
	rename := func(t string) string {
		if !isBlank(t) {
			return t
		}
		mapped, exists := m.mapping[t]
		if !exists {
			ok = false
			return t
		}
		return mapped
	}
	return Statement{S: rename(s.S), P: s.P, O: rename(s.O), G: rename(s.G)}, ok
}
