// Package query builds the query text handed to the columnar engine.
//
// Nothing here executes anything. Every value embedded in generated text goes
// through Quote, which doubles single quotes; that is the only escaping the
// engine dialect needs for string literals.
package query

import (
	"fmt"
	"strings"

	"github.com/aleksaelezovic/cottas/pkg/index"
	"github.com/aleksaelezovic/cottas/pkg/pattern"
)

// Escape doubles embedded single quotes.
func Escape(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}

// Quote renders value as a single-quoted string literal.
func Quote(value string) string {
	return "'" + Escape(value) + "'"
}

// GlobChars are the characters the engine expands in scanned paths.
const GlobChars = "*?["

// Scan renders a scan over one Parquet file. The engine expands GlobChars in
// path, so a path holding any of them reads every matching file rather than
// that one name; callers that mean a single file must reject such paths.
func Scan(path string) string {
	return fmt.Sprintf("PARQUET_SCAN(%s)", Quote(path))
}

// Condition is an equality constraint on one column.
type Condition struct {
	Column string
	Value  string
}

func (c Condition) String() string {
	return c.Column + "=" + Quote(c.Value)
}

// Projection returns the columns selected for a pattern of n terms.
func Projection(n int) ([]string, error) {
	if n != 3 && n != 4 {
		return nil, fmt.Errorf("%w: got %d", pattern.ErrInvalidArity, n)
	}
	return append([]string(nil), index.Columns[:n]...), nil
}

// Conditions returns one equality per bound term, in position order.
func Conditions(p *pattern.Pattern) []Condition {
	var conds []Condition
	for i, term := range p.Terms() {
		if pattern.IsVariable(term) {
			continue
		}
		conds = append(conds, Condition{Column: index.Columns[i], Value: term})
	}
	return conds
}

// Translate turns a pattern into a SELECT over the file at path.
func Translate(path string, p *pattern.Pattern) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: nil pattern", pattern.ErrInvalidArity)
	}
	cols, err := Projection(p.Len())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(cols, ", "), Scan(path))

	conds := Conditions(p)
	for i, c := range conds {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(c.String())
	}
	return b.String(), nil
}
