package cottas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/aleksaelezovic/cottas/pkg/engine"
	"github.com/aleksaelezovic/cottas/pkg/index"
	"github.com/aleksaelezovic/cottas/pkg/pattern"
	"github.com/aleksaelezovic/cottas/pkg/query"
)

// Search returns the rows of a Cottas file matching a triple or quad
// pattern such as "?s <http://ex/p> ?o". Rows have 3 or 4 terms; a default
// graph value is "".
func (c *Client) Search(ctx context.Context, cottasPath, patternText string) ([][]string, error) {
	p, err := pattern.Parse(patternText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if err := checkInputs(cottasPath); err != nil {
		return nil, err
	}

	sel, err := query.Translate(cottasPath, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	s, release, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if c.log.Enabled(ctx, slog.LevelDebug) {
		c.explain(ctx, s, cottasPath, p)
	}

	rows, err := s.Rows(ctx, sel)
	if err != nil {
		return nil, err
	}
	c.log.Debug("search finished", "file", cottasPath, "pattern", p.String(), "rows", len(rows))
	return rows, nil
}

// Candidate is an index label and the number of its leading columns a
// pattern binds.
type Candidate struct {
	Index  string `json:"index" yaml:"index"`
	Prefix int    `json:"prefix" yaml:"prefix"`
}

// Plan relates a pattern to the index a file is sorted by.
type Plan struct {
	Pattern  string    `json:"pattern" yaml:"pattern"`
	Declared Candidate `json:"declared" yaml:"declared"`
	// Suggested is the index that would serve the pattern best.
	Suggested Candidate `json:"suggested" yaml:"suggested"`
	// Ranking lists every permutation, longest bound prefix first.
	Ranking []Candidate `json:"ranking" yaml:"ranking"`
}

// Plan parses patternText and reports how well the index of cottasPath,
// and every other permutation, suits it.
func (c *Client) Plan(ctx context.Context, cottasPath, patternText string) (*Plan, error) {
	p, err := pattern.Parse(patternText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if err := checkInputs(cottasPath); err != nil {
		return nil, err
	}

	s, release, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	declared, err := readIndex(ctx, s, cottasPath)
	if err != nil {
		return nil, err
	}
	return plan(declared, p), nil
}

func plan(declared string, p *pattern.Pattern) *Plan {
	bound := p.Bound()

	catalogue := index.TriplePermutations()
	if p.IsQuad() || index.IsQuad(declared) {
		catalogue = index.QuadPermutations()
	}
	ranking := make([]Candidate, 0, len(catalogue))
	for _, label := range catalogue {
		ranking = append(ranking, Candidate{Index: label, Prefix: index.Covers(label, bound)})
	}
	slices.SortStableFunc(ranking, func(a, b Candidate) int { return b.Prefix - a.Prefix })

	best := index.ForPattern(bound)
	return &Plan{
		Pattern:   p.String(),
		Declared:  Candidate{Index: declared, Prefix: index.Covers(declared, bound)},
		Suggested: Candidate{Index: best, Prefix: index.Covers(best, bound)},
		Ranking:   ranking,
	}
}

// explain logs how well the file's declared index suits the pattern.
func (c *Client) explain(ctx context.Context, s *engine.Session, cottasPath string, p *pattern.Pattern) {
	declared, err := readIndex(ctx, s, cottasPath)
	if err != nil {
		c.log.Debug("reading index metadata", "file", cottasPath, "error", err)
		return
	}

	pl := plan(declared, p)
	c.log.Debug("search plan",
		"file", cottasPath,
		"pattern", pl.Pattern,
		"declared_index", pl.Declared.Index,
		"declared_prefix", pl.Declared.Prefix,
		"suggested_index", pl.Suggested.Index,
		"suggested_prefix", pl.Suggested.Prefix,
	)
}

// readIndex returns the persisted index label, or "" when the file has none.
func readIndex(ctx context.Context, s *engine.Session, cottasPath string) (string, error) {
	var label sql.NullString
	err := s.QueryRow(ctx, query.IndexMetadata(cottasPath), &label)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return label.String, nil
}
