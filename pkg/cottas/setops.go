package cottas

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aleksaelezovic/cottas/pkg/engine"
	"github.com/aleksaelezovic/cottas/pkg/index"
	"github.com/aleksaelezovic/cottas/pkg/query"
)

// Cat merges Cottas files into one, keeping the distinct s, p, o rows
// ordered by label. Inputs may differ in whether they carry a graph column.
// Graph names are dropped unless Options.MergeGraphs is set, in which case
// the output has a graph column when any input does.
//
// An invalid label, including the empty one, is logged and the call returns
// an unwritten Result with a nil error. With removeInputs, inputs are deleted
// after the output is written; deletion failures are returned but the output
// stays.
func (c *Client) Cat(ctx context.Context, cottasPaths []string, out, label string, removeInputs bool) (Result, error) {
	if !index.Validate(label) {
		c.log.Warn("invalid index, merge skipped", "index", label, "output", out)
		return Result{}, nil
	}
	if len(cottasPaths) == 0 {
		return Result{}, fmt.Errorf("%w: no input files", ErrIO)
	}
	if err := checkInputs(cottasPaths...); err != nil {
		return Result{}, err
	}

	s, release, err := c.open(ctx)
	if err != nil {
		return Result{}, err
	}
	defer release()

	quad, err := c.mergeShape(ctx, s, cottasPaths)
	if err != nil {
		return Result{}, err
	}

	rows, err := c.materialize(ctx, s, query.Merge(cottasPaths, label, quad), out, label)
	if err != nil {
		return Result{}, err
	}
	res := Result{Output: out, Written: true, Rows: rows, Quad: quad, Index: index.Normalize(label)}
	c.log.Info("merged cottas files", "inputs", len(cottasPaths), "output", out, "index", res.Index, "rows", rows)

	if removeInputs {
		return res, c.removeInputs(out, cottasPaths...)
	}
	return res, nil
}

// mergeShape reports whether merged output keeps a graph column.
func (c *Client) mergeShape(ctx context.Context, s *engine.Session, paths []string) (bool, error) {
	if !c.opts.MergeGraphs {
		return false, nil
	}
	for _, p := range paths {
		g, err := hasGraph(ctx, s, p)
		if err != nil {
			return false, err
		}
		if g {
			return true, nil
		}
	}
	return false, nil
}

// Diff writes the distinct rows of a that are absent from b, ordered by
// label. Rows are compared over the columns both files expose.
//
// Invalid labels and removeInputs behave as in Cat.
func (c *Client) Diff(ctx context.Context, a, b, out, label string, removeInputs bool) (Result, error) {
	if !index.Validate(label) {
		c.log.Warn("invalid index, difference skipped", "index", label, "output", out)
		return Result{}, nil
	}
	if err := checkInputs(a, b); err != nil {
		return Result{}, err
	}

	s, release, err := c.open(ctx)
	if err != nil {
		return Result{}, err
	}
	defer release()

	ga, err := hasGraph(ctx, s, a)
	if err != nil {
		return Result{}, err
	}
	gb, err := hasGraph(ctx, s, b)
	if err != nil {
		return Result{}, err
	}
	quad := ga && gb
	if ga != gb {
		c.log.Debug("graph column not shared, comparing triples only", "a", a, "b", b)
	}

	rows, err := c.materialize(ctx, s, query.Difference(a, b, label, quad), out, label)
	if err != nil {
		return Result{}, err
	}
	res := Result{Output: out, Written: true, Rows: rows, Quad: quad, Index: index.Normalize(label)}
	c.log.Info("wrote difference", "a", a, "b", b, "output", out, "index", res.Index, "rows", rows)

	if removeInputs {
		return res, c.removeInputs(out, a, b)
	}
	return res, nil
}

// removeInputs deletes each distinct input once, skipping the output itself.
func (c *Client) removeInputs(out string, paths ...string) error {
	outAbs, _ := filepath.Abs(out)
	seen := map[string]bool{outAbs: true}
	var errs []error
	for _, p := range paths {
		abs, _ := filepath.Abs(p)
		if seen[abs] {
			continue
		}
		seen[abs] = true

		if err := os.Remove(p); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrIO, err))
			continue
		}
		c.log.Debug("removed input", "path", p)
	}
	return errors.Join(errs...)
}
