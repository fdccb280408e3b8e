package cottas

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"

	"github.com/aleksaelezovic/cottas/internal/staging"
	"github.com/aleksaelezovic/cottas/pkg/engine"
	"github.com/aleksaelezovic/cottas/pkg/index"
	"github.com/aleksaelezovic/cottas/pkg/query"
	"github.com/aleksaelezovic/cottas/pkg/rdf"
)

// RDF2Cottas converts an RDF file into a Cottas file ordered by label.
// Duplicate statements are dropped. The output carries a graph column when
// any statement names a graph.
func (c *Client) RDF2Cottas(ctx context.Context, rdfPath, cottasPath, label string) (Result, error) {
	if label == "" {
		label = index.Default
	}
	if !index.Validate(label) {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidIndex, label)
	}
	if _, err := rdf.FormatForPath(rdfPath); err != nil {
		return Result{}, err
	}

	area, err := staging.Open(c.opts.StagingDir)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if err := area.Close(); err != nil {
			c.log.Warn("closing staging area", "error", err)
		}
	}()

	err = rdf.ReadFile(rdfPath, func(q *rdf.Quad) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := area.Add(q.Statement())
		return err
	})
	switch {
	case errors.Is(err, rdf.ErrSyntax):
		return Result{}, fmt.Errorf("%w: %s: %w", ErrParse, rdfPath, err)
	case err != nil:
		return Result{}, ioError(err)
	}
	c.log.Debug("staged statements", "input", rdfPath, "statements", area.Len(), "duplicates", area.Duplicates())

	s, release, err := c.open(ctx)
	if err != nil {
		return Result{}, err
	}
	defer release()

	if err := s.Exec(ctx, query.CreateStaging()); err != nil {
		return Result{}, err
	}

	it, err := area.Iterator()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer it.Close()

	if _, err := s.Append(ctx, query.StagingTable, stagedRows{it}); err != nil {
		return Result{}, err
	}

	quad := area.Quad()
	rows, err := c.materialize(ctx, s, query.Export(label, quad), cottasPath, label)
	if err != nil {
		return Result{}, err
	}

	c.log.Info("wrote cottas file", "input", rdfPath, "output", cottasPath, "index", index.Normalize(label), "rows", rows, "quad", quad)
	return Result{Output: cottasPath, Written: true, Rows: rows, Quad: quad, Index: index.Normalize(label)}, nil
}

// stagedRows feeds staged statements to the engine appender. The default
// graph is stored as NULL.
type stagedRows struct {
	it *staging.Iterator
}

func (r stagedRows) Next() bool { return r.it.Next() }
func (r stagedRows) Err() error { return r.it.Err() }

func (r stagedRows) Row() []driver.Value {
	st := r.it.Statement()
	var g driver.Value
	if !st.InDefaultGraph() {
		g = st.G
	}
	return []driver.Value{st.S, st.P, st.O, g}
}

// Cottas2RDF writes the statements of a Cottas file as RDF, choosing the
// serialization from the target extension. Triple files can be written to
// .nt, .ttl, .nq and .trig; quad files only to .nq and .trig.
func (c *Client) Cottas2RDF(ctx context.Context, cottasPath, rdfPath string) (Result, error) {
	format, err := rdf.FormatForPath(rdfPath)
	if err != nil {
		return Result{}, err
	}
	if format == rdf.FormatRDFXML {
		return Result{}, fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, format)
	}
	if err := checkInputs(cottasPath); err != nil {
		return Result{}, err
	}

	s, release, err := c.open(ctx)
	if err != nil {
		return Result{}, err
	}
	defer release()

	quad, err := hasGraph(ctx, s, cottasPath)
	if err != nil {
		return Result{}, err
	}
	if quad && !format.SupportsGraphs() {
		return Result{}, fmt.Errorf("%w: %s cannot hold named graphs", ErrUnsupportedFormat, format)
	}

	tmp := tempPath(rdfPath)
	rows, err := c.dump(ctx, s, cottasPath, tmp, format, quad)
	if err != nil {
		c.discard(tmp)
		return Result{}, err
	}
	if err := c.commit(tmp, rdfPath); err != nil {
		return Result{}, err
	}

	c.log.Info("wrote rdf file", "input", cottasPath, "output", rdfPath, "format", format.String(), "rows", rows)
	return Result{Output: rdfPath, Written: true, Rows: rows, Quad: quad}, nil
}

func (c *Client) dump(ctx context.Context, s *engine.Session, cottasPath, out string, format rdf.Format, quad bool) (int64, error) {
	file, err := os.Create(out) // #nosec G304 - writing the caller's target is the point
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	w, err := rdf.NewWriter(file, format)
	if err != nil {
		_ = file.Close() // #nosec G104 - writer error is more relevant
		return 0, err
	}

	var rows int64
	err = s.Each(ctx, query.Dump(cottasPath, quad, format == rdf.FormatTriG), func(row []string) error {
		st := rdf.Statement{S: row[0], P: row[1], O: row[2]}
		if len(row) == 4 {
			st.G = row[3]
		}
		rows++
		return w.Write(st)
	})

	if cerr := w.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: %w", ErrIO, cerr)
	}
	if cerr := file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: %w", ErrIO, cerr)
	}
	return rows, err
}
