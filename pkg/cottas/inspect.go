package cottas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/aleksaelezovic/cottas/pkg/engine"
	"github.com/aleksaelezovic/cottas/pkg/index"
	"github.com/aleksaelezovic/cottas/pkg/query"
)

// Info is the metadata of a Cottas file. Counts are computed from the file
// on every call.
type Info struct {
	Index            string  `json:"index" yaml:"index"`
	Triples          int64   `json:"triples" yaml:"triples"`
	TriplesGroups    int64   `json:"triples_groups" yaml:"triples_groups"`
	Properties       int64   `json:"properties" yaml:"properties"`
	DistinctSubjects int64   `json:"distinct_subjects" yaml:"distinct_subjects"`
	DistinctObjects  int64   `json:"distinct_objects" yaml:"distinct_objects"`
	Issued           string  `json:"issued" yaml:"issued"`
	SizeMB           float64 `json:"size_mb" yaml:"size_mb"`
	Compression      string  `json:"compression" yaml:"compression"`
	Quads            bool    `json:"quads" yaml:"quads"`
}

// Info describes a Cottas file.
func (c *Client) Info(ctx context.Context, cottasPath string) (*Info, error) {
	if err := checkInputs(cottasPath); err != nil {
		return nil, err
	}
	stat, err := os.Stat(cottasPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	s, release, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	info := &Info{
		Issued: stat.ModTime().UTC().Format(time.RFC3339),
		SizeMB: float64(stat.Size()) / 1_000_000,
	}

	if info.Index, err = readIndex(ctx, s, cottasPath); err != nil {
		return nil, err
	}
	if err := s.QueryRow(ctx, query.FileMetadata(cottasPath), &info.Triples, &info.TriplesGroups); err != nil {
		return nil, err
	}

	counts := []struct {
		column string
		dest   *int64
	}{
		{index.Columns[index.Predicate], &info.Properties},
		{index.Columns[index.Subject], &info.DistinctSubjects},
		{index.Columns[index.Object], &info.DistinctObjects},
	}
	for _, cnt := range counts {
		if err := s.QueryRow(ctx, query.CountDistinct(cottasPath, cnt.column), cnt.dest); err != nil {
			return nil, err
		}
	}

	// A file without row groups has no column chunks to report a codec for.
	if err := s.QueryRow(ctx, query.Compression(cottasPath), &info.Compression); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if info.Quads, err = hasGraph(ctx, s, cottasPath); err != nil {
		return nil, err
	}
	return info, nil
}

// Verify reports whether a file has exactly the Cottas columns: s, p and o,
// optionally g, and nothing else.
func (c *Client) Verify(ctx context.Context, cottasPath string) (bool, error) {
	if err := checkInputs(cottasPath); err != nil {
		return false, err
	}
	s, release, err := c.open(ctx)
	if err != nil {
		return false, err
	}
	defer release()

	return verify(ctx, s, cottasPath)
}

func verify(ctx context.Context, s *engine.Session, cottasPath string) (bool, error) {
	cols, err := columns(ctx, s, cottasPath)
	if err != nil {
		return false, err
	}

	for _, required := range index.Columns[:index.Graph] {
		if !cols[required] {
			return false, nil
		}
	}
	for col := range cols {
		if !slices.Contains(index.Columns[:], col) {
			return false, nil
		}
	}
	return true, nil
}
