// Package cottas converts RDF to and from Cottas files (Parquet tables with
// s, p, o and optional g columns) and runs pattern search, merge, difference
// and inspection over them.
//
// Every operation opens its own engine session and releases it before
// returning. Nothing is cached between calls, and concurrent calls on
// overlapping files are the caller's problem.
package cottas

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/aleksaelezovic/cottas/pkg/engine"
	"github.com/aleksaelezovic/cottas/pkg/index"
	"github.com/aleksaelezovic/cottas/pkg/query"
	"github.com/aleksaelezovic/cottas/pkg/rdf"
)

var (
	// ErrUnsupportedFormat marks an unrecognized RDF extension or target format.
	ErrUnsupportedFormat = rdf.ErrUnsupportedFormat
	// ErrParse marks malformed RDF content or a malformed pattern.
	ErrParse = errors.New("parse failure")
	// ErrInvalidIndex marks an index label that is not a permutation of spo or spog.
	ErrInvalidIndex = errors.New("invalid index label")
	// ErrEngine marks failures reported by the query engine.
	ErrEngine = engine.ErrEngine
	// ErrIO marks file creation, deletion or metadata failures.
	ErrIO = errors.New("i/o failure")
)

// Options configures a Client.
type Options struct {
	// Write controls compression and layout of written files. Write.Index is
	// ignored; each call names its own index.
	Write query.WriteOptions
	// StagingDir holds on-disk staging for RDF2Cottas. Empty stages in memory.
	StagingDir string
	// Logger receives operational logs. Nil means slog.Default().
	Logger *slog.Logger
	// MergeGraphs makes Cat keep the graph column when any input has one.
	// By default merged output holds s, p and o only.
	MergeGraphs bool
}

// DefaultOptions returns maximum compression and in-memory staging.
func DefaultOptions() Options {
	return Options{Write: query.DefaultWriteOptions()}
}

// Client runs Cottas operations.
type Client struct {
	opts Options
	log  *slog.Logger
}

// New creates a client.
func New(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{opts: opts, log: log}
}

// Result describes a file-producing operation.
type Result struct {
	// Output is the path written, empty when nothing was written.
	Output string `json:"output" yaml:"output"`
	// Written is false when the operation was skipped.
	Written bool `json:"written" yaml:"written"`
	// Rows is the number of rows in the output.
	Rows int64 `json:"rows" yaml:"rows"`
	// Quad reports whether the output carries a graph column.
	Quad bool `json:"quad" yaml:"quad"`
	// Index is the label the output is ordered by.
	Index string `json:"index" yaml:"index"`
}

// open starts an engine session; release must be deferred by the caller.
func (c *Client) open(ctx context.Context) (*engine.Session, func(), error) {
	s, err := engine.Open(ctx)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := s.Close(); err != nil {
			c.log.Warn("closing engine session", "error", err)
		}
	}
	return s, release, nil
}

// writeOptions returns the client's write options tagged with label.
func (c *Client) writeOptions(label string) query.WriteOptions {
	opts := c.opts.Write
	opts.Index = index.Normalize(label)
	return opts
}

// tempPath returns a unique sibling of target to write into before renaming.
func tempPath(target string) string {
	dir, base := filepath.Split(target)
	return filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")
}

// commit moves a finished temporary file onto its target.
func (c *Client) commit(tmp, target string) error {
	if err := os.Rename(tmp, target); err != nil {
		c.discard(tmp)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// discard removes a temporary file, ignoring a missing one.
func (c *Client) discard(tmp string) {
	if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.log.Debug("removing temporary file", "path", tmp, "error", err)
	}
}

// materialize writes sel to target through a temporary file and returns
// the row count of the result.
func (c *Client) materialize(ctx context.Context, s *engine.Session, sel, target, label string) (int64, error) {
	tmp := tempPath(target)
	if err := s.Exec(ctx, query.Copy(sel, tmp, c.writeOptions(label))); err != nil {
		c.discard(tmp)
		return 0, err
	}

	var rows, groups int64
	if err := s.QueryRow(ctx, query.FileMetadata(tmp), &rows, &groups); err != nil {
		c.discard(tmp)
		return 0, err
	}
	return rows, c.commit(tmp, target)
}

// columns lists the columns a Cottas file exposes.
func columns(ctx context.Context, s *engine.Session, path string) (map[string]bool, error) {
	names, err := s.Column(ctx, query.DescribeColumns(path))
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set, nil
}

// hasGraph reports whether a Cottas file carries a graph column.
func hasGraph(ctx context.Context, s *engine.Session, path string) (bool, error) {
	cols, err := columns(ctx, s, path)
	if err != nil {
		return false, err
	}
	return cols[index.Columns[index.Graph]], nil
}

// checkInputs rejects paths the engine would expand as glob patterns rather
// than read as single files.
func checkInputs(paths ...string) error {
	for _, p := range paths {
		if strings.ContainsAny(p, query.GlobChars) {
			return fmt.Errorf("%w: %q contains glob characters %q", ErrIO, p, query.GlobChars)
		}
	}
	return nil
}

// ioError wraps file-system errors with ErrIO, leaving other kinds alone.
func ioError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return err
}
