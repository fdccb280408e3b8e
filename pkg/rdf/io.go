package rdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	knakk "github.com/knakk/rdf"
)

// ErrUnsupportedFormat is returned for file extensions no reader or writer handles.
var ErrUnsupportedFormat = errors.New("unsupported RDF format")

// Format identifies an RDF serialization.
type Format int

const (
	FormatUnknown Format = iota
	FormatTurtle
	FormatNTriples
	FormatNQuads
	FormatTriG
	FormatRDFXML
)

func (f Format) String() string {
	switch f {
	case FormatTurtle:
		return "turtle"
	case FormatNTriples:
		return "n-triples"
	case FormatNQuads:
		return "n-quads"
	case FormatTriG:
		return "trig"
	case FormatRDFXML:
		return "rdf/xml"
	default:
		return "unknown"
	}
}

// SupportsGraphs reports whether the format can carry named graphs.
func (f Format) SupportsGraphs() bool {
	return f == FormatNQuads || f == FormatTriG
}

// FormatForPath detects the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ttl":
		return FormatTurtle, nil
	case ".nt":
		return FormatNTriples, nil
	case ".nq":
		return FormatNQuads, nil
	case ".trig":
		return FormatTriG, nil
	case ".rdf", ".xml":
		return FormatRDFXML, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Decode streams every statement of r, in format f, to fn.
func Decode(r io.Reader, f Format, fn func(*Quad) error) error {
	switch f {
	case FormatNTriples, FormatNQuads:
		return NewNQuadsReader(r).Each(fn)
	case FormatTriG:
		return ReadTriG(r, fn)
	case FormatTurtle:
		return decodeTriples(r, knakk.Turtle, fn)
	case FormatRDFXML:
		return decodeTriples(r, knakk.RDFXML, fn)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// ReadFile detects the format of path and streams its statements to fn.
func ReadFile(path string, fn func(*Quad) error) error {
	f, err := FormatForPath(path)
	if err != nil {
		return err
	}

	file, err := os.Open(path) // #nosec G304 - reading user-named input is the point
	if err != nil {
		return err
	}
	defer file.Close()

	return Decode(bufio.NewReader(file), f, fn)
}

// Writer serializes statements as N-Triples, N-Quads or TriG. Turtle output
// is written as N-Triples lines, which Turtle readers accept.
type Writer struct {
	w      *bufio.Writer
	format Format
	graph  string
	open   bool
}

// NewWriter creates a writer for format f.
func NewWriter(w io.Writer, f Format) (*Writer, error) {
	switch f {
	case FormatNTriples, FormatTurtle, FormatNQuads, FormatTriG:
	default:
		return nil, fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, f)
	}
	return &Writer{w: bufio.NewWriter(w), format: f}, nil
}

// Write appends one statement.
func (w *Writer) Write(s Statement) error {
	switch w.format {
	case FormatTriG:
		return w.writeTriG(s)
	case FormatNQuads:
		_, err := fmt.Fprintln(w.w, s.String())
		return err
	default:
		if !s.InDefaultGraph() {
			return fmt.Errorf("%w: %s cannot hold named graph %s", ErrUnsupportedFormat, w.format, s.G)
		}
		_, err := fmt.Fprintln(w.w, s.String())
		return err
	}
}

// writeTriG groups consecutive statements of the same graph into one block.
func (w *Writer) writeTriG(s Statement) error {
	if w.open && s.G != w.graph {
		if _, err := w.w.WriteString("}\n"); err != nil {
			return err
		}
		w.open = false
	}

	if s.InDefaultGraph() {
		_, err := fmt.Fprintf(w.w, "%s %s %s .\n", s.S, s.P, s.O)
		return err
	}

	if !w.open {
		if _, err := fmt.Fprintf(w.w, "%s {\n", s.G); err != nil {
			return err
		}
		w.graph, w.open = s.G, true
	}
	_, err := fmt.Fprintf(w.w, "  %s %s %s .\n", s.S, s.P, s.O)
	return err
}

// Close ends any open graph block and flushes buffered output. It does not
// close the underlying writer.
func (w *Writer) Close() error {
	if w.open {
		if _, err := w.w.WriteString("}\n"); err != nil {
			return err
		}
		w.open = false
	}
	return w.w.Flush()
}
