package query

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/aleksaelezovic/cottas/pkg/index"
)

// IndexKey is the Parquet key/value metadata key holding the index label.
const IndexKey = "index"

// StagingTable is the engine table RDF statements are loaded into before export.
const StagingTable = "quads"

// WriteOptions controls how COPY materializes a Parquet file.
type WriteOptions struct {
	Compression      string
	CompressionLevel int
	ParquetVersion   string
	RowGroupSize     int
	// Index is persisted as key/value metadata when non-empty.
	Index string
}

// DefaultWriteOptions returns the strongest compression the engine offers.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		Compression:      "zstd",
		CompressionLevel: 22,
		ParquetVersion:   "v2",
	}
}

func (o WriteOptions) String() string {
	opts := []string{"FORMAT PARQUET"}
	codec := strings.ToUpper(o.Compression)
	if codec != "" {
		opts = append(opts, "COMPRESSION "+codec)
		if codec == "ZSTD" && o.CompressionLevel > 0 {
			opts = append(opts, "COMPRESSION_LEVEL "+strconv.Itoa(o.CompressionLevel))
		}
	}
	if o.ParquetVersion != "" {
		opts = append(opts, "PARQUET_VERSION "+strings.ToUpper(o.ParquetVersion))
	}
	if o.RowGroupSize > 0 {
		opts = append(opts, "ROW_GROUP_SIZE "+strconv.Itoa(o.RowGroupSize))
	}
	if o.Index != "" {
		opts = append(opts, fmt.Sprintf("KV_METADATA {%s: %s}", IndexKey, Quote(index.Normalize(o.Index))))
	}
	return "(" + strings.Join(opts, ", ") + ")"
}

// Copy wraps a SELECT so the engine writes its rows to path.
func Copy(sel, path string, opts WriteOptions) string {
	return fmt.Sprintf("COPY (%s) TO %s %s", sel, Quote(path), opts)
}

// Ordering returns the ORDER BY columns for label. For triple-shaped output
// the graph column is dropped even when the label names it, since the output
// has no such column.
func Ordering(label string, quad bool) []string {
	cols := index.OrderingClause(label, quad)
	if quad {
		return cols
	}
	return slices.DeleteFunc(cols, func(c string) bool { return c == index.Columns[index.Graph] })
}

func orderBy(label string, quad bool) string {
	return "ORDER BY " + strings.Join(Ordering(label, quad), ", ")
}

func columns(quad bool) string {
	if quad {
		return strings.Join(index.Columns[:4], ", ")
	}
	return strings.Join(index.Columns[:3], ", ")
}

// CreateStaging creates the table statements are loaded into.
func CreateStaging() string {
	return fmt.Sprintf("CREATE TABLE %s (s VARCHAR, p VARCHAR, o VARCHAR, g VARCHAR)", StagingTable)
}

// Export selects the distinct staged statements in label order.
func Export(label string, quad bool) string {
	return fmt.Sprintf("SELECT DISTINCT %s FROM %s %s", columns(quad), StagingTable, orderBy(label, quad))
}

// Merge selects the distinct union of several files. Files may disagree on
// whether they carry a graph column; columns are matched by name.
func Merge(paths []string, label string, quad bool) string {
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = Quote(p)
	}
	return fmt.Sprintf("SELECT DISTINCT %s FROM PARQUET_SCAN([%s], union_by_name = true) %s",
		columns(quad), strings.Join(quoted, ", "), orderBy(label, quad))
}

// Difference selects the distinct rows of a absent from b, comparing the
// given shape of columns.
func Difference(a, b, label string, quad bool) string {
	cols := columns(quad)
	return fmt.Sprintf("SELECT * FROM (SELECT DISTINCT %s FROM %s EXCEPT SELECT %s FROM %s) %s",
		cols, Scan(a), cols, Scan(b), orderBy(label, quad))
}

// Dump selects every row of a file. With graphFirst, rows are grouped by
// graph with the default graph first.
func Dump(path string, quad, graphFirst bool) string {
	q := fmt.Sprintf("SELECT %s FROM %s", columns(quad), Scan(path))
	if quad && graphFirst {
		q += " ORDER BY g NULLS FIRST"
	}
	return q
}

// DescribeColumns lists a file's columns; the first result column is the name.
func DescribeColumns(path string) string {
	return fmt.Sprintf("DESCRIBE SELECT * FROM %s LIMIT 1", Scan(path))
}

// IndexMetadata reads the persisted index label.
func IndexMetadata(path string) string {
	return fmt.Sprintf("SELECT value FROM PARQUET_KV_METADATA(%s) WHERE key = %s", Quote(path), Quote(IndexKey))
}

// FileMetadata reads the row and row group counts.
func FileMetadata(path string) string {
	return fmt.Sprintf("SELECT num_rows, num_row_groups FROM PARQUET_FILE_METADATA(%s)", Quote(path))
}

// CountDistinct counts distinct values of one column.
func CountDistinct(path, column string) string {
	return fmt.Sprintf("SELECT COUNT(DISTINCT %s) FROM %s", column, Scan(path))
}

// Compression reads the codec of the first column chunk.
func Compression(path string) string {
	return fmt.Sprintf("SELECT compression FROM PARQUET_METADATA(%s) LIMIT 1", Quote(path))
}
