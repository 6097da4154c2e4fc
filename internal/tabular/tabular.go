// Package tabular reads and writes the delimited archive exports as
// string-valued tables. Cells are never typed: every downstream consumer
// works on the raw text and applies its own normalization.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/elena2notti/theatreNet/internal/normalize"
)

// Row maps column name to cell text. Missing columns read as "".
type Row map[string]string

// Get returns the trimmed cell under the first matching column name.
func (r Row) Get(cols ...string) string {
	for _, c := range cols {
		if v, ok := r[c]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Table is an ordered set of named columns over string rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// Options controls how an export file is decoded.
type Options struct {
	// Comma is the field separator; zero means ','.
	Comma rune
}

// ReadFile loads a delimited export. Files that are not valid UTF-8 are
// re-decoded as Latin-1, which covers the older Fondazione dumps. Header
// names are trimmed, and unnamed filler columns ("", "Unnamed: N") are
// dropped together with their cells.
func ReadFile(path string, opts Options) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tabular: read %s: %w", path, err)
	}
	if !utf8.Valid(raw) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("tabular: decode %s as latin-1: %w", path, err)
		}
		raw = decoded
	}
	return Parse(raw, opts)
}

// Parse decodes delimited bytes into a Table. See ReadFile for header
// handling.
func Parse(raw []byte, opts Options) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	if opts.Comma != 0 {
		r.Comma = opts.Comma
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tabular: parse: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	header := records[0]
	keep := make([]int, 0, len(header))
	cols := make([]string, 0, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" || strings.HasPrefix(name, "Unnamed") {
			continue
		}
		keep = append(keep, i)
		cols = append(cols, name)
	}

	t := &Table{Columns: cols, Rows: make([]Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		row := make(Row, len(cols))
		for j, i := range keep {
			if i < len(rec) {
				row[cols[j]] = rec[i]
			} else {
				row[cols[j]] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteFile renders the table as comma-separated UTF-8. Every cell passes
// through a final cleanup that removes stray float suffixes and bare "nan"
// markers inherited from the upstream exports.
func WriteFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tabular: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("tabular: write header: %w", err)
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, c := range t.Columns {
			rec[i] = normalize.StripFloatSuffix(row[c])
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("tabular: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("tabular: flush %s: %w", path, err)
	}
	return nil
}

// LeftJoin joins every left row against the right rows sharing its key.
// A left row with several matches repeats once per match; a left row with
// none keeps empty cells for the right columns. The right key column is not
// duplicated into the result.
func LeftJoin(left, right *Table, leftKey, rightKey string) *Table {
	rightCols := make([]string, 0, len(right.Columns))
	for _, c := range right.Columns {
		if c != rightKey {
			rightCols = append(rightCols, c)
		}
	}

	index := make(map[string][]Row, len(right.Rows))
	for _, row := range right.Rows {
		k := strings.TrimSpace(row[rightKey])
		if k == "" {
			continue
		}
		index[k] = append(index[k], row)
	}

	out := &Table{Columns: append(append([]string{}, left.Columns...), rightCols...)}
	for _, lrow := range left.Rows {
		matches := index[strings.TrimSpace(lrow[leftKey])]
		if len(matches) == 0 {
			row := make(Row, len(out.Columns))
			for _, c := range left.Columns {
				row[c] = lrow[c]
			}
			for _, c := range rightCols {
				row[c] = ""
			}
			out.Rows = append(out.Rows, row)
			continue
		}
		for _, rrow := range matches {
			row := make(Row, len(out.Columns))
			for _, c := range left.Columns {
				row[c] = lrow[c]
			}
			for _, c := range rightCols {
				row[c] = rrow[c]
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
