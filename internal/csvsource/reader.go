// Package csvsource reads delimited text files into importer rows.
//
// The first record of a source is the header and supplies the column
// names every row is addressed by. Parsing follows RFC 4180 with a
// configurable delimiter; non-UTF-8 sources are transcoded before
// parsing and a UTF-8 byte order mark is always skipped.
package csvsource

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/JonMunkholm/csv2sql/internal/importer"
)

// Options configures parsing of a delimited source.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune

	// TrimLeadingSpace drops white space (tabs included) at the start
	// of each field.
	TrimLeadingSpace bool

	// Encoding names the source charset: "utf-8" (default),
	// "latin-1" or "windows-1252".
	Encoding string
}

// Reader yields one Row per data line of a delimited source. It
// implements importer.RowSource.
type Reader struct {
	csv     *csv.Reader
	header  []string
	current importer.Row
	err     error
}

// New wraps r according to opts, then reads and validates the header
// record. Every subsequent record must have exactly as many fields as
// the header.
func New(r io.Reader, opts Options) (*Reader, error) {
	decoded, err := decode(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(skipBOM(decoded))
	cr.Comma = ','
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = opts.TrimLeadingSpace

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, fmt.Errorf("malformed header: %w", err)
	}
	cr.FieldsPerRecord = len(header)

	return &Reader{csv: cr, header: header}, nil
}

// Header returns a copy of the column names.
func (r *Reader) Header() []string {
	return append([]string(nil), r.header...)
}

// Next advances to the next data row. It returns false at end of
// input or on the first error; check Err afterwards.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	fields, err := r.csv.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		r.err = err
		return false
	}
	row := make(importer.Row, len(r.header))
	for i, name := range r.header {
		row[name] = fields[i]
	}
	r.current = row
	return true
}

// Row returns the row produced by the last successful Next.
func (r *Reader) Row() importer.Row { return r.current }

// Err reports the first non-EOF error encountered while reading.
func (r *Reader) Err() error { return r.err }

// decode transcodes non-UTF-8 input to UTF-8.
func decode(r io.Reader, name string) (io.Reader, error) {
	var enc encoding.Encoding
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin-1", "iso-8859-1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// skipBOM drops a UTF-8 byte order mark, commonly added by Windows
// tools, before parsing starts.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	return br
}

// validateHeader rejects empty headers, empty column names and
// duplicate column names.
func validateHeader(header []string) error {
	if len(header) == 0 {
		return fmt.Errorf("empty header")
	}
	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		if name == "" {
			return fmt.Errorf("empty column name in header %q", header)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate column %q in header", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
