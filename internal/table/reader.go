package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/net/html/charset"
)

// ReadOptions controls how delimited text is decoded
type ReadOptions struct {
	Comma   rune   // Field delimiter, 0 means detect from name and content
	Charset string // Charset label (e.g. "latin1"), empty means detect
}

const utf8BOM = "\ufeff"

// Open reads a table from a CSV or TSV file. Files ending in .gz are
// decompressed on the fly.
func Open(path string, opts ReadOptions) (Table, error) {
	r, err := OpenReader(path)
	if err != nil {
		return Table{}, err
	}
	defer r.Close()
	return Read(r, path, opts)
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g gzipFile) Close() error {
	g.Reader.Close()
	return g.f.Close()
}

// OpenReader opens a file for reading, decompressing it if the name
// ends in .gz
func OpenReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !IsGzip(path) {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return gzipFile{Reader: zr, f: f}, nil
}

// IsGzip reports whether the file name indicates gzip compression
func IsGzip(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".gz")
}

// BaseExt returns the format extension of name, ignoring a trailing .gz
func BaseExt(name string) string {
	if IsGzip(name) {
		name = name[:len(name)-len(filepath.Ext(name))]
	}
	return strings.ToLower(filepath.Ext(name))
}

// Read reads delimited text from r. Parameter name is used to detect the
// delimiter when opts.Comma is 0, and to identify the table in errors.
func Read(r io.Reader, name string, opts ReadOptions) (Table, error) {
	t := Table{Name: name}

	var err error
	if opts.Charset != `` {
		r, err = charset.NewReaderLabel(opts.Charset, r)
	} else {
		r, err = charset.NewReader(r, `text/csv`)
	}
	if err != nil {
		return t, fmt.Errorf("%s: %w", name, err)
	}

	br := bufio.NewReader(r)
	comma := opts.Comma
	if comma == 0 {
		comma, err = sniffComma(br, name)
		if err != nil {
			return t, fmt.Errorf("%s: %w", name, err)
		}
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1 // Checked below, so we can report our own error
	cr.TrimLeadingSpace = true
	if comma == '\t' {
		cr.LazyQuotes = true
	}

	header, err := cr.Read()
	if err == io.EOF {
		return t, fmt.Errorf("%s: %w", name, ErrNoHeader)
	}
	if err != nil {
		return t, fmt.Errorf("%s: %w", name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	t.Header = header

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return t, fmt.Errorf("%s: %w", name, err)
		}
		// Skip lines holding only white space, often found at the end of
		// spreadsheet exports. Rows are numbered by data record, not by
		// physical line.
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == `` {
			continue
		}
		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			return t, fmt.Errorf("%s line %d: %w (%d fields, expected %d)",
				name, line, ErrRaggedRow, len(rec), len(header))
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// sniffComma determines the delimiter. The extension decides if it is
// conclusive, otherwise the first line is inspected.
func sniffComma(br *bufio.Reader, name string) (rune, error) {
	switch BaseExt(name) {
	case `.tsv`, `.tab`:
		return '\t', nil
	case `.csv`:
		return ',', nil
	}
	line, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, err
	}
	if i := strings.IndexByte(string(line), '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(string(line), "\t") > strings.Count(string(line), ",") {
		return '\t', nil
	}
	return ',', nil
}
