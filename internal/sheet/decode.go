package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
)

// Format identifies how a sheet export is encoded.
type Format string

const (
	FormatGViz Format = "gviz"
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned when a format name is not recognized.
var ErrUnsupportedFormat = errors.New("unsupported sheet format")

// ParseFormat maps a user-supplied format name to a Format.
// "json" is accepted as an alias for gviz.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gviz", "json":
		return FormatGViz, nil
	case "html", "htm":
		return FormatHTML, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// InferFormat guesses the format from a file name or URL.
// Google Sheets gviz endpoints and unknown names default to gviz.
func InferFormat(name string) Format {
	full := strings.ToLower(name)
	path := full
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	switch {
	case strings.HasSuffix(path, ".csv"), strings.Contains(full, "format=csv"),
		strings.Contains(full, "output=csv"), strings.Contains(full, "tqx=out:csv"):
		return FormatCSV
	case strings.HasSuffix(path, ".xlsx"), strings.Contains(full, "format=xlsx"):
		return FormatXLSX
	case strings.HasSuffix(path, ".html"), strings.HasSuffix(path, ".htm"), strings.HasSuffix(path, "/pubhtml"):
		return FormatHTML
	default:
		return FormatGViz
	}
}

// Decode reads a raw table in the given format.
func Decode(r io.Reader, format Format) (*RawTable, error) {
	switch format {
	case FormatGViz:
		return DecodeGViz(r)
	case FormatHTML:
		return DecodeHTML(r)
	case FormatCSV:
		return DecodeCSV(r)
	case FormatXLSX:
		return DecodeXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// LoadFile decodes and normalizes a sheet export stored on disk. An empty
// format is inferred from the file extension.
func LoadFile(path string, format Format) (*Payload, error) {
	if format == "" {
		format = InferFormat(path)
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening sheet file: %w", err)
	}
	defer f.Close()

	table, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s sheet: %w", format, err)
	}
	return Normalize(table), nil
}

// gvizResponse is the envelope returned by the Google Visualization endpoint.
type gvizResponse struct {
	Status string    `json:"status"`
	Table  *RawTable `json:"table"`
	Errors []struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"errors"`
}

// ErrMalformedGViz is returned for a gviz body that opens a JSON object
// without closing it, typically a truncated response.
var ErrMalformedGViz = errors.New("malformed gviz response")

// DecodeGViz parses a gviz response. The JavaScript callback wrapper
// ("google.visualization.Query.setResponse(...);") is stripped if present.
// A body with no JSON object, or a well-formed envelope without a table,
// decodes to an empty table.
func DecodeGViz(r io.Reader) (*RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading gviz response: %w", err)
	}

	start := bytes.IndexByte(data, '{')
	if start < 0 {
		return &RawTable{}, nil
	}
	end := bytes.LastIndexByte(data, '}')
	if end < start {
		return nil, fmt.Errorf("%w: unterminated object", ErrMalformedGViz)
	}
	data = data[start : end+1]

	var resp gvizResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGViz, err)
	}

	if resp.Status == "error" && len(resp.Errors) > 0 {
		return nil, fmt.Errorf("gviz error: %s: %s", resp.Errors[0].Reason, resp.Errors[0].Message)
	}

	if resp.Table == nil {
		// Accept a bare {"cols": ..., "rows": ...} object as well.
		var table RawTable
		if err := json.Unmarshal(data, &table); err != nil {
			return &RawTable{}, nil
		}
		return &table, nil
	}
	return resp.Table, nil
}

// DecodeHTML parses the first <table> of a published sheet page. Only <td>
// cells are read so the column-letter and row-number <th> headers that
// Google Sheets renders are ignored. The first row with any text supplies
// the column labels.
func DecodeHTML(r io.Reader) (*RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var records [][]string
	doc.Find("table").First().Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		rec := make([]string, 0, cells.Length())
		blank := true
		cells.Each(func(_ int, td *goquery.Selection) {
			text := strings.TrimSpace(td.Text())
			if text != "" {
				blank = false
			}
			rec = append(rec, text)
		})
		if len(records) == 0 && blank {
			return
		}
		records = append(records, rec)
	})

	return fromRecords(records), nil
}

// DecodeCSV parses a CSV export whose first record holds the labels.
// Ragged records are allowed and a UTF-8 byte order mark is dropped.
func DecodeCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\uFEFF")
	}
	return fromRecords(records), nil
}

// DecodeXLSX reads the first worksheet of an XLSX workbook.
func DecodeXLSX(r io.Reader) (*RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &RawTable{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return fromRecords(rows), nil
}

// Source produces a normalized payload on demand.
type Source interface {
	Fetch(ctx context.Context) (*Payload, error)
}

// FileSource reads a sheet export from disk on every Fetch.
type FileSource struct {
	Path   string
	Format Format
}

// Fetch loads and normalizes the file.
func (f FileSource) Fetch(ctx context.Context) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(f.Path, f.Format)
}
