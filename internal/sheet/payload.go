package sheet

import (
	"fmt"
	"strconv"
	"strings"
)

// RawColumn is a column header as delivered by the source.
type RawColumn struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type,omitempty"`
}

// RawCell is a single cell. V holds the typed value (string, float64, bool or
// nil), F the display text the sheet rendered for it, if any.
type RawCell struct {
	V any    `json:"v"`
	F string `json:"f,omitempty"`
}

// RawRow is an ordered list of cells. Cells may be nil and the list may be
// shorter than the column list.
type RawRow struct {
	C []*RawCell `json:"c"`
}

// RawTable is the undecorated tabular form shared by every source format.
type RawTable struct {
	Cols []RawColumn `json:"cols"`
	Rows []RawRow    `json:"rows"`
}

// Row maps a resolved column label to its cell text.
type Row map[string]string

// Payload is the normalized table handed to the event extractor.
type Payload struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of retained rows.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Rows)
}

// ColumnLabel returns the label used for the column at index i (0-based).
// Blank labels are replaced by "ColumnN" with N 1-based.
func ColumnLabel(label string, i int) string {
	if l := strings.TrimSpace(label); l != "" {
		return l
	}
	return fmt.Sprintf("Column%d", i+1)
}

// Normalize resolves column labels and converts every non-blank row into a
// Row. A nil table, or one without columns or rows, yields an empty Payload.
// When two columns share a label the later column wins.
func Normalize(t *RawTable) *Payload {
	p := &Payload{
		Columns: []string{},
		Rows:    []Row{},
	}
	if t == nil || len(t.Cols) == 0 {
		return p
	}

	for i, col := range t.Cols {
		p.Columns = append(p.Columns, ColumnLabel(col.Label, i))
	}

	for _, raw := range t.Rows {
		row := make(Row, len(p.Columns))
		hasData := false
		for i, label := range p.Columns {
			var cell *RawCell
			if i < len(raw.C) {
				cell = raw.C[i]
			}
			value := cellString(cell)
			if strings.TrimSpace(value) != "" {
				hasData = true
			}
			row[label] = value
		}
		if hasData {
			p.Rows = append(p.Rows, row)
		}
	}

	return p
}

// cellString renders a cell value as text; nil cells and nil values are "".
func cellString(c *RawCell) string {
	if c == nil || c.V == nil {
		return ""
	}
	switch v := c.V.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// fromRecords builds a RawTable from string records whose first record holds
// the column labels. Used by the CSV, XLSX and HTML decoders.
func fromRecords(records [][]string) *RawTable {
	t := &RawTable{}
	if len(records) == 0 {
		return t
	}

	for i, label := range records[0] {
		t.Cols = append(t.Cols, RawColumn{ID: fmt.Sprintf("%d", i), Label: label, Type: "string"})
	}

	for _, rec := range records[1:] {
		row := RawRow{C: make([]*RawCell, len(rec))}
		for i, value := range rec {
			row.C[i] = &RawCell{V: value}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
