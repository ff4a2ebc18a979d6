package parser

import (
	"strings"
)

// table is a header-mapped view over column-aligned or delimiter-separated
// rows. The first non-empty line names the columns; short rows are padded
// with empty cells so callers see nulls, not skipped rows.
type table struct {
	columns []string // lowercased header names
	rows    [][]string
	short   []int // 1-based row numbers that were missing trailing columns
}

// parseTable splits raw output on the separator, or on whitespace when the
// separator is empty. Rows wider than the header keep the overflow joined
// into the final column, which is how whitespace-aligned listings carry
// multi-word values in their last field.
func parseTable(raw, sep string) table {
	var t table
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	row := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitRow(line, sep)
		if t.columns == nil {
			t.columns = make([]string, len(fields))
			for i, f := range fields {
				t.columns[i] = strings.ToLower(f)
			}
			continue
		}
		row++
		if len(fields) > len(t.columns) {
			joined := strings.Join(fields[len(t.columns)-1:], " ")
			fields = append(fields[:len(t.columns)-1], joined)
		}
		if len(fields) < len(t.columns) {
			t.short = append(t.short, row)
			for len(fields) < len(t.columns) {
				fields = append(fields, "")
			}
		}
		t.rows = append(t.rows, fields)
	}
	return t
}

func splitRow(line, sep string) []string {
	if sep == "" {
		return strings.Fields(line)
	}
	parts := strings.Split(line, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// col returns the cell under the named column, "" when the column is absent.
func (t table) col(row []string, name string) string {
	for i, c := range t.columns {
		if c == name && i < len(row) {
			return row[i]
		}
	}
	return ""
}

func (t table) wasShort(row int) bool {
	for _, r := range t.short {
		if r == row {
			return true
		}
	}
	return false
}
