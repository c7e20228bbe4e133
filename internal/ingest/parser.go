// Package ingest reads exported playlist files into raw header-keyed rows.
//
// The files are loosely structured: different exporters disagree on line
// endings, quoting, and column counts, and a single bad line must never sink
// the rest of the file. The parser here is deliberately forgiving where
// encoding/csv is strict.
package ingest

import "strings"

// Row maps a column header to the raw string value from one data line.
// Rows are never mutated after parsing.
type Row map[string]string

// ParseTable parses delimited text into a header and a slice of rows.
// Re-parsing the same text always yields the same result.
//
// The first non-blank line is the header. Fields are comma-separated with
// double-quote escaping: a quote toggles the in-quote state, a doubled quote
// inside a quoted field is a literal quote, and a comma inside a quoted field
// is data. Rows shorter than the header are padded with empty strings; blank
// rows are skipped. If any of required appears in the header, rows where that
// column is empty are skipped too. A malformed line drops that line only.
func ParseTable(data []byte, required []string) ([]string, []Row) {
	text := strings.TrimPrefix(string(data), "\uFEFF")
	lines := splitLines(text)

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i == len(lines) {
		return nil, nil
	}

	header := splitFields(lines[i])
	for j := range header {
		header[j] = strings.TrimSpace(header[j])
	}

	var requiredPresent []string
	for _, key := range required {
		for _, col := range header {
			if col == key {
				requiredPresent = append(requiredPresent, key)
				break
			}
		}
	}

	var rows []Row
	for _, line := range lines[i+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitFields(line)
		row := make(Row, len(header))
		for j, col := range header {
			if j < len(fields) {
				row[col] = fields[j]
			} else {
				row[col] = ""
			}
		}
		if skip := func() bool {
			for _, key := range requiredPresent {
				if row[key] == "" {
					return true
				}
			}
			return false
		}(); skip {
			continue
		}
		rows = append(rows, row)
	}
	return header, rows
}

// splitLines handles \n, \r\n, and bare \r line endings.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// splitFields tokenizes one line using comma delimiters with double-quote
// escaping. An unterminated quote consumes the rest of the line rather than
// failing.
func splitFields(line string) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				b.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	fields = append(fields, b.String())
	return fields
}
