// Package bpsv parses Blizzard's pipe-separated-values configuration format, used for '.build.info', CDN config, and
// version/cdns manifests served by Ribbit and TACT. The format has no stdlib or third-party equivalent (it is not
// CSV: the header row carries a type+width per column, and an optional '##seqn' comment precedes the data rows), so
// this is a hand-written cursor parser: an explicit byte-index state machine with typed parse errors rather than a
// generic tokenizer.
package bpsv

import (
	"fmt"
	"strconv"
	"strings"

	fmaps "github.com/ngdp-go/casc/functional/maps"
)

// ColumnType is the declared type of a BPSV column, taken from its header annotation.
type ColumnType string

const (
	// TypeString is an arbitrary string column ("STRING:0").
	TypeString ColumnType = "STRING"
	// TypeHex is a fixed-width hex-encoded column ("HEX:16" is a 16-byte field, written as 32 hex characters).
	TypeHex ColumnType = "HEX"
	// TypeDec is a decimal integer column ("DEC:4").
	TypeDec ColumnType = "DEC"
)

// Column describes one header column: its name, declared type, and declared width.
type Column struct {
	Name  string
	Type  ColumnType
	Width int
}

// Document is a fully parsed BPSV document: its column schema, optional sequence number, and data rows.
type Document struct {
	Columns  []Column
	Seqn     int
	HasSeqn  bool
	Rows     []Row
}

// Row is one data row, indexed by column name.
type Row map[string]string

// ColumnIndex returns the position of name in d.Columns, or -1 if no such column exists.
func (d *Document) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}

	return -1
}

// String returns the string value of column name in row r ("" if absent).
func (r Row) String(name string) string {
	return r[name]
}

// Filter returns a copy of r containing only the entries matching every predicate in p. A ribbit/tactclient caller
// that only cares about a handful of columns (e.g. "Region" and "BuildConfig" out of a versions document's full row)
// can use this to trim what it carries forward without holding a reference into the parsed Document.
func (r Row) Filter(p ...func(k, v string) bool) Row {
	copied := make(Row, len(r))
	for k, v := range r {
		copied[k] = v
	}

	return fmaps.Filter(copied, p...)
}

// Int returns the integer value of column name in row r, parsed as base 10.
func (r Row) Int(name string) (int64, error) {
	v, ok := r[name]
	if !ok {
		return 0, fmt.Errorf("bpsv: no such column %q", name)
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bpsv: column %q: %w", name, err)
	}

	return n, nil
}

// ParseError reports a malformed document with the offending line number (1-indexed).
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bpsv: line %d: %s", e.Line, e.Reason)
}

// Parse decodes a BPSV document from its raw text.
func Parse(text string) (*Document, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, &ParseError{Line: 0, Reason: "empty document"}
	}

	columns, err := parseHeader(lines[0])
	if err != nil {
		return nil, err
	}

	doc := &Document{Columns: columns}

	rowLines := lines[1:]
	firstRowLine := 2

	if len(rowLines) > 0 && strings.HasPrefix(rowLines[0], "##") {
		seqn, ok := parseSeqnComment(rowLines[0])
		if ok {
			doc.Seqn = seqn
			doc.HasSeqn = true
		}

		rowLines = rowLines[1:]
		firstRowLine = 3
	}

	for i, line := range rowLines {
		if line == "" {
			continue
		}

		row, err := parseRow(line, columns)
		if err != nil {
			return nil, &ParseError{Line: i + firstRowLine, Reason: err.Error()}
		}

		doc.Rows = append(doc.Rows, row)
	}

	return doc, nil
}

// splitLines splits text on '\n', trimming a trailing '\r' from each line and dropping a final empty line.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")

	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, strings.TrimSuffix(l, "\r"))
	}

	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// parseHeader parses the column schema line: "name!TYPE:size|name2!TYPE:size|...".
func parseHeader(line string) ([]Column, error) {
	fields := strings.Split(line, "|")

	columns := make([]Column, 0, len(fields))

	for _, field := range fields {
		bang := strings.IndexByte(field, '!')
		if bang < 0 {
			return nil, &ParseError{Line: 1, Reason: fmt.Sprintf("column %q missing '!TYPE:size' annotation", field)}
		}

		name := field[:bang]
		annotation := field[bang+1:]

		colon := strings.IndexByte(annotation, ':')
		if colon < 0 {
			return nil, &ParseError{Line: 1, Reason: fmt.Sprintf("column %q missing ':size' in annotation", name)}
		}

		width, err := strconv.Atoi(annotation[colon+1:])
		if err != nil {
			return nil, &ParseError{Line: 1, Reason: fmt.Sprintf("column %q has non-numeric width: %v", name, err)}
		}

		columns = append(columns, Column{
			Name:  name,
			Type:  ColumnType(annotation[:colon]),
			Width: width,
		})
	}

	return columns, nil
}

// parseSeqnComment parses a "##seqn = 12345" comment line, returning ok=false if it is some other comment.
func parseSeqnComment(line string) (int, bool) {
	body := strings.TrimPrefix(line, "##")

	eq := strings.IndexByte(body, '=')
	if eq < 0 {
		return 0, false
	}

	key := strings.TrimSpace(body[:eq])
	if key != "seqn" {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(body[eq+1:]))
	if err != nil {
		return 0, false
	}

	return n, true
}

// parseRow splits a pipe-delimited data row into a Row keyed by column name.
func parseRow(line string, columns []Column) (Row, error) {
	fields := strings.Split(line, "|")
	if len(fields) != len(columns) {
		return nil, fmt.Errorf("expected %d fields, got %d", len(columns), len(fields))
	}

	row := make(Row, len(columns))
	for i, c := range columns {
		row[c.Name] = fields[i]
	}

	return row, nil
}

// Encode serializes doc back into BPSV text, in the same header/seqn/rows shape it was parsed from.
func Encode(doc *Document) string {
	var b strings.Builder

	headerFields := make([]string, len(doc.Columns))
	for i, c := range doc.Columns {
		headerFields[i] = fmt.Sprintf("%s!%s:%d", c.Name, c.Type, c.Width)
	}

	b.WriteString(strings.Join(headerFields, "|"))
	b.WriteString("\n")

	if doc.HasSeqn {
		fmt.Fprintf(&b, "## seqn = %d\n", doc.Seqn)
	}

	for _, row := range doc.Rows {
		fields := make([]string, len(doc.Columns))
		for i, c := range doc.Columns {
			fields[i] = row[c.Name]
		}

		b.WriteString(strings.Join(fields, "|"))
		b.WriteString("\n")
	}

	return b.String()
}
