package nace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header names of the required columns in the upstream export.
const (
	ColLevel   = "LEVEL"
	ColCode    = "CODE"
	ColTitleNL = "NATIONAL_TITLE_BE_NL"
	ColTitleFR = "NATIONAL_TITLE_BE_FR"
	ColTitleDE = "NATIONAL_TITLE_BE_DE"
	ColTitleEN = "NATIONAL_TITLE_BE_EN"
)

// RequiredColumns lists every column Parse needs, in the order they are reported when missing.
var RequiredColumns = []string{ColLevel, ColCode, ColTitleNL, ColTitleFR, ColTitleDE, ColTitleEN}

// maxLineSize bounds a single line of the export.
const maxLineSize = 1 << 20

// maxRowErrors caps how many rejected rows are kept in ParseResult.RowErrors.
const maxRowErrors = 20

// HeaderIndex maps lower-cased, trimmed header names to their column position.
// The first occurrence of a name wins.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a HeaderIndex from a header row.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

// Lookup returns the position of column name, matched case-insensitively.
func (h HeaderIndex) Lookup(name string) (int, bool) {
	i, ok := h[strings.ToLower(strings.TrimSpace(name))]
	return i, ok
}

// RowError describes a data row that was rejected by record validation.
type RowError struct {
	Line int // 1-based line number in the document
	Err  error
}

// ParseResult is the output of Parse.
type ParseResult struct {
	Records   []Record
	Rows      int        // non-blank data rows seen
	Skipped   int        // rows dropped: too short, level 0/1, or invalid
	RowErrors []RowError // first rejected rows that failed validation
}

// columns holds the resolved positions of the required columns.
type columns struct {
	level, code, nl, fr, de, en int
	minFields                   int
}

func resolveColumns(idx HeaderIndex) (columns, error) {
	var missing []string
	pos := make(map[string]int, len(RequiredColumns))
	for _, name := range RequiredColumns {
		i, ok := idx.Lookup(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		pos[name] = i
	}
	if len(missing) > 0 {
		return columns{}, &SchemaError{Missing: missing}
	}

	c := columns{
		level: pos[ColLevel],
		code:  pos[ColCode],
		nl:    pos[ColTitleNL],
		fr:    pos[ColTitleFR],
		de:    pos[ColTitleDE],
		en:    pos[ColTitleEN],
	}
	c.minFields = max(c.level, c.code, c.nl, c.fr, c.de, c.en) + 1
	return c, nil
}

// Parse reads a comma-separated export with a header row and returns the
// retained records in document order.
//
// A leading BOM is skipped and invalid UTF-8 is replaced before tokenizing.
// Rows that are blank, too short, of level 0 or 1, or whose code does not
// fit their level are skipped. A missing required column fails the whole
// parse with *SchemaError.
func Parse(r io.Reader) (*ParseResult, error) {
	scanner := bufio.NewScanner(NewUTF8Sanitizer(NewBOMSkippingReader(r)))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, &SchemaError{Missing: append([]string(nil), RequiredColumns...)}
	}
	cols, err := resolveColumns(MakeHeaderIndex(SplitLine(scanner.Text())))
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	line := 1
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		result.Rows++

		values := SplitLine(text)
		if len(values) < cols.minFields {
			result.Skipped++
			continue
		}

		level := parseLevel(values[cols.level])
		if level < MinLevel {
			result.Skipped++
			continue
		}

		rec, err := NewRecord(level, values[cols.code], Titles{
			EN: values[cols.en],
			DE: values[cols.de],
			FR: values[cols.fr],
			NL: values[cols.nl],
		})
		if err != nil {
			result.Skipped++
			if len(result.RowErrors) < maxRowErrors {
				result.RowErrors = append(result.RowErrors, RowError{Line: line, Err: err})
			}
			continue
		}
		result.Records = append(result.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", line+1, err)
	}

	return result, nil
}

// SplitLine tokenizes one line on commas. A double quote toggles the
// "inside quoted span" state and is dropped; commas inside a span do not
// split. Doubled quotes are not treated as escapes. Fields are trimmed.
func SplitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}

// parseLevel reads the leading decimal digits of s. Anything unparsable is level 0.
func parseLevel(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	level, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return level
}
