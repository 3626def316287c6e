// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package roster loads the list of company identifiers a fetch run works
// through. The list comes from one named column of a CSV file and is
// returned as-is, in row order.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrColumnNotFound is returned when the CSV header lacks the requested column.
var ErrColumnNotFound = errors.New("column not found")

// Load reads the CSV file at path and returns the values of column in row
// order. The first record is the header. A missing file, an empty file, or a
// missing column is an error; values themselves are not validated.
func Load(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening identifier list: %w", err)
	}
	defer f.Close()

	ids, err := Read(f, column)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ids, nil
}

// Read parses CSV data from r and returns the values of column.
func Read(r io.Reader, column string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}

	idx := columnIndex(header, column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrColumnNotFound, column, strings.Join(header, ", "))
	}

	var ids []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing row %d: %w", len(ids)+2, err)
		}
		if idx < len(record) {
			ids = append(ids, record[idx])
		} else {
			ids = append(ids, "")
		}
	}
	return ids, nil
}

// Truncate returns the first max identifiers. When max is zero or negative,
// or the list is already short enough, ids is returned unchanged.
func Truncate(ids []string, max int) []string {
	if max <= 0 || len(ids) <= max {
		return ids
	}
	return ids[:max]
}

// columnIndex finds column in header, ignoring a leading byte-order mark and
// surrounding whitespace on header names.
func columnIndex(header []string, column string) int {
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if strings.TrimSpace(name) == column {
			return i
		}
	}
	return -1
}
