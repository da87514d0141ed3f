// Package measurements reads a single numeric column from comma-separated input.
package measurements

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gwenn/yacr"
)

// DefaultColumn is the 0-based field index holding the measurement.
const DefaultColumn = 1

// headerRecords is the number of leading records skipped before data.
const headerRecords = 1

// Sentinel errors for input loading.
var (
	// ErrOpen indicates the input file could not be opened or read.
	ErrOpen = errors.New("cannot read input")
	// ErrParse indicates a data record whose measurement field is missing or not a float.
	ErrParse = errors.New("cannot parse measurement")
	// ErrInvalidColumn indicates a negative column index.
	ErrInvalidColumn = errors.New("column index must not be negative")
)

// ReadFile loads the measurement column from the CSV file at path.
func ReadFile(path string, column int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	defer f.Close()

	return Read(f, column)
}

// Read loads the measurement column from CSV data with one header record.
// Blank records are ignored; any other record must carry a float in column.
func Read(r io.Reader, column int) ([]float64, error) {
	if column < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColumn, column)
	}

	reader := yacr.DefaultReader(r)
	reader.Trim = true

	err := reader.SkipRecords(headerRecords)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrOpen, err)
	}

	var (
		values []float64
		rec    record
	)

	recordNo := headerRecords

	for reader.Scan() {
		rec.push(reader.Text(), column)

		if !reader.EndOfRecord() {
			continue
		}

		recordNo++

		values, err = rec.appendTo(values, column, recordNo)
		if err != nil {
			return nil, err
		}

		rec = record{}
	}

	scanErr := reader.Err()
	if scanErr != nil {
		return nil, fmt.Errorf("%w: record %d: %w", ErrOpen, recordNo+1, scanErr)
	}

	return values, nil
}

// record accumulates the fields of the record being scanned.
type record struct {
	cell     string
	fields   int
	found    bool
	nonBlank bool
}

func (r *record) push(text string, column int) {
	if r.fields == column {
		r.cell = text
		r.found = true
	}

	if text != "" {
		r.nonBlank = true
	}

	r.fields++
}

func (r *record) appendTo(values []float64, column, recordNo int) ([]float64, error) {
	if r.fields == 1 && !r.nonBlank {
		return values, nil
	}

	if !r.found {
		return nil, fmt.Errorf("%w: record %d has %d fields, no column %d", ErrParse, recordNo, r.fields, column)
	}

	v, err := strconv.ParseFloat(r.cell, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: record %d: %w", ErrParse, recordNo, err)
	}

	return append(values, v), nil
}
