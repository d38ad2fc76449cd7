package trial

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// NumFields is the number of columns in every input row.
const NumFields = 6

var (
	ErrFieldCount = errors.New("wrong number of fields")
	ErrRange      = errors.New("value out of range")
)

var fieldNames = [NumFields]string{"states", "transitions", "acceptances", "acc_elems", "nonempty", "elapsed"}

// ParseError reports a malformed input row.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: field %s: %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Reader yields records from comma separated text, one row at a time. It
// cannot be rewound; once Next returns io.EOF it keeps doing so.
type Reader struct {
	csv  *csv.Reader
	done bool
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &Reader{csv: cr}
}

// Next returns the next record, io.EOF at the end of input, or a
// *ParseError for a malformed row.
func (r *Reader) Next() (Record, error) {
	if r.done {
		return Record{}, io.EOF
	}
	row, err := r.csv.Read()
	if err == io.EOF {
		r.done = true
		return Record{}, io.EOF
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return Record{}, &ParseError{Line: pe.Line, Err: pe.Err}
		}
		return Record{}, fmt.Errorf("reading trials: %w", err)
	}
	line, _ := r.csv.FieldPos(0)
	if len(row) != NumFields {
		return Record{}, &ParseError{Line: line, Err: fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(row), NumFields)}
	}
	return parseRow(row, line)
}

func parseRow(row []string, line int) (Record, error) {
	var ints [4]int
	for i := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(row[i]))
		if err != nil {
			return Record{}, &ParseError{Line: line, Field: fieldNames[i], Err: err}
		}
		if v < 0 {
			return Record{}, &ParseError{Line: line, Field: fieldNames[i], Err: fmt.Errorf("%w: %d", ErrRange, v)}
		}
		ints[i] = v
	}
	elapsed, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	if err != nil {
		return Record{}, &ParseError{Line: line, Field: fieldNames[5], Err: err}
	}
	if !(elapsed >= 0) || math.IsInf(elapsed, 0) {
		return Record{}, &ParseError{Line: line, Field: fieldNames[5], Err: fmt.Errorf("%w: %v", ErrRange, elapsed)}
	}
	return Record{
		Params: Params{
			States:      ints[0],
			Transitions: ints[1],
			Acceptances: ints[2],
			AccElems:    ints[3],
		},
		// Only the exact literal counts as nonempty.
		Nonempty: row[4] == "true",
		Elapsed:  elapsed,
	}, nil
}

// ReadAll drains r. It is meant for tests and small inputs.
func ReadAll(r *Reader) ([]Record, error) {
	var recs []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return recs, err
		}
		recs = append(recs, rec)
	}
}
