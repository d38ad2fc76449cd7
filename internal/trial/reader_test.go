package trial_test

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/signalnine/rabinstat/internal/trial"
)

func TestReaderParsesRows(t *testing.T) {
	input := "3,10,1,2,true,1.5\n5,20,2,4,false,0.25\n"
	recs, err := trial.ReadAll(trial.NewReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	want := []trial.Record{
		{Params: trial.Params{States: 3, Transitions: 10, Acceptances: 1, AccElems: 2}, Nonempty: true, Elapsed: 1.5},
		{Params: trial.Params{States: 5, Transitions: 20, Acceptances: 2, AccElems: 4}, Nonempty: false, Elapsed: 0.25},
	}
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d", len(recs), len(want))
	}
	for i := range want {
		if recs[i] != want[i] {
			t.Errorf("record %d: got %+v, want %+v", i, recs[i], want[i])
		}
	}
}

func TestNonemptyFlagExactMatch(t *testing.T) {
	tests := []struct {
		flag string
		want bool
	}{
		{"true", true},
		{"True", false},
		{"TRUE", false},
		{"1", false},
		{"false", false},
		{"yes", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strconv.Quote(tt.flag), func(t *testing.T) {
			r := trial.NewReader(strings.NewReader("1,1,1,1," + tt.flag + ",1.0\n"))
			rec, err := r.Next()
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if rec.Nonempty != tt.want {
				t.Errorf("flag %q: nonempty = %v, want %v", tt.flag, rec.Nonempty, tt.want)
			}
		})
	}
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		field    string
		sentinel error
	}{
		{"too few fields", "1,2,3,true,1.0\n", 1, "", trial.ErrFieldCount},
		{"too many fields", "1,2,3,4,true,1.0,9\n", 1, "", trial.ErrFieldCount},
		{"bad states", "x,2,3,4,true,1.0\n", 1, "states", nil},
		{"bad elapsed", "1,2,3,4,true,slow\n", 1, "elapsed", nil},
		{"negative transitions", "1,-2,3,4,true,1.0\n", 1, "transitions", trial.ErrRange},
		{"negative elapsed", "1,2,3,4,false,-0.5\n", 1, "elapsed", trial.ErrRange},
		{"nan elapsed", "1,2,3,4,false,NaN\n", 1, "elapsed", trial.ErrRange},
		{"inf elapsed", "1,2,3,4,true,inf\n", 1, "elapsed", trial.ErrRange},
		{"signed inf elapsed", "1,2,3,4,true,+Inf\n", 1, "elapsed", trial.ErrRange},
		{"infinity elapsed", "1,2,3,4,true,Infinity\n", 1, "elapsed", trial.ErrRange},
		{"error on second line", "1,2,3,4,true,1.0\n1,2,3,4,true\n", 2, "", trial.ErrFieldCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := trial.ReadAll(trial.NewReader(strings.NewReader(tt.input)))
			var pe *trial.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("line: got %d, want %d", pe.Line, tt.wantLine)
			}
			if pe.Field != tt.field {
				t.Errorf("field: got %q, want %q", pe.Field, tt.field)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("expected %v in chain, got %v", tt.sentinel, err)
			}
		})
	}
}

func TestReaderToleratesPaddedNumbers(t *testing.T) {
	rec, err := trial.NewReader(strings.NewReader(" 7, 1,2 ,3,true, 0.5\n")).Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.States != 7 || rec.Elapsed != 0.5 {
		t.Errorf("got %+v", rec)
	}
}

func TestReaderStaysExhausted(t *testing.T) {
	r := trial.NewReader(strings.NewReader("1,1,1,1,true,1.0\n"))
	if _, err := r.Next(); err != nil {
		t.Fatalf("first Next: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := r.Next(); err != io.EOF {
			t.Fatalf("call %d after end: got %v, want io.EOF", i, err)
		}
	}
}

func TestReaderEmptyInput(t *testing.T) {
	recs, err := trial.ReadAll(trial.NewReader(strings.NewReader("")))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no records, got %d", len(recs))
	}
}

func TestReaderSkipsBlankLines(t *testing.T) {
	recs, err := trial.ReadAll(trial.NewReader(strings.NewReader("1,1,1,1,true,1.0\n\n2,1,1,1,false,2.0\n")))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 records, got %d", len(recs))
	}
}
