package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/signalnine/rabinstat/internal/aggregate"
	"github.com/signalnine/rabinstat/internal/report"
	"github.com/signalnine/rabinstat/internal/result"
	"github.com/signalnine/rabinstat/internal/trial"
)

func sampleAggregator() *aggregate.Aggregator {
	agg := aggregate.New()
	for _, r := range []trial.Record{
		{Params: trial.Params{States: 3, Transitions: 9, Acceptances: 1, AccElems: 2}, Nonempty: true, Elapsed: 1.0},
		{Params: trial.Params{States: 3, Transitions: 9, Acceptances: 1, AccElems: 2}, Nonempty: true, Elapsed: 3.0},
		{Params: trial.Params{States: 3, Transitions: 9, Acceptances: 1, AccElems: 2}, Nonempty: false, Elapsed: 2.0},
		{Params: trial.Params{States: 5, Transitions: 15, Acceptances: 1, AccElems: 2}, Nonempty: true, Elapsed: 4.0},
	} {
		agg.Add(r)
	}
	return agg
}

func TestWriteSeriesOrder(t *testing.T) {
	set := aggregate.Set{
		Nonempty: aggregate.Series{{States: 3, Seconds: 2}, {States: 5, Seconds: 4}},
		Empty:    aggregate.Series{{States: 3, Seconds: 0.5}},
		Combined: aggregate.Series{{States: 3, Seconds: 1.25}},
	}
	var buf bytes.Buffer
	if err := report.WriteSeries(&buf, set); err != nil {
		t.Fatalf("WriteSeries: %v", err)
	}
	want := "[2.0, 4.0]\n\n[1.25]\n\n[0.5]\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteSeriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	report.WriteSeries(&buf, aggregate.New().Series())
	if buf.String() != "[]\n\n[]\n\n[]\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestBuild(t *testing.T) {
	s := report.Build(sampleAggregator())
	if s.Records != 4 {
		t.Errorf("records: got %d, want 4", s.Records)
	}
	if len(s.Groups) != 2 {
		t.Fatalf("groups: got %d, want 2", len(s.Groups))
	}
	g3, g5 := s.Groups[0], s.Groups[1]
	if g3.States != 3 || g5.States != 5 {
		t.Fatalf("group order: got %d, %d", g3.States, g5.States)
	}
	if g3.CombinedAvg == nil || *g3.CombinedAvg != 2 {
		t.Errorf("group 3 combined: got %v", g3.CombinedAvg)
	}
	if g5.EmptyAvg != nil || g5.CombinedAvg != nil {
		t.Errorf("group 5 should have no empty or combined average")
	}
	if g5.Transitions != 15 {
		t.Errorf("group 5 transitions: got %d", g5.Transitions)
	}
}

func TestWriteFormats(t *testing.T) {
	s := report.Build(sampleAggregator())
	tests := []struct {
		format string
		want   []string
	}{
		{"table", []string{"STATES", "2.0000", "4.0000", "4 records in 2 groups"}},
		{"markdown", []string{"| States |", "| 5 | 15 | 1 | 2 | 1 | 4.0000 | 0 | - | - |"}},
		{"series", []string{"[2.0, 4.0]\n\n[2.0]\n\n[2.0]"}},
		{"bogus", []string{"STATES"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := report.Write(s, tt.format, &buf); err != nil {
				t.Fatalf("Write: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Write(report.Build(sampleAggregator()), "json", &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var got result.Summary
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got.Series.Nonempty) != 2 {
		t.Errorf("nonempty series: got %d points, want 2", len(got.Series.Nonempty))
	}
	if !strings.Contains(buf.String(), `"empty_avg_s": null`) {
		t.Errorf("expected null average for group without empty trials:\n%s", buf.String())
	}
}

func TestGenerate(t *testing.T) {
	runDir := t.TempDir()
	if err := result.WriteSummary(runDir, report.Build(sampleAggregator())); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	var buf bytes.Buffer
	if err := report.Generate(runDir, "series", &buf); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if buf.String() != "[2.0, 4.0]\n\n[2.0]\n\n[2.0]\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestGenerateMissingRun(t *testing.T) {
	if err := report.Generate(t.TempDir(), "table", &bytes.Buffer{}); err == nil {
		t.Error("expected error for run without summary")
	}
}

func TestWriteSeriesFloatForms(t *testing.T) {
	set := aggregate.Set{Nonempty: aggregate.Series{
		{States: 1, Seconds: 0.1},
		{States: 2, Seconds: 1234567},
		{States: 3, Seconds: 0.00001},
		{States: 4, Seconds: 1e16},
	}}
	var buf bytes.Buffer
	report.WriteSeries(&buf, set)
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if first != "[0.1, 1234567.0, 1e-05, 1e+16]" {
		t.Errorf("got %q", first)
	}
}
