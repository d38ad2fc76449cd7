package trial_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/signalnine/rabinstat/internal/trial"
)

const sample = "3,10,1,2,true,1.0\n3,10,1,2,false,2.0\n5,12,1,2,true,4.0\n"

func compress(t *testing.T, ext string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch ext {
	case ".gz":
		w := gzip.NewWriter(&buf)
		w.Write(data)
		if err := w.Close(); err != nil {
			t.Fatalf("gzip: %v", err)
		}
	case ".zst":
		w, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatalf("zstd: %v", err)
		}
		w.Write(data)
		if err := w.Close(); err != nil {
			t.Fatalf("zstd: %v", err)
		}
	case ".lz4":
		w := lz4.NewWriter(&buf)
		w.Write(data)
		if err := w.Close(); err != nil {
			t.Fatalf("lz4: %v", err)
		}
	default:
		buf.Write(data)
	}
	return buf.Bytes()
}

func TestOpenCompressed(t *testing.T) {
	for _, ext := range []string{".csv", ".gz", ".zst", ".lz4"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "trials"+ext)
			if err := os.WriteFile(path, compress(t, ext, []byte(sample)), 0o644); err != nil {
				t.Fatal(err)
			}
			f, err := trial.Open(path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer f.Close()
			recs, err := trial.ReadAll(f.Reader)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if len(recs) != 3 {
				t.Fatalf("got %d records, want 3", len(recs))
			}
			if recs[2].States != 5 || recs[2].Elapsed != 4.0 {
				t.Errorf("last record: got %+v", recs[2])
			}
		})
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := trial.Open(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOpenCorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gz")
	os.WriteFile(path, []byte("not gzip at all"), 0o644)
	if _, err := trial.Open(path); err == nil {
		t.Error("expected error for corrupt gzip header")
	}
}
