package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.TasksParsed("md", 3)
	r.TasksParsed("md", 2)
	r.TasksParsed("docx", 1)
	r.DateDropped("2024/13/1-1am")
	r.Export("csv", StatusSuccess, 120)
	r.Export("google", StatusNotImplemented, 0)

	if got := testutil.ToFloat64(r.tasksParsed.WithLabelValues("md")); got != 5 {
		t.Errorf("md tasks = %v, want 5", got)
	}
	if got := testutil.ToFloat64(r.datesDropped); got != 1 {
		t.Errorf("dropped dates = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.exports.WithLabelValues("google", StatusNotImplemented)); got != 1 {
		t.Errorf("google exports = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.exportBytes.WithLabelValues("csv")); got != 120 {
		t.Errorf("csv bytes = %v, want 120", got)
	}

	n, err := testutil.GatherAndCount(r.Gatherer(), "mdtasks_export_bytes")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("export bytes series = %d, want 1 (failed exports record no size)", n)
	}
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.DateDropped("x")
	if got := testutil.ToFloat64(b.datesDropped); got != 0 {
		t.Errorf("second recorder saw %v drops", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.TasksParsed("txt", 4)

	path := filepath.Join(t.TempDir(), "mdtasks.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `mdtasks_tasks_parsed_total{source="txt"} 4`) {
		t.Errorf("textfile is missing the parsed counter:\n%s", data)
	}
}
