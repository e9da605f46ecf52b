package taskwarrior

import (
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/harrisonrobin/mdtasks/pkg/export"
	"github.com/harrisonrobin/mdtasks/pkg/model"
)

func TestExporterRender(t *testing.T) {
	due := time.Date(2024, 11, 22, 15, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		model.NewTask("Buy milk", "remember the oat kind", &due),
		model.NewTask("Call dentist", "", nil),
	}

	e := NewExporter(Options{
		Project:  "home",
		Tags:     []string{"mdtasks"},
		Location: time.FixedZone("UTC+8", 8*60*60),
		Now:      func() time.Time { return time.Date(2024, 11, 20, 10, 30, 0, 500, time.UTC) },
	})
	data, err := e.Render(tasks)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !gjson.ValidBytes(data) {
		t.Fatalf("output is not valid JSON:\n%s", data)
	}
	if n := gjson.GetBytes(data, "#").Int(); n != 2 {
		t.Fatalf("got %d tasks, want 2", n)
	}

	for path, want := range map[string]string{
		"0.description":               "Buy milk",
		"0.status":                    PENDING,
		"0.project":                   "home",
		"0.due":                       "20241122T070000Z",
		"0.entry":                     "20241120T103000Z",
		"0.annotations.0.description": "remember the oat kind",
		"1.tags.0":                    "mdtasks",
	} {
		if got := gjson.GetBytes(data, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
	for _, path := range []string{"1.due", "1.annotations"} {
		if gjson.GetBytes(data, path).Exists() {
			t.Errorf("%s should be omitted for an undated task without description", path)
		}
	}
}

func TestExporterWithoutProject(t *testing.T) {
	data, err := NewExporter(Options{}).Render([]model.Task{model.NewTask("Solo", "", nil)})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if gjson.GetBytes(data, "0.project").Exists() || gjson.GetBytes(data, "0.tags").Exists() {
		t.Errorf("project and tags should be omitted when unset:\n%s", data)
	}
}

func TestRegister(t *testing.T) {
	r := export.DefaultRegistry()
	Register(r, Options{Project: "work"})

	f, err := r.ParseFormat("Taskwarrior")
	if err != nil {
		t.Fatalf("ParseFormat failed: %v", err)
	}
	data, err := r.Render(f, []model.Task{model.NewTask("Report", "", nil)})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := gjson.GetBytes(data, "0.project").String(); got != "work" {
		t.Errorf("project = %q, want the registered options", got)
	}

	if _, err := export.DefaultRegistry().ParseFormat("taskwarrior"); err == nil {
		t.Error("a fresh registry should not know the taskwarrior format")
	}
}
