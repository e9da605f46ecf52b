package taskwarrior

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harrisonrobin/mdtasks/pkg/export"
	"github.com/harrisonrobin/mdtasks/pkg/model"
)

// Format is the export name for `task import` JSON.
const Format export.Format = "taskwarrior"

// Register adds the taskwarrior format to r.
func Register(r *export.Registry, opts Options) {
	r.Register(Format, NewExporter(opts))
}

type Options struct {
	// Project and Tags are stamped on every imported task.
	Project string
	Tags    []string
	// Location is the zone due dates were written in. Nil means time.Local.
	Location *time.Location
	// Now stamps entry times. Nil means time.Now.
	Now func() time.Time
}

// Exporter renders tasks as a JSON array accepted by `task import`.
// The title becomes the description and the description an annotation.
type Exporter struct {
	opts Options
}

func NewExporter(opts Options) *Exporter {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Exporter{opts: opts}
}

func (e *Exporter) Extension() string { return "json" }

func (e *Exporter) Render(tasks []model.Task) ([]byte, error) {
	entry := &CustomTime{Time: e.opts.Now().UTC().Truncate(time.Second)}
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, e.convert(t, entry))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode taskwarrior json: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) convert(t model.Task, entry *CustomTime) Task {
	tw := Task{
		Description: t.Title,
		Status:      PENDING,
		Entry:       entry,
		Project:     e.opts.Project,
		Tags:        e.opts.Tags,
	}
	if t.HasDueDate() {
		tw.Due = &CustomTime{Time: t.DueIn(e.opts.Location).UTC()}
	}
	if t.HasDescription() {
		tw.Annotations = []Annotation{{Description: t.Description, Entry: entry}}
	}
	return tw
}
