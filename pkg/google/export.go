package google

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/tasks/v1"

	"github.com/harrisonrobin/mdtasks/pkg/export"
	"github.com/harrisonrobin/mdtasks/pkg/model"
)

const (
	// CalendarFormat renders Calendar API event resources for dated tasks.
	CalendarFormat export.Format = "gcal"
	// TasksFormat renders Tasks API task resources for every task.
	TasksFormat export.Format = "gtasks"
)

// Register adds the gcal and gtasks formats to r, reading due dates in loc.
func Register(r *export.Registry, loc *time.Location) {
	r.Register(CalendarFormat, NewCalendarExporter(loc))
	r.Register(TasksFormat, NewTasksExporter(loc))
}

// CalendarExporter writes a JSON array of events ready for events.insert.
// Tasks without a due date are left out.
type CalendarExporter struct {
	loc *time.Location
}

func NewCalendarExporter(loc *time.Location) *CalendarExporter {
	if loc == nil {
		loc = time.Local
	}
	return &CalendarExporter{loc: loc}
}

func (e *CalendarExporter) Extension() string { return "json" }

func (e *CalendarExporter) Render(ts []model.Task) ([]byte, error) {
	events := make([]*calendar.Event, 0, len(ts))
	for _, t := range ts {
		if !t.HasDueDate() {
			continue
		}
		event, err := ConvertTaskToCalendarEvent(t, e.loc)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: none of %d tasks has a due date", export.ErrNoTasks, len(ts))
	}
	return marshal(events)
}

// TasksExporter writes a JSON array of tasks ready for tasks.insert.
type TasksExporter struct {
	loc *time.Location
}

func NewTasksExporter(loc *time.Location) *TasksExporter {
	if loc == nil {
		loc = time.Local
	}
	return &TasksExporter{loc: loc}
}

func (e *TasksExporter) Extension() string { return "json" }

func (e *TasksExporter) Render(ts []model.Task) ([]byte, error) {
	out := make([]*tasks.Task, 0, len(ts))
	for _, t := range ts {
		out = append(out, ConvertTaskToGoogleTask(t, e.loc))
	}
	return marshal(out)
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode google resources: %w", err)
	}
	return append(data, '\n'), nil
}
