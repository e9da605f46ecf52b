package google

import (
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/tasks/v1"

	"github.com/harrisonrobin/mdtasks/pkg/model"
)

const (
	eventDuration   = time.Hour
	reminderMinutes = 15

	taskStatusNeedsAction = "needsAction"
)

// ConvertTaskToCalendarEvent builds a Calendar event resource for a dated
// task. The due wall clock is read in loc and sent as UTC.
func ConvertTaskToCalendarEvent(task model.Task, loc *time.Location) (*calendar.Event, error) {
	if !task.HasDueDate() {
		return nil, fmt.Errorf("task %q has no due date", task.Title)
	}
	if loc == nil {
		loc = time.Local
	}

	start := task.DueIn(loc).UTC()
	end := start.Add(eventDuration)

	event := &calendar.Event{
		Summary:     task.Title,
		Description: task.Description,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
		},
		Reminders: &calendar.EventReminders{
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: reminderMinutes},
			},
			// UseDefault must be sent as false for overrides to apply.
			ForceSendFields: []string{"UseDefault"},
		},
	}
	return event, nil
}

// ConvertTaskToGoogleTask builds a Tasks resource. Google Tasks keeps only
// the date part of Due.
func ConvertTaskToGoogleTask(task model.Task, loc *time.Location) *tasks.Task {
	if loc == nil {
		loc = time.Local
	}
	gt := &tasks.Task{
		Title:  task.Title,
		Notes:  task.Description,
		Status: taskStatusNeedsAction,
	}
	if task.HasDueDate() {
		gt.Due = task.DueIn(loc).UTC().Format(time.RFC3339)
	}
	return gt
}
