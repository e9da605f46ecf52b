package model

import (
	"strings"
	"time"
)

// DueLayout is the textual form of a due date in tabular and object exports.
const DueLayout = "2006-01-02 15:04:05"

// Task represents one numbered entry found in a source document.
type Task struct {
	Title       string
	Description string
	// Due is nil when the line carried no valid date token. The wall clock
	// is the producer's local time; exporters convert it to UTC.
	Due *time.Time
}

// NewTask trims title and description and copies due so the record owns it.
func NewTask(title, description string, due *time.Time) Task {
	t := Task{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}
	if due != nil {
		d := *due
		t.Due = &d
	}
	return t
}

func (t Task) HasDueDate() bool {
	return t.Due != nil
}

func (t Task) HasDescription() bool {
	return t.Description != ""
}

// DueString formats the due date with DueLayout, or returns "" when absent.
func (t Task) DueString() string {
	if t.Due == nil {
		return ""
	}
	return t.Due.Format(DueLayout)
}

// DueIn reads the due wall clock as a time in loc. It returns the zero time
// when there is no due date.
func (t Task) DueIn(loc *time.Location) time.Time {
	if t.Due == nil {
		return time.Time{}
	}
	d := *t.Due
	return time.Date(d.Year(), d.Month(), d.Day(), d.Hour(), d.Minute(), d.Second(), 0, loc)
}
