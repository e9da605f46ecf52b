package taskwarrior

import (
	"time"
)

const PENDING = "pending"

type CustomTime struct {
	time.Time
}

const taskwarriorTimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, 'Z' indicates UTC

// MarshalJSON implements the json.Marshaler interface for CustomTime.
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ct.Time.UTC().Format(taskwarriorTimeLayout) + `"`), nil
}

type Annotation struct {
	Description string      `json:"description"`
	Entry       *CustomTime `json:"entry"`
}

// Task is the subset of a Taskwarrior task that `task import` needs.
type Task struct {
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Entry       *CustomTime  `json:"entry,omitempty"`
	Due         *CustomTime  `json:"due,omitempty"`
	Project     string       `json:"project,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}
