package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/mdtasks/pkg/model"
)

// record is the object form shared by the JSON and YAML exports. The due
// date keeps the tabular "YYYY-MM-DD HH:MM:SS" layout rather than RFC 3339.
type record struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	DueDate     string `json:"due_date,omitempty" yaml:"due_date,omitempty"`
}

func toRecords(tasks []model.Task) []record {
	out := make([]record, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, record{
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueString(),
		})
	}
	return out
}

// JSONExporter writes a top-level array of task objects.
type JSONExporter struct{}

func (JSONExporter) Extension() string { return "json" }

func (JSONExporter) Render(tasks []model.Task) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toRecords(tasks)); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// YAMLExporter writes a YAML sequence with the same fields as the JSON export.
type YAMLExporter struct{}

func (YAMLExporter) Extension() string { return "yaml" }

func (YAMLExporter) Render(tasks []model.Task) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toRecords(tasks)); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
