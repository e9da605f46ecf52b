package export

import (
	"bytes"
	"strings"

	"github.com/harrisonrobin/mdtasks/pkg/model"
)

const csvHeader = "title,description,due_date\n"

// CSVExporter writes one quoted row per task. Unlike encoding/csv every
// field is quoted, including empty ones, and rows end in "\n".
type CSVExporter struct{}

func (CSVExporter) Extension() string { return "csv" }

func (CSVExporter) Render(tasks []model.Task) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(csvHeader)
	for _, t := range tasks {
		buf.WriteString(quoteCSV(t.Title))
		buf.WriteByte(',')
		buf.WriteString(quoteCSV(t.Description))
		buf.WriteByte(',')
		buf.WriteString(quoteCSV(t.DueString()))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
