package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harrisonrobin/mdtasks/pkg/model"
)

const (
	DefaultProdID = "-//MDTASKS//Markdown Task Exporter//EN"

	icsStampLayout = "20060102T150405Z"
	icsEventLength = time.Hour
	icsAlarmLead   = 15 * time.Minute
)

// iCalendar TEXT escaping. CR is dropped: a bare CR would break folding.
var icsEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\n", `\n`,
	"\r", "",
	":", `\:`,
)

// EscapeICSText escapes s for use as an iCalendar TEXT value.
func EscapeICSText(s string) string {
	return icsEscaper.Replace(s)
}

// ICSOptions configures an ICSExporter. Zero fields take defaults.
type ICSOptions struct {
	ProdID string
	// Location is the zone due dates were written in. Nil means time.Local.
	Location *time.Location
	// Now stamps DTSTAMP and CREATED. Nil means time.Now.
	Now func() time.Time
	// NewUID returns a fresh UID per component. Nil means a random UUID.
	NewUID func() string
}

// ICSExporter writes an RFC 5545 calendar. Dated tasks become VEVENTs with a
// 15 minute VALARM; undated tasks become VTODOs.
type ICSExporter struct {
	opts ICSOptions
}

func NewICSExporter(opts ICSOptions) *ICSExporter {
	if opts.ProdID == "" {
		opts.ProdID = DefaultProdID
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewUID == nil {
		opts.NewUID = uuid.NewString
	}
	return &ICSExporter{opts: opts}
}

func (e *ICSExporter) Extension() string { return "ics" }

func (e *ICSExporter) Render(tasks []model.Task) ([]byte, error) {
	w := &icsWriter{}
	w.line("BEGIN:VCALENDAR")
	w.line("VERSION:2.0")
	w.line("PRODID:" + e.opts.ProdID)
	w.line("CALSCALE:GREGORIAN")
	w.line("METHOD:PUBLISH")

	for _, t := range tasks {
		now := e.opts.Now().UTC().Format(icsStampLayout)
		if t.HasDueDate() {
			e.writeEvent(w, t, now)
		} else {
			e.writeTodo(w, t, now)
		}
	}

	w.line("END:VCALENDAR")
	return w.buf.Bytes(), nil
}

func (e *ICSExporter) writeEvent(w *icsWriter, t model.Task, now string) {
	start := t.DueIn(e.opts.Location).UTC()
	end := start.Add(icsEventLength)

	w.line("BEGIN:VEVENT")
	e.writeCommon(w, t, now)
	w.line("DTSTART:" + start.Format(icsStampLayout))
	w.line("DTEND:" + end.Format(icsStampLayout))
	w.line("BEGIN:VALARM")
	w.line("ACTION:DISPLAY")
	w.line("DESCRIPTION:Reminder: " + EscapeICSText(t.Title))
	w.line(fmt.Sprintf("TRIGGER:-PT%dM", int(icsAlarmLead.Minutes())))
	w.line("END:VALARM")
	w.line("END:VEVENT")
}

func (e *ICSExporter) writeTodo(w *icsWriter, t model.Task, now string) {
	w.line("BEGIN:VTODO")
	e.writeCommon(w, t, now)
	w.line("STATUS:NEEDS-ACTION")
	w.line("PRIORITY:0")
	w.line("SEQUENCE:0")
	w.line("END:VTODO")
}

func (e *ICSExporter) writeCommon(w *icsWriter, t model.Task, now string) {
	w.line("UID:" + e.opts.NewUID())
	w.line("DTSTAMP:" + now)
	w.line("CREATED:" + now)
	w.line("SUMMARY:" + EscapeICSText(t.Title))
	if t.HasDescription() {
		w.line("DESCRIPTION:" + EscapeICSText(t.Description))
	}
}

type icsWriter struct {
	buf bytes.Buffer
}

// line writes one content line terminated by CRLF.
func (w *icsWriter) line(s string) {
	w.buf.WriteString(s)
	w.buf.WriteString("\r\n")
}
