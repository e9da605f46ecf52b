package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/mdtasks/pkg/model"
)

// DescriptionMarker separates a task title from its description.
const DescriptionMarker = "//"

var (
	// "<ordinal>. <content>"
	taskRegex = regexp.MustCompile(`^\s*(\d+)\.\s+(.+)$`)
	// YYYY/M/D-Ham or YYYY/MM/DD-HHpm, no minutes.
	dateRegex      = regexp.MustCompile(`(?i)\d{4}/\d{1,2}/\d{1,2}-\d{1,2}(?:am|pm)`)
	dateFieldRegex = regexp.MustCompile(`(?i)^(\d{4})/(\d{1,2})/(\d{1,2})-(\d{1,2})(am|pm)$`)
)

// ErrInvalidDate is returned by ParseDueDate for tokens that do not name a
// real calendar hour.
var ErrInvalidDate = errors.New("invalid due date")

// ParseLine turns a single line into a task. It reports false when the line
// is not a numbered entry.
func (p *Parser) ParseLine(line string) (model.Task, bool) {
	matches := taskRegex.FindStringSubmatch(line)
	if matches == nil {
		return model.Task{}, false
	}
	content := matches[2]

	// The date comes out first so a token sitting after "//" never ends up
	// in the description.
	var due *time.Time
	if token := dateRegex.FindString(content); token != "" {
		d, err := ParseDueDate(token, p.loc)
		if err != nil {
			p.logger.Debug("dropping invalid due date", "token", token, "error", err)
			if p.onDateDropped != nil {
				p.onDateDropped(token)
			}
		} else {
			due = &d
		}
		content = strings.ReplaceAll(content, token, "")
	}

	title, description, _ := strings.Cut(content, DescriptionMarker)
	return model.NewTask(title, description, due), true
}

// ParseDueDate parses a "2024/11/22-3pm" token as a wall-clock hour in loc.
// Minutes and seconds are always zero.
func ParseDueDate(token string, loc *time.Location) (time.Time, error) {
	m := dateFieldRegex.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match YYYY/M/D-Ham|pm", ErrInvalidDate, token)
	}
	// The regex guarantees digits, and at most four of them.
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])

	switch strings.ToLower(m[5]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d in %q", ErrInvalidDate, month, token)
	}
	if day < 1 || day > daysIn(year, time.Month(month)) {
		return time.Time{}, fmt.Errorf("%w: day %d in %q", ErrInvalidDate, day, token)
	}
	if hour > 23 {
		return time.Time{}, fmt.Errorf("%w: hour %d in %q", ErrInvalidDate, hour, token)
	}

	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month), day, hour, 0, 0, 0, loc), nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
