// Package orgmode reads numbered task lines from Org-mode files.
package orgmode

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/harrisonrobin/mdtasks/pkg/model"
	"github.com/harrisonrobin/mdtasks/pkg/parser"
)

const deadlineLayout = "2006-01-02 Mon 15:04"

var (
	headlineRegex = regexp.MustCompile(`^\*+(\s|$)`)
	deadlineRegex = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2}\s+[A-Za-z]{3}\s+\d{2}:\d{2})>`)
)

// Source parses .org files. Headlines, keywords, comments, drawers and
// blocks are skipped. A DEADLINE planning line directly below an undated
// item becomes its due date.
type Source struct{}

func (Source) Name() string { return "org" }

func (Source) Extensions() []string { return []string{"org"} }

func (Source) Parse(p *parser.Parser, r io.Reader) ([]model.Task, error) {
	scanner := parser.NewLineScanner(r)
	tasks := make([]model.Task, 0)

	var (
		inDrawer bool
		inBlock  bool
		// last is the index of the task on the previous line, or -1.
		last = -1
	)

	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		prev := last
		last = -1

		switch {
		case line == "":
			continue
		case inBlock:
			if strings.HasPrefix(strings.ToUpper(line), "#+END_") {
				inBlock = false
			}
			continue
		case strings.HasPrefix(strings.ToUpper(line), "#+BEGIN_"):
			inBlock = true
			continue
		case inDrawer:
			if strings.EqualFold(line, ":END:") {
				inDrawer = false
			}
			continue
		case isDrawerStart(line):
			inDrawer = true
			continue
		case headlineRegex.MatchString(raw):
			continue
		case strings.HasPrefix(line, "#"):
			continue
		}

		if task, ok := p.ParseLine(raw); ok {
			tasks = append(tasks, task)
			last = len(tasks) - 1
			continue
		}

		if m := deadlineRegex.FindStringSubmatch(line); m != nil && prev >= 0 && !tasks[prev].HasDueDate() {
			if d, err := time.ParseInLocation(deadlineLayout, m[1], p.Location()); err == nil {
				tasks[prev] = model.NewTask(tasks[prev].Title, tasks[prev].Description, &d)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", parser.ErrSourceUnreadable, err)
	}
	return tasks, nil
}

// isDrawerStart matches ":NAME:" lines such as :PROPERTIES: and :LOGBOOK:.
func isDrawerStart(line string) bool {
	if len(line) < 3 || line[0] != ':' || line[len(line)-1] != ':' {
		return false
	}
	name := line[1 : len(line)-1]
	return !strings.ContainsAny(name, " \t:") && !strings.EqualFold(name, "END")
}
