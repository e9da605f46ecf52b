package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/harrisonrobin/mdtasks/pkg/logger"
	"github.com/harrisonrobin/mdtasks/pkg/model"
)

var (
	ErrSourceNotFound    = errors.New("source not found")
	ErrSourceUnreadable  = errors.New("source unreadable")
	ErrUnsupportedFormat = errors.New("unsupported source format")
)

// maxLineSize bounds a single scanned line.
const maxLineSize = 1024 * 1024

// Options configures a Parser. The zero value parses in time.Local with the
// default source registry.
type Options struct {
	// Location interprets due-date tokens. Nil means time.Local.
	Location *time.Location
	// Registry selects a source by file extension. Nil means DefaultRegistry().
	Registry *Registry
	Logger   *slog.Logger
	// OnDateDropped is called with every date token that failed validation.
	OnDateDropped func(token string)
}

// Parser extracts tasks from documents. It holds only immutable settings and
// is safe to share.
type Parser struct {
	loc           *time.Location
	registry      *Registry
	logger        *slog.Logger
	onDateDropped func(string)
}

func New(opts Options) *Parser {
	p := &Parser{
		loc:           opts.Location,
		registry:      opts.Registry,
		logger:        opts.Logger,
		onDateDropped: opts.OnDateDropped,
	}
	if p.loc == nil {
		p.loc = time.Local
	}
	if p.registry == nil {
		p.registry = DefaultRegistry()
	}
	if p.logger == nil {
		p.logger = logger.Discard()
	}
	return p
}

// Location returns the zone due dates are interpreted in.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Registry returns the source registry used by ParseFile.
func (p *Parser) Registry() *Registry {
	return p.registry
}

// ParseLines parses raw text lines, skipping blank lines and "#" headings.
// The result is never nil.
func (p *Parser) ParseLines(lines []string) []model.Task {
	tasks := make([]model.Task, 0)
	for _, line := range lines {
		if task, ok := p.parseTextLine(line); ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// ParseParagraphs parses paragraph text from a structured document. Heading
// paragraphs must already be removed by the extractor.
func (p *Parser) ParseParagraphs(paragraphs []string) []model.Task {
	tasks := make([]model.Task, 0)
	for _, text := range paragraphs {
		if strings.TrimSpace(text) == "" {
			continue
		}
		if task, ok := p.ParseLine(text); ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// NewLineScanner returns a line scanner that accepts lines up to 1 MiB.
// Sources reading text line by line should use it.
func NewLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

// Parse reads line-oriented text from r.
func (p *Parser) Parse(r io.Reader) ([]model.Task, error) {
	scanner := NewLineScanner(r)

	tasks := make([]model.Task, 0)
	for scanner.Scan() {
		if task, ok := p.parseTextLine(scanner.Text()); ok {
			tasks = append(tasks, task)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	return tasks, nil
}

func (p *Parser) parseTextLine(line string) (model.Task, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return model.Task{}, false
	}
	return p.ParseLine(line)
}

// ParseFile picks a source by the file's extension and parses it.
// A readable file without tasks yields an empty slice and no error.
func (p *Parser) ParseFile(path string) ([]model.Task, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrSourceUnreadable, path)
	}

	src, err := p.registry.For(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, path, err)
	}
	defer f.Close()

	p.logger.Debug("parsing source", "path", path, "source", src.Name())
	tasks, err := src.Parse(p, f)
	if err != nil {
		if errors.Is(err, ErrSourceUnreadable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnreadable, path, err)
	}
	return tasks, nil
}
