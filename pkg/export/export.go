// Package export renders parsed tasks into interchange formats.
//
// Every renderer produces the whole artifact in memory before anything
// reaches the sink, so a failed render never leaves a partial file behind.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/harrisonrobin/mdtasks/pkg/model"
)

var (
	ErrNoTasks       = errors.New("no tasks to export")
	ErrMissingSink   = errors.New("output destination required")
	ErrSinkWrite     = errors.New("write output")
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrNotImplemented marks targets that need an external service. Callers
	// should present it as information rather than failure.
	ErrNotImplemented = errors.New("export target not implemented")
)

// Format names an export target.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	ICS  Format = "ics"
	YAML Format = "yaml"
)

// Exporter renders tasks. Implementations must not modify tasks and must
// keep input order.
type Exporter interface {
	Render(tasks []model.Task) ([]byte, error)
	// Extension is the default output file extension, without the dot.
	Extension() string
}

// Registry maps format names to exporters.
type Registry struct {
	mu        sync.RWMutex
	exporters map[Format]Exporter
	aliases   map[Format]Format
}

func NewRegistry() *Registry {
	return &Registry{
		exporters: make(map[Format]Exporter),
		aliases:   make(map[Format]Format),
	}
}

// DefaultRegistry holds csv, json, ics and yaml, with ical as an alias of ics.
// The ICS exporter uses ICSOptions defaults.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CSV, CSVExporter{})
	r.Register(JSON, JSONExporter{})
	r.Register(ICS, NewICSExporter(ICSOptions{}))
	r.Register(YAML, YAMLExporter{})
	r.Alias("ical", ICS)
	return r
}

// Register makes e available under name, replacing any earlier exporter.
func (r *Registry) Register(name Format, e Exporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exporters[normalize(name)] = e
}

// Alias makes alias resolve to target.
func (r *Registry) Alias(alias, target Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[normalize(alias)] = normalize(target)
}

// ParseFormat resolves a user supplied name, case-insensitively.
func (r *Registry) ParseFormat(name string) (Format, error) {
	f := normalize(Format(name))
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[f]; ok {
		f = target
	}
	if _, ok := r.exporters[f]; ok {
		return f, nil
	}
	if _, ok := externalTargets[f]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Lookup returns the exporter registered for f.
func (r *Registry) Lookup(f Format) (Exporter, error) {
	f = normalize(f)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[f]; ok {
		f = target
	}
	if e, ok := r.exporters[f]; ok {
		return e, nil
	}
	if _, ok := externalTargets[f]; ok {
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, f)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Formats lists the registered file formats, sorted.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(r.exporters))
	for f := range r.exporters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Render checks preconditions and renders tasks in format f.
func (r *Registry) Render(f Format, tasks []model.Task) ([]byte, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	e, err := r.Lookup(f)
	if err != nil {
		return nil, err
	}
	return e.Render(tasks)
}

// Write renders tasks and writes the result to w in one call.
// Returns the number of bytes written.
func (r *Registry) Write(w io.Writer, f Format, tasks []model.Task) (int, error) {
	if len(tasks) == 0 {
		return 0, ErrNoTasks
	}
	if w == nil {
		return 0, ErrMissingSink
	}
	data, err := r.Render(f, tasks)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(w, bytes.NewReader(data))
	if err != nil {
		return int(n), fmt.Errorf("%w: %w", ErrSinkWrite, err)
	}
	return int(n), nil
}

// WriteFile renders tasks and writes them to path. Nothing is created when
// a precondition or the render fails.
func (r *Registry) WriteFile(path string, f Format, tasks []model.Task) (int, error) {
	if len(tasks) == 0 {
		return 0, ErrNoTasks
	}
	if path == "" {
		return 0, ErrMissingSink
	}
	data, err := r.Render(f, tasks)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrSinkWrite, path, err)
	}
	return len(data), nil
}

func normalize(f Format) Format {
	return Format(strings.ToLower(strings.TrimSpace(string(f))))
}
