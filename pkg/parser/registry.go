package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrisonrobin/mdtasks/pkg/docx"
	"github.com/harrisonrobin/mdtasks/pkg/model"
)

// Source turns one kind of document into tasks.
type Source interface {
	Name() string
	// Extensions lists the file extensions handled, without the leading dot.
	Extensions() []string
	Parse(p *Parser, r io.Reader) ([]model.Task, error)
}

// Registry maps lower-cased file extensions to sources.
type Registry struct {
	sources map[string]Source
}

func NewRegistry(sources ...Source) *Registry {
	r := &Registry{sources: make(map[string]Source)}
	for _, s := range sources {
		r.Register(s)
	}
	return r
}

// DefaultRegistry handles Markdown, plain text and Word documents.
func DefaultRegistry() *Registry {
	return NewRegistry(TextSource{}, DocxSource{})
}

// Register adds s for each of its extensions, replacing earlier entries.
func (r *Registry) Register(s Source) {
	for _, ext := range s.Extensions() {
		r.sources[strings.ToLower(strings.TrimPrefix(ext, "."))] = s
	}
}

// For returns the source registered for path's extension.
func (r *Registry) For(path string) (Source, error) {
	ext := Extension(path)
	if ext == "" {
		return nil, fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	s, ok := r.sources[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return s, nil
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.sources))
	for ext := range r.sources {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extension returns the lower-cased text after the last dot of the base
// name. Dot files such as ".md" have no extension.
func Extension(path string) string {
	name := filepath.Base(path)
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// TextSource reads line-oriented text.
type TextSource struct{}

func (TextSource) Name() string { return "text" }

func (TextSource) Extensions() []string { return []string{"md", "markdown", "txt"} }

func (TextSource) Parse(p *Parser, r io.Reader) ([]model.Task, error) {
	return p.Parse(r)
}

// DocxSource reads body paragraphs of a Word document, skipping headings.
type DocxSource struct{}

func (DocxSource) Name() string { return "docx" }

func (DocxSource) Extensions() []string { return []string{"docx"} }

func (DocxSource) Parse(p *Parser, r io.Reader) ([]model.Task, error) {
	paragraphs, err := docx.Read(r)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(paragraphs))
	for _, para := range paragraphs {
		if para.Heading {
			continue
		}
		texts = append(texts, para.Text)
	}
	return p.ParseParagraphs(texts), nil
}
