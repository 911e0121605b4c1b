// Package export writes extracted test cases, or the generated text they
// came from, to files and the clipboard.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"sort"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/fjglira/storycases/internal/domain"
	tmpl "github.com/fjglira/storycases/internal/template"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// Exporter writes one story's test cases in a single format.
type Exporter interface {
	Export(w io.Writer, storyID string, records []domain.TestCaseRecord, raw string) error
	Extension() string
}

// Registry maps format names to exporters.
type Registry struct {
	mu        sync.RWMutex
	exporters map[string]Exporter
}

// NewRegistry returns a registry holding every built-in format.
func NewRegistry(engine tmpl.TemplateEngine) *Registry {
	r := &Registry{exporters: make(map[string]Exporter)}
	r.Register("text", &TemplateExporter{Engine: engine, Template: tmpl.TextTemplate, Ext: "txt"})
	r.Register("markdown", &TemplateExporter{Engine: engine, Template: tmpl.MarkdownTemplate, Ext: "md"})
	r.Register("json", JSONExporter{})
	r.Register("raw", RawExporter{})
	r.Register("html", NewHTMLExporter())
	return r
}

// Register adds or replaces the exporter for format.
func (r *Registry) Register(format string, e Exporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exporters[format] = e
}

// ExporterFor returns the exporter registered for format.
func (r *Registry) ExporterFor(format string) (Exporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.exporters[format]; ok {
		return e, nil
	}
	return nil, domain.NewError("export", "", 0, fmt.Sprintf("unknown export format %q", format), nil)
}

// Formats returns the sorted names of the registered formats.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.exporters))
	for name := range r.exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileName returns the export file name for a story, e.g. "JIRA-101-test-cases.txt".
func FileName(storyID string, e Exporter) string {
	return fmt.Sprintf("%s-test-cases.%s", storyID, e.Extension())
}

// TemplateExporter renders records through a named template.
type TemplateExporter struct {
	Engine   tmpl.TemplateEngine
	Template string
	Ext      string
}

func (e *TemplateExporter) Export(w io.Writer, storyID string, records []domain.TestCaseRecord, _ string) error {
	out, err := e.Engine.Render(e.Template, storyID, records)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func (e *TemplateExporter) Extension() string { return e.Ext }

// JSONExporter writes the records as an indented JSON array.
type JSONExporter struct{}

func (JSONExporter) Export(w io.Writer, _ string, records []domain.TestCaseRecord, _ string) error {
	if records == nil {
		records = []domain.TestCaseRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func (JSONExporter) Extension() string { return "json" }

// RawExporter writes the generated text unchanged.
type RawExporter struct{}

func (RawExporter) Export(w io.Writer, _ string, _ []domain.TestCaseRecord, raw string) error {
	_, err := io.WriteString(w, raw)
	return err
}

func (RawExporter) Extension() string { return "md" }

// HTMLExporter renders the generated markdown as a standalone HTML page.
type HTMLExporter struct {
	md goldmark.Markdown
}

// NewHTMLExporter creates an HTMLExporter with GitHub-flavoured markdown enabled.
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

func (e *HTMLExporter) Export(w io.Writer, storyID string, _ []domain.TestCaseRecord, raw string) error {
	var body bytes.Buffer
	if err := e.md.Convert([]byte(raw), &body); err != nil {
		return domain.NewError("export", storyID, 0, "failed to render markdown", err)
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s test cases</title></head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(storyID), body.String())
	return err
}

func (e *HTMLExporter) Extension() string { return "html" }

// CopyToClipboard places text on the system clipboard.
func CopyToClipboard(text string) error {
	if err := clipboardWriteAll(text); err != nil {
		return domain.NewErrorWithSuggestion("export", "", 0, "failed to copy to clipboard",
			"on Linux install xclip, xsel or wl-clipboard", err)
	}
	return nil
}
