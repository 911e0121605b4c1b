package template

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/fjglira/storycases/internal/domain"
	"github.com/fjglira/storycases/internal/grouping"
)

//go:embed templates/*.tmpl
var builtin embed.FS

// Names of the built-in templates.
const (
	TextTemplate      = "text"
	MarkdownTemplate  = "markdown"
	ClipboardTemplate = "clipboard"
)

// TemplateEngine renders test case records into export text.
type TemplateEngine interface {
	Render(name, storyID string, records []domain.TestCaseRecord) (string, error)
	RenderOne(name string, record domain.TestCaseRecord) (string, error)
	ListTemplates() []string
}

// templateData is the struct passed to list templates.
type templateData struct {
	StoryID string
	Records []domain.TestCaseRecord
	Groups  []grouping.Group
}

// DefaultEngine implements TemplateEngine.
type DefaultEngine struct {
	templates   map[string]*template.Template
	templateDir string
}

// NewEngine creates a template engine with the built-in templates, adding or
// overriding them with the .tmpl files in templateDir when it is set.
func NewEngine(templateDir string) (*DefaultEngine, error) {
	engine := &DefaultEngine{
		templates:   make(map[string]*template.Template),
		templateDir: templateDir,
	}

	sub, err := fs.Sub(builtin, "templates")
	if err != nil {
		return nil, domain.NewError("render", "templates", 0, "failed to open built-in templates", err)
	}
	if err := engine.loadTemplates(sub, "templates"); err != nil {
		return nil, err
	}

	if templateDir != "" {
		if err := engine.loadTemplates(os.DirFS(templateDir), templateDir); err != nil {
			return nil, err
		}
	}

	return engine, nil
}

// loadTemplates reads all .tmpl files from fsys.
func (e *DefaultEngine) loadTemplates(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return domain.NewError("render", dir, 0, "failed to read template directory", err)
	}

	funcMap := CustomFuncMap()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return domain.NewError("render", path, 0, "failed to read template file", err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return domain.NewError("render", path, 0, "failed to parse template", err)
		}

		e.templates[name] = tmpl
	}

	return nil
}

// Render renders the records of one story with the named template.
func (e *DefaultEngine) Render(name, storyID string, records []domain.TestCaseRecord) (string, error) {
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}

	data := templateData{
		StoryID: storyID,
		Records: records,
		Groups:  grouping.GroupByScenario(records),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", domain.NewError("render", storyID, 0, fmt.Sprintf("failed to execute template %q", name), err)
	}
	return buf.String(), nil
}

// RenderOne renders a single record with the named template.
func (e *DefaultEngine) RenderOne(name string, record domain.TestCaseRecord) (string, error) {
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, record); err != nil {
		return "", domain.NewError("render", record.ID, 0, fmt.Sprintf("failed to execute template %q", name), err)
	}
	return buf.String(), nil
}

// ListTemplates returns the sorted names of all loaded templates.
func (e *DefaultEngine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *DefaultEngine) lookup(name string) (*template.Template, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return nil, domain.NewError("render", "", 0,
			fmt.Sprintf("template %q not found (available: %s)", name, strings.Join(e.ListTemplates(), ", ")), nil)
	}
	return tmpl, nil
}
