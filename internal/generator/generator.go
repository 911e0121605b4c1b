package generator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/storycases/internal/client"
	"github.com/fjglira/storycases/internal/config"
	"github.com/fjglira/storycases/internal/domain"
	"github.com/fjglira/storycases/internal/export"
	"github.com/fjglira/storycases/internal/parser"
)

// Options controls where and how results are written.
type Options struct {
	OutputDir string
	Format    string
	WriteRaw  bool
	Clean     bool
	DryRun    bool
	// Progress receives the progress bar. Nil disables it.
	Progress io.Writer
}

// OptionsFromConfig builds Options from the output section of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OutputDir: cfg.Output.Directory,
		Format:    cfg.Output.Format,
		WriteRaw:  cfg.Output.WriteRaw,
		Clean:     cfg.Output.CleanBeforeGenerate,
		DryRun:    cfg.DryRun,
	}
}

// Result is the outcome for one story or one input file.
type Result struct {
	StoryID string
	Raw     string
	Records []domain.TestCaseRecord
	Tokens  int
	Path    string
	Err     error
}

// Summary totals a run.
type Summary struct {
	Stories   int
	TestCases int
	Tokens    int
	Failed    int
	Results   []Result
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	if r.Err != nil {
		s.Failed++
		return
	}
	s.Stories++
	s.TestCases += len(r.Records)
	s.Tokens += r.Tokens
}

// Generator is the top-level orchestrator.
type Generator interface {
	GenerateForStories(ctx context.Context, stories []domain.Story, opts Options) (*Summary, error)
	ExtractFiles(paths []string, opts Options) (*Summary, error)
	ExtractText(storyID, raw string, opts Options) (*Result, error)
}

// DefaultGenerator implements Generator by wiring all components together.
type DefaultGenerator struct {
	backend   client.Backend
	registry  parser.ExtractorRegistry
	exporters *export.Registry
	log       *logrus.Logger
}

// NewGenerator creates a new DefaultGenerator with all dependencies.
func NewGenerator(
	b client.Backend,
	r parser.ExtractorRegistry,
	e *export.Registry,
	log *logrus.Logger,
) *DefaultGenerator {
	return &DefaultGenerator{
		backend:   b,
		registry:  r,
		exporters: e,
		log:       log,
	}
}

// GenerateForStories asks the backend for test cases for each story in turn,
// extracts them and writes the exports. A story that fails is recorded in the
// summary and the run continues with the next one.
func (g *DefaultGenerator) GenerateForStories(ctx context.Context, stories []domain.Story, opts Options) (*Summary, error) {
	if err := g.prepare(opts); err != nil {
		return nil, err
	}

	summary := &Summary{}
	bar := newProgressBar(opts.Progress, len(stories))

	for _, story := range stories {
		if err := ctx.Err(); err != nil {
			return summary, domain.NewError("generate", story.ID, 0, "generation cancelled", err)
		}

		if bar != nil {
			bar.Describe(color.CyanString("Generating: ") + story.ID)
		}
		g.log.Debugf("Requesting test cases for %s", story.ID)

		gen, err := g.backend.GenerateTestCases(ctx, client.RequestForStory(story))
		if err != nil {
			g.log.Warnf("Skipping %s: %v", story.ID, err)
			summary.add(Result{StoryID: story.ID, Err: err})
			advance(bar)
			continue
		}

		result := g.process(story.ID, gen.Content, opts)
		result.Tokens = gen.TokenCount
		if result.Err != nil {
			g.log.Warnf("Skipping %s: %v", story.ID, result.Err)
		}
		summary.add(result)
		advance(bar)
	}

	g.log.Infof("Generated %d test case(s) for %d story(ies), %d failed",
		summary.TestCases, summary.Stories, summary.Failed)
	return summary, nil
}

// ExtractFiles extracts test cases from saved generator outputs, using each
// file's name without extension as the story id.
func (g *DefaultGenerator) ExtractFiles(paths []string, opts Options) (*Summary, error) {
	if err := g.prepare(opts); err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, path := range paths {
		g.log.Debugf("Processing: %s", path)

		content, err := os.ReadFile(path)
		if err != nil {
			err = domain.NewErrorWithSuggestion("scan", path, 0,
				"failed to read file",
				"check that the file exists and has read permissions",
				err)
			g.log.Warnf("Skipping %s: %v", path, err)
			summary.add(Result{StoryID: storyIDFromPath(path), Err: err})
			continue
		}

		ext := filepath.Ext(path)
		if _, err := g.registry.ExtractorFor(ext); err != nil {
			g.log.Warnf("No extractor for %s, skipping %s", ext, path)
			continue
		}

		result := g.processWith(ext, storyIDFromPath(path), string(content), opts)
		if result.Err != nil {
			g.log.Warnf("Skipping %s: %v", path, result.Err)
		}
		summary.add(result)
	}

	g.log.Infof("Extracted %d test case(s) from %d file(s)", summary.TestCases, summary.Stories)
	return summary, nil
}

// ExtractText extracts and exports test cases from text that did not come
// from a file, such as standard input.
func (g *DefaultGenerator) ExtractText(storyID, raw string, opts Options) (*Result, error) {
	if err := g.prepare(opts); err != nil {
		return nil, err
	}
	result := g.process(storyID, raw, opts)
	if result.Err != nil {
		return nil, result.Err
	}
	return &result, nil
}

// prepare checks the format and cleans the output directory when asked to.
func (g *DefaultGenerator) prepare(opts Options) error {
	if _, err := g.exporters.ExporterFor(opts.Format); err != nil {
		return err
	}
	if opts.Clean && !opts.DryRun {
		g.log.Debugf("Cleaning output directory: %s", opts.OutputDir)
		if err := cleanOutputDir(opts.OutputDir); err != nil {
			return domain.NewErrorWithSuggestion("write", opts.OutputDir, 0,
				"failed to clean output directory",
				"check file permissions or set output.clean_before_generate to false in storycases.yaml",
				err)
		}
	}
	return nil
}

func (g *DefaultGenerator) process(storyID, raw string, opts Options) Result {
	return g.processWith(parser.DefaultFormat, storyID, raw, opts)
}

func (g *DefaultGenerator) processWith(format, storyID, raw string, opts Options) Result {
	result := Result{StoryID: storyID, Raw: raw}

	extractor, err := g.registry.ExtractorFor(format)
	if err != nil {
		result.Err = domain.NewError("generate", storyID, 0, "no extractor available", err)
		return result
	}
	result.Records = extractor.Extract(raw)
	if len(result.Records) == 0 {
		g.log.Warnf("No test cases found for %s", storyID)
	} else {
		g.log.Debugf("Found %d test case(s) for %s", len(result.Records), storyID)
	}

	exporter, err := g.exporters.ExporterFor(opts.Format)
	if err != nil {
		result.Err = err
		return result
	}

	var buf bytes.Buffer
	if err := exporter.Export(&buf, storyID, result.Records, raw); err != nil {
		result.Err = err
		return result
	}

	result.Path = filepath.Join(opts.OutputDir, export.FileName(storyID, exporter))
	if err := g.write(result.Path, buf.Bytes(), opts.DryRun); err != nil {
		result.Err = err
		return result
	}

	if opts.WriteRaw {
		rawPath := filepath.Join(opts.OutputDir, storyID+"-raw.md")
		if err := g.write(rawPath, []byte(raw), opts.DryRun); err != nil {
			result.Err = err
		}
	}
	return result
}

func (g *DefaultGenerator) write(path string, data []byte, dryRun bool) error {
	if dryRun {
		g.log.Infof("[DRY-RUN] Would write: %s", path)
		g.log.Debugf("[DRY-RUN] Content:\n%s", data)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return domain.NewErrorWithSuggestion("write", filepath.Dir(path), 0,
			"failed to create output directory",
			"check that the parent directory exists and has write permissions",
			err)
	}

	g.log.Infof("Writing: %s", path)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return domain.NewErrorWithSuggestion("write", path, 0,
			"failed to write output file",
			"check disk space and write permissions for the output directory",
			err)
	}
	return nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	if w == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.CyanString("Generating: ")),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
}

func advance(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Add(1)
	}
}

// storyIDFromPath returns the file name without its extension,
// e.g. "generated/JIRA-101.md" → "JIRA-101".
func storyIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// cleanOutputDir removes previous exports and raw copies from the output directory.
func cleanOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !isGenerated(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func isGenerated(name string) bool {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasSuffix(stem, "-test-cases") || strings.HasSuffix(name, "-raw.md")
}
