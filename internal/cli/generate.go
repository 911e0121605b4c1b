package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fjglira/storycases/internal/config"
	"github.com/fjglira/storycases/internal/domain"
	"github.com/fjglira/storycases/internal/export"
	"github.com/fjglira/storycases/internal/generator"
	"github.com/fjglira/storycases/internal/grouping"
	"github.com/fjglira/storycases/internal/parser"
	"github.com/fjglira/storycases/internal/render"
	tmpl "github.com/fjglira/storycases/internal/template"
)

var (
	generateAll bool
	format      string
	copyText    bool
	copyCase    string
	showRaw     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [storyID...]",
	Short: "Generate test cases for user stories",
	Long: `Fetches the stories of the JIRA project, asks the backend to generate test
cases for the selected ones, prints them grouped by scenario and writes one
export per story to the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !generateAll {
			return fmt.Errorf("give at least one story id or use --all")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts, err := outputOptions(cfg)
		if err != nil {
			return err
		}

		backend := newBackend(cfg)
		stories, err := fetchStories(cmd.Context(), cfg, backend)
		if err != nil {
			return err
		}
		selected, err := selectStories(stories, args)
		if err != nil {
			return err
		}

		engine, err := tmpl.NewEngine(cfg.Templates.Directory)
		if err != nil {
			return err
		}
		gen := generator.NewGenerator(backend, parser.NewDefaultRegistry(), export.NewRegistry(engine), log)

		opts.Progress = cmd.ErrOrStderr()
		summary, err := gen.GenerateForStories(cmd.Context(), selected, opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := printResults(out, summary.Results); err != nil {
			return err
		}
		if err := copyResults(engine, summary.Results); err != nil {
			return err
		}
		printSummary(out, summary)

		if summary.Stories == 0 && summary.Failed > 0 {
			return fmt.Errorf("test case generation failed for all %d story(ies)", summary.Failed)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateAll, "all", false, "generate for every story of the project")
	generateCmd.Flags().BoolVar(&copyText, "copy", false, "copy the text export of the story to the clipboard")
	generateCmd.Flags().StringVar(&copyCase, "copy-case", "", "copy a single test case, by id, to the clipboard")
	generateCmd.Flags().BoolVar(&showRaw, "show-raw", false, "print the generated markdown instead of test case cards")
	for _, cmd := range []*cobra.Command{generateCmd, extractCmd} {
		cmd.Flags().StringVarP(&format, "format", "f", "", "export format: "+strings.Join(config.Formats, ", "))
	}
	rootCmd.AddCommand(generateCmd)
}

// outputOptions applies the --format flag over the configured output settings.
func outputOptions(cfg *config.Config) (generator.Options, error) {
	opts := generator.OptionsFromConfig(cfg)
	if format != "" {
		if !contains(config.Formats, format) {
			return opts, fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(config.Formats, ", "))
		}
		opts.Format = format
	}
	return opts, nil
}

// selectStories returns the stories named by ids, in the order given, or
// every story when ids is empty.
func selectStories(stories []domain.Story, ids []string) ([]domain.Story, error) {
	if len(ids) == 0 {
		return stories, nil
	}
	byID := make(map[string]domain.Story, len(stories))
	for _, s := range stories {
		byID[strings.ToUpper(s.ID)] = s
	}

	var selected []domain.Story
	var missing []string
	for _, id := range ids {
		s, ok := byID[strings.ToUpper(id)]
		if !ok {
			missing = append(missing, id)
			continue
		}
		selected = append(selected, s)
	}
	if len(missing) > 0 {
		return nil, domain.NewErrorWithSuggestion("fetch", "", 0,
			fmt.Sprintf("story not found: %s", strings.Join(missing, ", ")),
			"run `storycases stories` to list the available stories", nil)
	}
	return selected, nil
}

func printResults(w io.Writer, results []generator.Result) error {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintln(w, color.RedString("✗ %s: %v", r.StoryID, r.Err))
			continue
		}
		if showRaw {
			fmt.Fprintln(w, render.RenderMarkdown(r.Raw, 100))
			continue
		}
		if len(r.Records) == 0 {
			fmt.Fprintln(w, color.YellowString("No test cases found for %s", r.StoryID))
			continue
		}
		if err := render.RenderGroups(w, r.StoryID, grouping.GroupByScenario(r.Records)); err != nil {
			return err
		}
	}
	return nil
}

func copyResults(engine tmpl.TemplateEngine, results []generator.Result) error {
	if !copyText && copyCase == "" {
		return nil
	}

	var ok []generator.Result
	for _, r := range results {
		if r.Err == nil {
			ok = append(ok, r)
		}
	}
	if len(ok) != 1 {
		return fmt.Errorf("copying to the clipboard needs exactly one story, got %d", len(ok))
	}
	r := ok[0]

	var text string
	var err error
	if copyCase != "" {
		text, err = renderCase(engine, r.Records, copyCase)
	} else {
		text, err = engine.Render(tmpl.TextTemplate, r.StoryID, r.Records)
	}
	if err != nil {
		return err
	}
	if err := export.CopyToClipboard(text); err != nil {
		return err
	}
	log.Info("Copied to clipboard")
	return nil
}

func renderCase(engine tmpl.TemplateEngine, records []domain.TestCaseRecord, id string) (string, error) {
	for _, rec := range records {
		if strings.EqualFold(rec.ID, id) {
			return engine.RenderOne(tmpl.ClipboardTemplate, rec)
		}
	}
	return "", fmt.Errorf("test case %s not found", id)
}

func printSummary(w io.Writer, s *generator.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.GreenString("✓ Test cases: %d from %d story(ies)", s.TestCases, s.Stories))
	if s.Tokens > 0 {
		fmt.Fprintln(w, color.CyanString("Tokens used: %d", s.Tokens))
	}
	if s.Failed > 0 {
		fmt.Fprintln(w, color.RedString("✗ Failed: %d", s.Failed))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
