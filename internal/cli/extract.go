package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fjglira/storycases/internal/config"
	"github.com/fjglira/storycases/internal/domain"
	"github.com/fjglira/storycases/internal/export"
	"github.com/fjglira/storycases/internal/generator"
	"github.com/fjglira/storycases/internal/parser"
	"github.com/fjglira/storycases/internal/scanner"
	tmpl "github.com/fjglira/storycases/internal/template"
)

var (
	stdinStoryID string
	scanInputs   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [path...]",
	Short: "Extract test cases from saved generator output",
	Long: `Reads generated markdown from files, from directories (using the input
settings of the config) or from standard input when no path is given, prints
the test cases grouped by scenario and writes the exports.

With --scan the directories listed in input.directories are read instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts, err := outputOptions(cfg)
		if err != nil {
			return err
		}

		engine, err := tmpl.NewEngine(cfg.Templates.Directory)
		if err != nil {
			return err
		}
		gen := generator.NewGenerator(nil, parser.NewDefaultRegistry(), export.NewRegistry(engine), log)
		out := cmd.OutOrStdout()

		if len(args) == 0 && !scanInputs {
			raw, err := readAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			result, err := gen.ExtractText(stdinStoryID, raw, opts)
			if err != nil {
				return err
			}
			return printResults(out, []generator.Result{*result})
		}

		var paths []string
		if scanInputs {
			paths, err = newScanner(cfg).ScanAll(cfg.Input.Directories, cfg.Input.Include, cfg.Input.Exclude)
		} else {
			paths, err = expandPaths(cfg, args)
		}
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			log.Warn("No generated files found")
			return nil
		}
		log.Infof("Found %d file(s)", len(paths))

		summary, err := gen.ExtractFiles(paths, opts)
		if err != nil {
			return err
		}
		if err := printResults(out, summary.Results); err != nil {
			return err
		}
		printSummary(out, summary)
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&scanInputs, "scan", false, "read the files found in input.directories")
	extractCmd.Flags().StringVar(&stdinStoryID, "story", "stdin", "story id used for input read from stdin")
	rootCmd.AddCommand(extractCmd)
}

// expandPaths replaces every directory argument with the generated files
// found under it.
func expandPaths(cfg *config.Config, args []string) ([]string, error) {
	s := newScanner(cfg)

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, domain.NewError("scan", arg, 0, "failed to read path", err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := s.ScanAll([]string{arg}, cfg.Input.Include, cfg.Input.Exclude)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

func newScanner(cfg *config.Config) *scanner.FileScanner {
	recursive := true
	if cfg.Input.Recursive != nil {
		recursive = *cfg.Input.Recursive
	}
	return scanner.NewScanner(recursive)
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", domain.NewError("scan", "stdin", 0, "failed to read input", err)
	}
	return string(data), nil
}
