package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjglira/storycases/internal/export"
	tmpl "github.com/fjglira/storycases/internal/template"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the export templates and formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine, err := tmpl.NewEngine(cfg.Templates.Directory)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Templates:")
		for _, name := range engine.ListTemplates() {
			fmt.Fprintf(out, "  %s\n", name)
		}
		fmt.Fprintln(out, "Formats:")
		for _, name := range export.NewRegistry(engine).Formats() {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
