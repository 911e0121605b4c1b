package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fjglira/storycases/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the storycases.yaml configuration file",
	Long: `Loads the configuration file, the dotenv file and the environment and checks
for invalid values. Missing JIRA credentials are reported as a warning.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Configuration %q is valid", cfgFile))
		if err := config.ValidateCredentials(cfg); err != nil {
			fmt.Fprintln(out, color.YellowString("! %v", err))
		}
		log.Debugf("Loaded config: %+v", cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
