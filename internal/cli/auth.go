package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fjglira/storycases/internal/config"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Check the JIRA credentials against the backend",
	Long:  `Sends JIRA_DOMAIN, JIRA_EMAIL and JIRA_TOKEN to the backend and reports whether it accepts them.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := config.ValidateCredentials(cfg); err != nil {
			return err
		}

		creds := cfg.Credentials()
		log.Debugf("Authenticating %s on %s", creds.Email, creds.Domain)
		result, err := newBackend(cfg).Authenticate(cmd.Context(), creds)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Authenticated as %s on %s", creds.Email, creds.Domain))
		if result.Message != "" {
			fmt.Fprintln(out, result.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}
