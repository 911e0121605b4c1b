package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/storycases/internal/client"
	"github.com/fjglira/storycases/internal/config"
)

const defaultConfigFile = "storycases.yaml"

var (
	cfgFile string
	envFile string
	verbose bool
	dryRun  bool
	log     *logrus.Logger
)

// newBackend is a package-level variable to allow swapping the backend in tests.
var newBackend = func(cfg *config.Config) client.Backend {
	return client.New(cfg.Backend.BaseURL, cfg.RequestTimeout())
}

// rootCmd is the base command for storycases.
var rootCmd = &cobra.Command{
	Use:   "storycases",
	Short: "Generate and extract test cases for JIRA user stories",
	Long: `storycases lists the user stories of a JIRA project, asks the test case
generator backend for test cases and turns the generated markdown into
structured test case records that can be printed, exported or copied.

Settings come from storycases.yaml, a .env file and the environment.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(cmd.ErrOrStderr())
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with JIRA credentials")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "extract and render but don't write files")

	log = logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// loadConfig reads the config file, the dotenv file and the environment, in
// that order of increasing precedence, and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadOrDefault(cfgFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config.ApplyEnv(cfg)
	if dryRun {
		cfg.DryRun = true
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if !verbose {
		level, err := logrus.ParseLevel(cfg.Logging.Level)
		if err == nil {
			log.SetLevel(level)
		}
	}
	log.Debugf("Loaded config from %s", cfgFile)
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
