package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fjglira/storycases/internal/domain"
)

// Formats lists the export formats accepted in output.format.
var Formats = []string{"text", "markdown", "json", "raw", "html"}

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	// Backend validation
	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("backend.base_url must be an absolute http(s) URL (got %q)", cfg.Backend.BaseURL))
	}
	if d, err := time.ParseDuration(cfg.Backend.Timeout); err != nil || d <= 0 {
		errs = append(errs, fmt.Sprintf("backend.timeout must be a positive duration (got %q)", cfg.Backend.Timeout))
	}

	// Output validation
	if cfg.Output.Directory == "" {
		errs = append(errs, "output.directory must not be empty")
	}
	if !contains(Formats, cfg.Output.Format) {
		errs = append(errs, fmt.Sprintf("output.format must be one of: %s (got %q)", strings.Join(Formats, ", "), cfg.Output.Format))
	}

	// Validate logging level
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}

// ValidateCredentials checks that every credential needed to reach the
// tracker is present.
func ValidateCredentials(cfg *Config) error {
	var missing []string
	if cfg.Jira.Domain == "" {
		missing = append(missing, EnvDomain)
	}
	if cfg.Jira.Email == "" {
		missing = append(missing, EnvEmail)
	}
	if cfg.Jira.Token == "" {
		missing = append(missing, EnvToken)
	}
	if len(missing) > 0 {
		return domain.NewErrorWithSuggestion("config", "", 0,
			fmt.Sprintf("missing credentials: %s", strings.Join(missing, ", ")),
			"set them in the environment or a .env file",
			nil)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
