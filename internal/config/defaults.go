package config

import "time"

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 120 * time.Second
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	return &Config{
		Backend: BackendConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout.String(),
		},
		Input: InputConfig{
			Directories: []string{"generated"},
			Include:     []string{"*.md", "*.txt"},
			Exclude:     []string{"*-test-cases.*"},
			Recursive:   &recursive,
		},
		Output: OutputConfig{
			Directory:           "test-cases",
			Format:              "text",
			WriteRaw:            false,
			CleanBeforeGenerate: false,
		},
		Templates: TemplateConfig{
			Directory: "",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		DryRun: false,
	}
}
