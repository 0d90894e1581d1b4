package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ReportFile   string   `mapstructure:"report_file" yaml:"report_file"`
	CleanOutput  string   `mapstructure:"clean_output" yaml:"clean_output"`
	TextReport   string   `mapstructure:"text_report" yaml:"text_report"`
	LogFile      string   `mapstructure:"log_file" yaml:"log_file"`
	Encodings    []string `mapstructure:"encodings" yaml:"encodings"`
	TopN         int      `mapstructure:"top_n" yaml:"top_n"`
	MaxMessages  int      `mapstructure:"max_messages" yaml:"max_messages"`
	TruncateAt   int      `mapstructure:"truncate_at" yaml:"truncate_at"`
	ErrorPattern string   `mapstructure:"error_pattern" yaml:"error_pattern"`
	Token        string   `mapstructure:"token" yaml:"token"`
	OpenTag      string   `mapstructure:"open_tag" yaml:"open_tag"`
	CloseTag     string   `mapstructure:"close_tag" yaml:"close_tag"`
	IgnoredRules []string `mapstructure:"ignore_rules" yaml:"ignore_rules"`
	IgnoredFiles []string `mapstructure:"ignore_files" yaml:"ignore_files"`
	LogDir       string   `mapstructure:"log_dir" yaml:"log_dir"`
}

func NewConfig() *Config {
	return &Config{
		ReportFile:   "lint_results.json",
		CleanOutput:  "lint_results_clean.json",
		TextReport:   "lint_report.txt",
		LogFile:      "build.log",
		Encodings:    []string{"utf-8", "windows-1252"},
		TopN:         10,
		MaxMessages:  3,
		TruncateAt:   100,
		ErrorPattern: "error",
		Token:        "TS",
		OpenTag:      "<div",
		CloseTag:     "</div>",
		IgnoredRules: []string{},
		IgnoredFiles: []string{},
		LogDir:       ".logsift/history",
	}
}

// configFiles are looked up in the working directory, in this order.
var configFiles = []string{
	".logsift.yaml",
	".logsift.yml",
	"logsift.yaml",
}

// LoadConfig returns the first config file found in the working directory
// layered over the defaults, or the defaults when there is none.
func LoadConfig() (*Config, string, error) {
	for _, file := range configFiles {
		if _, err := os.Stat(file); err == nil {
			cfg, err := LoadConfigFromFile(file)
			return cfg, file, err
		}
	}
	return NewConfig(), "", nil
}

func LoadConfigFromFile(filename string) (*Config, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("config file not found: %s", filename)
	}

	// Create a new viper instance to avoid sharing global state
	v := viper.New()
	v.SetConfigFile(filename)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	cfg := NewConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be > 0, got %d", c.TopN)
	}
	if c.MaxMessages <= 0 {
		return fmt.Errorf("max_messages must be > 0, got %d", c.MaxMessages)
	}
	if c.TruncateAt <= 0 {
		return fmt.Errorf("truncate_at must be > 0, got %d", c.TruncateAt)
	}
	if len(c.Encodings) == 0 {
		return fmt.Errorf("encodings must list at least one encoding")
	}
	return nil
}

func (c *Config) ShouldIgnoreFile(filePath string) bool {
	for _, pattern := range c.IgnoredFiles {
		if matched, _ := filepath.Match(pattern, filepath.Base(filePath)); matched {
			return true
		}
		if strings.Contains(filePath, pattern) {
			return true
		}
		// Support glob patterns
		if matched, _ := filepath.Match(pattern, filePath); matched {
			return true
		}
	}
	return false
}

func (c *Config) ShouldIgnoreRule(ruleID string) bool {
	for _, ignored := range c.IgnoredRules {
		if ignored == ruleID {
			return true
		}
	}
	return false
}

const configHeader = `# logsift configuration
# Paths are relative to the directory logsift runs in.

`

func GenerateConfigFile(filename string) error {
	if filename == "" {
		filename = configFiles[0]
	}

	data, err := yaml.Marshal(NewConfig())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(filename, append([]byte(configHeader), data...), 0644)
}

func (c *Config) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "Configuration Summary:\n")
	fmt.Fprintf(w, "  • Lint report: %s\n", c.ReportFile)
	fmt.Fprintf(w, "  • Cleaned JSON output: %s\n", c.CleanOutput)
	fmt.Fprintf(w, "  • Text report output: %s\n", c.TextReport)
	fmt.Fprintf(w, "  • Build log: %s\n", c.LogFile)
	fmt.Fprintf(w, "  • Encodings: %s\n", strings.Join(c.Encodings, ", "))
	fmt.Fprintf(w, "  • Summary: top %d files, %d messages each, %d chars\n", c.TopN, c.MaxMessages, c.TruncateAt)
	fmt.Fprintf(w, "  • Ignored rules: %d rules\n", len(c.IgnoredRules))
	fmt.Fprintf(w, "  • Ignored files: %d patterns\n", len(c.IgnoredFiles))
}
