package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Output formats understood by the CLI
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config represents the complete configuration for jsontree
type Config struct {
	Search SearchConfig `yaml:"search"`
	Tree   TreeConfig   `yaml:"tree"`
	Output OutputConfig `yaml:"output"`
	Dev    DevConfig    `yaml:"dev"`
}

// SearchConfig controls how search results are presented. The search engine
// itself never truncates or filters; these apply to the CLI only.
type SearchConfig struct {
	MaxResults   int          `yaml:"max_results"` // 0 means unlimited
	ExcludePaths []PathFilter `yaml:"exclude_paths"`
}

// PathFilter hides results whose normalized path matches Pattern
type PathFilter struct {
	Pattern string `yaml:"pattern"`
	Comment string `yaml:"comment,omitempty"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// TreeConfig controls tree rendering and the initial expansion state
type TreeConfig struct {
	ExpandAll bool `yaml:"expand_all"`
	Indent    int  `yaml:"indent"`
}

// OutputConfig controls output generation options
type OutputConfig struct {
	Format string `yaml:"format"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool `yaml:"debug"`
	Verbose bool `yaml:"verbose"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Search: SearchConfig{
			MaxResults:   0,
			ExcludePaths: []PathFilter{},
		},
		Tree: TreeConfig{
			ExpandAll: false,
			Indent:    2,
		},
		Output: OutputConfig{
			Format: OutputText,
		},
		Dev: DevConfig{
			Debug:   false,
			Verbose: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.compilePatterns(); err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontree.yml", ".jsontree.yaml", "jsontree.yml", "jsontree.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks values that YAML decoding alone cannot reject
func (c *Config) Validate() error {
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("search.max_results must not be negative, got %d", c.Search.MaxResults)
	}
	if c.Tree.Indent < 0 {
		return fmt.Errorf("tree.indent must not be negative, got %d", c.Tree.Indent)
	}
	switch c.Output.Format {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("output.format must be %q or %q, got %q", OutputText, OutputJSON, c.Output.Format)
	}
	return nil
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	for i := range c.Search.ExcludePaths {
		filter := &c.Search.ExcludePaths[i]
		regex, err := regexp.Compile(filter.Pattern)
		if err != nil {
			return fmt.Errorf("invalid exclude path pattern '%s': %w", filter.Pattern, err)
		}
		filter.regex = regex
	}
	return nil
}

// MatchesPath checks if this filter matches the given normalized path
func (pf *PathFilter) MatchesPath(path string) bool {
	if pf.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(pf.Pattern)
		if err != nil {
			return false
		}
		pf.regex = regex
	}
	return pf.regex.MatchString(path)
}

// IsExcluded reports whether any exclude filter matches path
func (c *Config) IsExcluded(path string) bool {
	for i := range c.Search.ExcludePaths {
		if c.Search.ExcludePaths[i].MatchesPath(path) {
			return true
		}
	}
	return false
}

// Overrides holds values given on the command line. Zero values mean the
// flag was not given and the config file value stands.
type Overrides struct {
	MaxResults int
	Format     string
	Debug      bool
	Verbose    bool
}

// Apply layers CLI overrides on top of c and validates the result
func (c *Config) Apply(o Overrides) error {
	if o.MaxResults > 0 {
		c.Search.MaxResults = o.MaxResults
	}
	if o.Format != "" {
		c.Output.Format = o.Format
	}
	// debug and verbose can only be switched on from the command line
	if o.Debug {
		c.Dev.Debug = true
	}
	if o.Verbose {
		c.Dev.Verbose = true
	}
	return c.Validate()
}

// WithOverrides returns a copy of c with o applied. The receiver is left
// untouched so per-command flags do not leak between commands.
func (c *Config) WithOverrides(o Overrides) (*Config, error) {
	out := *c
	if err := out.Apply(o); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if err := cfg.Apply(o); err != nil {
		return nil, err
	}

	return cfg, nil
}
