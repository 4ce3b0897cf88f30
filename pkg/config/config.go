package config

import (
	"fmt"
	"strings"

	"github.com/getmockd/vmtransform/pkg/logging"
	"github.com/getmockd/vmtransform/pkg/template"
	"github.com/getmockd/vmtransform/pkg/transformer"
)

// Default values.
const (
	DefaultFiles          = "__files"
	DefaultTemplateSuffix = transformer.TemplateSuffix
)

// Config holds the transformer and logging settings.
type Config struct {
	// Files is the root directory body file names are relative to.
	Files string `yaml:"files"`

	// TemplateSuffix marks body files that are rendered as templates.
	TemplateSuffix string `yaml:"templateSuffix"`

	// Strict fails renders that reference undefined variables.
	Strict bool `yaml:"strict"`

	// CacheTemplates keeps parsed templates between renders.
	CacheTemplates bool `yaml:"cacheTemplates"`

	// JSONPath exposes the $jsonPath tool for querying JSON request bodies.
	JSONPath bool `yaml:"jsonPath"`

	Log LogConfig `yaml:"log"`

	// Sources records where each overridden field came from, keyed by its
	// YAML name.
	Sources map[string]string `yaml:"-"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Sources of configuration values.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Files:          DefaultFiles,
		TemplateSuffix: DefaultTemplateSuffix,
		Log: LogConfig{
			Level:  "info",
			Format: string(logging.FormatText),
		},
		Sources: make(map[string]string),
	}
}

// ValidationError describes an invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Files) == "" {
		return &ValidationError{Field: "files", Message: "must not be empty"}
	}
	if c.TemplateSuffix == "" {
		return &ValidationError{Field: "templateSuffix", Message: "must not be empty"}
	}
	if strings.ContainsAny(c.TemplateSuffix, `/\`) {
		return &ValidationError{Field: "templateSuffix", Message: fmt.Sprintf("must not contain a path separator: %q", c.TemplateSuffix)}
	}
	if !logging.ValidLevel(c.Log.Level) {
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q (want debug, info, warn, or error)", c.Log.Level)}
	}
	if !logging.ValidFormat(c.Log.Format) {
		return &ValidationError{Field: "log.format", Message: fmt.Sprintf("unknown format %q (want text or json)", c.Log.Format)}
	}
	return nil
}

// TransformerOptions converts the settings into transformer options.
// A non-nil cache is only attached when CacheTemplates is set.
func (c *Config) TransformerOptions() []transformer.Option {
	opts := []transformer.Option{
		transformer.WithTemplateSuffix(c.TemplateSuffix),
		transformer.WithStrict(c.Strict),
	}
	if c.CacheTemplates {
		opts = append(opts, transformer.WithCache(template.NewCache()))
	}
	if c.JSONPath {
		opts = append(opts, transformer.WithTool("jsonPath", template.NewJSONPath()))
	}
	return opts
}

func (c *Config) setSource(field, source string) {
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[field] = source
}
