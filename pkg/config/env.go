package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names.
const (
	EnvFiles          = "VMTRANSFORM_FILES"
	EnvTemplateSuffix = "VMTRANSFORM_TEMPLATE_SUFFIX"
	EnvStrict         = "VMTRANSFORM_STRICT"
	EnvCache          = "VMTRANSFORM_CACHE"
	EnvJSONPath       = "VMTRANSFORM_JSONPATH"
	EnvLogLevel       = "VMTRANSFORM_LOG_LEVEL"
	EnvLogFormat      = "VMTRANSFORM_LOG_FORMAT"
)

// ApplyEnv overrides cfg with the VMTRANSFORM_* environment variables that
// are set. Malformed booleans are reported rather than ignored.
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvFiles); ok && v != "" {
		cfg.Files = v
		cfg.setSource("files", SourceEnv)
	}

	if v, ok := lookup(EnvTemplateSuffix); ok && v != "" {
		cfg.TemplateSuffix = v
		cfg.setSource("templateSuffix", SourceEnv)
	}

	if v, ok := lookup(EnvStrict); ok && v != "" {
		b, err := parseBool(EnvStrict, v)
		if err != nil {
			return err
		}
		cfg.Strict = b
		cfg.setSource("strict", SourceEnv)
	}

	if v, ok := lookup(EnvCache); ok && v != "" {
		b, err := parseBool(EnvCache, v)
		if err != nil {
			return err
		}
		cfg.CacheTemplates = b
		cfg.setSource("cacheTemplates", SourceEnv)
	}

	if v, ok := lookup(EnvJSONPath); ok && v != "" {
		b, err := parseBool(EnvJSONPath, v)
		if err != nil {
			return err
		}
		cfg.JSONPath = b
		cfg.setSource("jsonPath", SourceEnv)
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
		cfg.setSource("log.level", SourceEnv)
	}

	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		cfg.Log.Format = v
		cfg.setSource("log.format", SourceEnv)
	}
	return nil
}

func parseBool(name, v string) (bool, error) {
	switch v {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", name, v)
	}
	return b, nil
}
