package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"

	"github.com/dshills/commitgate/internal/lint"
	"gopkg.in/yaml.v3"
)

// RepoConfigName is the per-repository config file name.
const RepoConfigName = ".commitgate.yaml"

// ErrUnknownKey is returned by SetField for an unrecognised key.
var ErrUnknownKey = errors.New("unknown config key")

// Config represents the commitgate configuration.
type Config struct {
	MaxSubjectLength    int      `yaml:"maxSubjectLength"`
	Types               TypeList `yaml:"types"`
	SubjectPattern      string   `yaml:"subjectPattern,omitempty"`
	SubjectPatternError string   `yaml:"subjectPatternErrorMsg,omitempty"`
	WarnOnFail          bool     `yaml:"warnOnFail"`
	HelpMessage         string   `yaml:"helpMessage,omitempty"`
	Format              string   `yaml:"format"`
	Jobs                int      `yaml:"jobs"`
	MetricsFile         string   `yaml:"metricsFile,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		MaxSubjectLength:    lint.DefaultMaxSubjectLength,
		Types:               TypeList{Names: append([]string(nil), lint.DefaultTypes...)},
		SubjectPatternError: lint.DefaultSubjectPatternError,
		Format:              "text",
		Jobs:                4,
	}
}

// envKeys maps environment variables to config keys.
var envKeys = []struct{ env, key string }{
	{"COMMITGATE_MAX_SUBJECT_LENGTH", "maxSubjectLength"},
	{"COMMITGATE_TYPES", "types"},
	{"COMMITGATE_SUBJECT_PATTERN", "subjectPattern"},
	{"COMMITGATE_SUBJECT_PATTERN_ERROR", "subjectPatternErrorMsg"},
	{"COMMITGATE_WARN_ON_FAIL", "warnOnFail"},
	{"COMMITGATE_HELP_MESSAGE", "helpMessage"},
	{"COMMITGATE_FORMAT", "format"},
	{"COMMITGATE_JOBS", "jobs"},
	{"COMMITGATE_METRICS_FILE", "metricsFile"},
}

// ConfigDir returns the platform-appropriate user config directory.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "commitgate"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "commitgate"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "commitgate"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "commitgate"), nil
	default:
		return filepath.Join(home, ".config", "commitgate"), nil
	}
}

// ConfigPath returns the full path to the user config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// FindRepoConfig searches upward from start for RepoConfigName. It returns
// "" when no file is found.
func FindRepoConfig(start string) string {
	dir := start
	for {
		p := filepath.Join(dir, RepoConfigName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ResolvePath picks the config file to load: explicit if given, else the
// nearest repository file, else the user config file.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if wd, err := os.Getwd(); err == nil {
		if p := FindRepoConfig(wd); p != "" {
			return p, nil
		}
	}
	return ConfigPath()
}

// LoadFile loads config from path. Returns zero Config and nil error if the
// file doesn't exist.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only set values should be present).
func Load(path string, overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.MaxSubjectLength != 0 {
		dst.MaxSubjectLength = src.MaxSubjectLength
	}
	if !src.Types.IsZero() {
		dst.Types = src.Types
	}
	if src.SubjectPattern != "" {
		dst.SubjectPattern = src.SubjectPattern
	}
	if src.SubjectPatternError != "" {
		dst.SubjectPatternError = src.SubjectPatternError
	}
	// A false in the file can't be told apart from an absent key.
	dst.WarnOnFail = src.WarnOnFail || dst.WarnOnFail
	if src.HelpMessage != "" {
		dst.HelpMessage = src.HelpMessage
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Jobs > 0 {
		dst.Jobs = src.Jobs
	}
	if src.MetricsFile != "" {
		dst.MetricsFile = src.MetricsFile
	}
}

func mergeEnv(cfg *Config) error {
	for _, e := range envKeys {
		v, ok := os.LookupEnv(e.env)
		if !ok || v == "" {
			continue
		}
		if err := SetField(cfg, e.key, v); err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return fmt.Errorf("flag %s: %w", key, err)
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns ErrUnknownKey if
// the key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "maxSubjectLength":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxSubjectLength must be an integer: %w", err)
		}
		cfg.MaxSubjectLength = n
	case "types":
		cfg.Types = ParseTypeList(value)
	case "subjectPattern":
		cfg.SubjectPattern = value
	case "subjectPatternErrorMsg":
		cfg.SubjectPatternError = value
	case "warnOnFail":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("warnOnFail must be a boolean: %w", err)
		}
		cfg.WarnOnFail = b
	case "helpMessage":
		cfg.HelpMessage = value
	case "format":
		cfg.Format = value
	case "jobs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("jobs must be an integer: %w", err)
		}
		cfg.Jobs = n
	case "metricsFile":
		cfg.MetricsFile = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// Validate checks values that can be checked without compiling rules.
func (c Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Format)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Types.IsZero() {
		return errors.New(`types must be "*" or a non-empty list`)
	}
	return nil
}

// Lint compiles the config into validator rules.
func (c Config) Lint() (lint.Config, error) {
	lc := lint.Config{
		MaxSubjectLength:    c.MaxSubjectLength,
		AllowedTypes:        c.Types.Allowed(),
		SubjectPatternError: c.SubjectPatternError,
		WarnOnFail:          c.WarnOnFail,
		HelpMessage:         c.HelpMessage,
	}
	if c.SubjectPattern != "" {
		re, err := regexp.Compile(c.SubjectPattern)
		if err != nil {
			return lint.Config{}, fmt.Errorf("compiling subjectPattern: %w", err)
		}
		lc.SubjectPattern = re
	}
	return lc, nil
}
