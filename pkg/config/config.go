// Package config loads task's settings from defaults, an optional YAML file
// and TASK_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tasklog/tasklog/pkg/errclass"
	"github.com/tasklog/tasklog/pkg/fsutil"
)

// EnvPrefix prefixes every environment override, e.g. TASK_LOG_PATH.
const EnvPrefix = "TASK"

// Config holds the application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Lang    LangConfig    `mapstructure:"lang" yaml:"lang"`
	Limits  LimitsConfig  `mapstructure:"limits" yaml:"limits"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`

	// File is the config file that was read, or would be written by Save.
	File string `mapstructure:"-" yaml:"-"`

	// langDerived is set while lang.path follows the log directory.
	langDerived bool
}

// LogConfig locates the task event log.
type LogConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LangConfig locates the per-project language settings.
// An empty path means lang.json next to the task log.
type LangConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LimitsConfig caps field lengths in characters.
type LimitsConfig struct {
	Title       int `mapstructure:"title" yaml:"title"`
	Description int `mapstructure:"description" yaml:"description"`
	Note        int `mapstructure:"note" yaml:"note"`
}

// LoggingConfig configures diagnostic logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // json, text
}

// OutputConfig configures terminal output.
type OutputConfig struct {
	Color bool `mapstructure:"color" yaml:"color"`
}

var defaults = map[string]any{
	"log.path":           filepath.Join("~", ".local", "share", "tasks", "tasks.log"),
	"lang.path":          "",
	"limits.title":       50,
	"limits.description": 500,
	"limits.note":        200,
	"logging.level":      "warn",
	"logging.format":     "text",
	"output.color":       true,
}

// Keys returns every settable key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default returns the default configuration with paths expanded.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	cfg.finish()
	return cfg
}

func setDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// Path returns the config file to use: explicit if set, else $TASK_CONFIG,
// else ~/.config/task/config.yaml.
func Path(explicit string) string {
	if explicit != "" {
		return ExpandHome(explicit)
	}
	if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" {
		return ExpandHome(env)
	}
	return ExpandHome(filepath.Join("~", ".config", "task", "config.yaml"))
}

// Load reads configuration. A missing file is not an error.
func Load(explicit string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	path := Path(explicit)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, errclass.ErrConfigInvalid.WithMessagef("read config %s: %v", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errclass.ErrConfigInvalid.WithMessagef("parse config: %v", err)
	}
	cfg.File = path
	cfg.finish()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finish() {
	c.Log.Path = ExpandHome(c.Log.Path)
	if c.Lang.Path == "" {
		c.langDerived = true
	}
	c.deriveLangPath()
	c.Lang.Path = ExpandHome(c.Lang.Path)
}

func (c *Config) deriveLangPath() {
	if c.langDerived {
		c.Lang.Path = filepath.Join(filepath.Dir(c.Log.Path), "lang.json")
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Log.Path == "" {
		return errclass.ErrConfigInvalid.WithMessage("log.path must not be empty")
	}
	for key, n := range map[string]int{
		"limits.title":       c.Limits.Title,
		"limits.description": c.Limits.Description,
		"limits.note":        c.Limits.Note,
	} {
		if n < 0 {
			return errclass.ErrConfigInvalid.WithMessagef("%s must not be negative (got %d)", key, n)
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errclass.ErrConfigInvalid.WithMessagef("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return errclass.ErrConfigInvalid.WithMessagef("logging.format must be text or json (got %q)", c.Logging.Format)
	}
	return nil
}

// Get returns the value of key as a string.
func (c *Config) Get(key string) (string, error) {
	v, ok := c.value(key)
	if !ok {
		return "", unknownKey(key)
	}
	return fmt.Sprint(v), nil
}

func (c *Config) value(key string) (any, bool) {
	switch key {
	case "log.path":
		return c.Log.Path, true
	case "lang.path":
		return c.Lang.Path, true
	case "limits.title":
		return c.Limits.Title, true
	case "limits.description":
		return c.Limits.Description, true
	case "limits.note":
		return c.Limits.Note, true
	case "logging.level":
		return c.Logging.Level, true
	case "logging.format":
		return c.Logging.Format, true
	case "output.color":
		return c.Output.Color, true
	}
	return nil, false
}

// Set parses value into key and validates the result.
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case "log.path":
		next.Log.Path = ExpandHome(value)
		next.deriveLangPath()
	case "lang.path":
		next.langDerived = value == ""
		next.Lang.Path = ExpandHome(value)
		next.deriveLangPath()
	case "limits.title", "limits.description", "limits.note":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errclass.ErrConfigInvalid.WithMessagef("%s must be an integer (got %q)", key, value)
		}
		switch key {
		case "limits.title":
			next.Limits.Title = n
		case "limits.description":
			next.Limits.Description = n
		default:
			next.Limits.Note = n
		}
	case "logging.level":
		next.Logging.Level = value
	case "logging.format":
		next.Logging.Format = value
	case "output.color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errclass.ErrConfigInvalid.WithMessagef("%s must be true or false (got %q)", key, value)
		}
		next.Output.Color = b
	default:
		return unknownKey(key)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Save writes the keys of cfg that differ from the defaults as YAML to
// cfg.File. A lang.path that follows the log is not written, and paths under
// the home directory are written in ~ form.
func Save(cfg *Config) error {
	if cfg.File == "" {
		return errclass.ErrConfigInvalid.WithMessage("no config file path")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	def := Default()
	sections := map[string]map[string]any{}
	for _, key := range Keys() {
		if key == "lang.path" && cfg.langDerived {
			continue
		}
		v, _ := cfg.value(key)
		if d, _ := def.value(key); v == d {
			continue
		}
		if s, ok := v.(string); ok {
			v = CollapseHome(s)
		}
		section, name, _ := strings.Cut(key, ".")
		if sections[section] == nil {
			sections[section] = map[string]any{}
		}
		sections[section][name] = v
	}

	data, err := yaml.Marshal(sections)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := fsutil.AtomicWrite(cfg.File, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// CollapseHome is the inverse of ExpandHome for paths under the home
// directory.
func CollapseHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rest
	}
	return path
}

func unknownKey(key string) error {
	return errclass.ErrConfigInvalid.WithMessagef("unknown key %q (valid: %s)", key, strings.Join(Keys(), ", "))
}
