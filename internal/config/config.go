package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the config file nor a flag sets a value.
const (
	DefaultDays  = 60.0
	DefaultSkip  = "delete"
	DefaultShare = "data"
	DefaultUser  = "Admin"
)

type LoggingCfg struct {
	FilePath   string `yaml:"file_path"`    // empty: stderr only
	MaxSizeMB  int    `yaml:"max_size_mb"`  // rotate when the file exceeds this size
	MaxBackups int    `yaml:"max_backups"`  // rotated files to keep
	MaxAgeDays int    `yaml:"max_age_days"` // days to keep rotated files
}

type MetricsCfg struct {
	Textfile string `yaml:"textfile"` // node_exporter textfile collector target, empty disables
}

// Config carries every tunable of a cleanup run. It is built once in the CLI
// layer and passed down explicitly; no package reads flags or environment
// variables at use time.
type Config struct {
	Days            float64 `yaml:"days"`
	Skip            string  `yaml:"skip"`
	DeleteEmptyDirs bool    `yaml:"-"`
	Share           string  `yaml:"share"`
	User            string  `yaml:"user"`
	Throttle        float64 `yaml:"throttle"` // deletions per second, 0 = unlimited
	Verbose         bool    `yaml:"verbose"`

	Logging LoggingCfg `yaml:"logging"`
	Metrics MetricsCfg `yaml:"metrics"`

	// Password for remote mounts, resolved by the caller (environment or
	// prompt). Never read from the config file.
	Password string `yaml:"-"`
}

var (
	errNegativeDays     = errors.New("days must not be negative")
	errNegativeThrottle = errors.New("throttle must not be negative")
	errInvalidUser      = errors.New("user must not contain ':'")
)

// fileConfig mirrors Config for YAML decoding. Fields whose zero value is a
// legitimate setting are pointers so an absent key keeps the default.
type fileConfig struct {
	Days            *float64   `yaml:"days"`
	Skip            *string    `yaml:"skip"`
	DeleteEmptyDirs *bool      `yaml:"delete_empty_dirs"`
	Share           *string    `yaml:"share"`
	User            *string    `yaml:"user"`
	Throttle        *float64   `yaml:"throttle"`
	Verbose         *bool      `yaml:"verbose"`
	Logging         LoggingCfg `yaml:"logging"`
	Metrics         MetricsCfg `yaml:"metrics"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Days:            DefaultDays,
		Skip:            DefaultSkip,
		DeleteEmptyDirs: true,
		Share:           DefaultShare,
		User:            DefaultUser,
		Logging: LoggingCfg{
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
	}
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(b, &f); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	f.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the conventional config location
// ($XDG_CONFIG_HOME/shareclean/config.yaml) and whether a file exists there.
func DefaultPath() (string, bool) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(dir, "shareclean", "config.yaml")
	info, err := os.Stat(path)
	return path, err == nil && !info.IsDir()
}

func (f *fileConfig) apply(cfg *Config) {
	if f.Days != nil {
		cfg.Days = *f.Days
	}
	if f.Skip != nil {
		cfg.Skip = *f.Skip
	}
	if f.DeleteEmptyDirs != nil {
		cfg.DeleteEmptyDirs = *f.DeleteEmptyDirs
	}
	if f.Share != nil {
		cfg.Share = *f.Share
	}
	if f.User != nil {
		cfg.User = *f.User
	}
	if f.Throttle != nil {
		cfg.Throttle = *f.Throttle
	}
	if f.Verbose != nil {
		cfg.Verbose = *f.Verbose
	}
	if f.Logging.FilePath != "" {
		cfg.Logging.FilePath = f.Logging.FilePath
	}
	if f.Logging.MaxSizeMB > 0 {
		cfg.Logging.MaxSizeMB = f.Logging.MaxSizeMB
	}
	if f.Logging.MaxBackups > 0 {
		cfg.Logging.MaxBackups = f.Logging.MaxBackups
	}
	if f.Logging.MaxAgeDays > 0 {
		cfg.Logging.MaxAgeDays = f.Logging.MaxAgeDays
	}
	if f.Metrics.Textfile != "" {
		cfg.Metrics.Textfile = f.Metrics.Textfile
	}
}

// Validate rejects values no run could use.
func (c *Config) Validate() error {
	if c.Days < 0 {
		return errNegativeDays
	}
	if c.Throttle < 0 {
		return errNegativeThrottle
	}
	if strings.Contains(c.User, ":") {
		return errInvalidUser
	}
	if c.Share == "" {
		c.Share = DefaultShare
	}
	if c.User == "" {
		c.User = DefaultUser
	}
	return nil
}
