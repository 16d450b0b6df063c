// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for cleva configuration.
	DefaultConfigDir = ".cleva"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatasetsFile is the default datasets file name.
	DefaultDatasetsFile = "datasets.yaml"
	// DefaultDatabaseFile is the SQLite file name inside the config directory.
	DefaultDatabaseFile = "cleva.db"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static configuration (read-only after init).
type Config struct {
	Paths      PathsConfig      `yaml:"paths,omitempty"`
	Names      NamesConfig      `yaml:"names,omitempty"`
	Graph      GraphConfig      `yaml:"graph,omitempty"`
	Categories CategoriesConfig `yaml:"categories,omitempty"`
	Timeline   TimelineConfig   `yaml:"timeline,omitempty"`
	Batch      BatchConfig      `yaml:"batch,omitempty"`
	SQLite     SQLiteConfig     `yaml:"sqlite,omitempty"`
	Log        LogConfig        `yaml:"log,omitempty"`
}

// PathsConfig locates the corpus and its side inputs. Relative paths are
// resolved against the project directory.
type PathsConfig struct {
	Documents   string `yaml:"documents,omitempty"`
	DocumentExt string `yaml:"document_ext,omitempty"`
	NameTable   string `yaml:"name_table,omitempty"`
	CacheDir    string `yaml:"cache_dir,omitempty"`
	Output      string `yaml:"output,omitempty"`
}

// NamesConfig holds name resolution languages.
type NamesConfig struct {
	PrimaryLanguage string   `yaml:"primary_language,omitempty"`
	Targets         []string `yaml:"targets,omitempty"`
}

// GraphConfig names the statement properties to read.
type GraphConfig struct {
	Membership string `yaml:"membership,omitempty"`
	Start      string `yaml:"start,omitempty"`
	End        string `yaml:"end,omitempty"`
	Jersey     string `yaml:"jersey,omitempty"`
	Birth      string `yaml:"birth,omitempty"`
}

// CategoriesConfig holds the keyword markers of group categories.
type CategoriesConfig struct {
	Youth    []string `yaml:"youth,omitempty"`
	National []string `yaml:"national,omitempty"`
}

// TimelineConfig holds career timeline settings.
type TimelineConfig struct {
	// ReferenceYear stands in for the end of ongoing affiliations.
	ReferenceYear int `yaml:"reference_year,omitempty"`
}

// BatchConfig bounds corpus processing.
type BatchConfig struct {
	Workers         int           `yaml:"workers,omitempty"`
	DocumentTimeout time.Duration `yaml:"document_timeout,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite relational database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	// For datasets, this is computed dynamically using SQLitePathForDataset.
	Path string `yaml:"path,omitempty"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Documents:   "data/documents",
			DocumentExt: ".jsonld",
			NameTable:   "data/paranames.tsv",
			CacheDir:    "data/name_cache",
		},
		Names: NamesConfig{
			PrimaryLanguage: "en",
			Targets:         []string{"yue", "zh-hk"},
		},
		Graph: GraphConfig{
			Membership: "P54",
			Start:      "P580",
			End:        "P582",
			Jersey:     "P1618",
			Birth:      "P569",
		},
		Categories: CategoriesConfig{
			Youth:    []string{"under-", "youth", "u-"},
			National: []string{"national"},
		},
		Timeline: TimelineConfig{
			ReferenceYear: 2025,
		},
		Batch: BatchConfig{
			Workers:         8,
			DocumentTimeout: 30 * time.Second,
		},
		SQLite: SQLiteConfig{
			Path: filepath.Join(DefaultConfigDir, DefaultDatabaseFile),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the .cleva directory in the given path.
// Relative paths in the result are resolved against basePath.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'cleva init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.resolvePaths(basePath)

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("CLEVA_REFERENCE_YEAR"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing CLEVA_REFERENCE_YEAR: %w", err)
		}
		c.Timeline.ReferenceYear = year
	}
	if v := os.Getenv("CLEVA_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CLEVA_SQLITE_PATH"); v != "" {
		c.SQLite.Path = v
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Names.PrimaryLanguage == "" {
		errs = append(errs, errors.New("names.primary_language is required"))
	}
	if len(c.Names.Targets) == 0 {
		errs = append(errs, errors.New("names.targets must list at least one language"))
	}
	if c.Graph.Membership == "" {
		errs = append(errs, errors.New("graph.membership is required"))
	}
	if c.Timeline.ReferenceYear <= 0 {
		errs = append(errs, fmt.Errorf("timeline.reference_year must be positive, got %d", c.Timeline.ReferenceYear))
	}
	if c.Batch.Workers <= 0 {
		errs = append(errs, fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers))
	}
	if c.Batch.DocumentTimeout <= 0 {
		errs = append(errs, fmt.Errorf("batch.document_timeout must be positive, got %s", c.Batch.DocumentTimeout))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}

// resolvePaths makes relative paths absolute against basePath.
func (c *Config) resolvePaths(basePath string) {
	c.Paths.Documents = resolve(basePath, c.Paths.Documents)
	c.Paths.NameTable = resolve(basePath, c.Paths.NameTable)
	c.Paths.CacheDir = resolve(basePath, c.Paths.CacheDir)
	c.Paths.Output = resolve(basePath, c.Paths.Output)
	if c.SQLite.Path != ":memory:" {
		c.SQLite.Path = resolve(basePath, c.SQLite.Path)
	}
}

func resolve(basePath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(basePath, p)
}

// ConfigDir returns the path to the .cleva config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// DatasetsFilePath returns the path to the datasets file.
func DatasetsFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultDatasetsFile)
}

// SanitizeDatasetName converts a dataset name to a safe directory name.
func SanitizeDatasetName(name string) string {
	name = strings.ToLower(name)

	// Replace spaces and hyphens with underscores
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	name = reNonAlphanumeric.ReplaceAllString(name, "")
	name = reMultipleUnderscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return "default"
	}

	return name
}

// DatasetDir returns the directory holding a dataset's state.
func DatasetDir(basePath, name string) string {
	return filepath.Join(basePath, DefaultConfigDir, "datasets", SanitizeDatasetName(name))
}

// SQLitePathForDataset returns the SQLite database path for a given dataset.
func SQLitePathForDataset(basePath, name string) string {
	return filepath.Join(DatasetDir(basePath, name), DefaultDatabaseFile)
}
