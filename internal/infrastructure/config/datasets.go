package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DatasetsConfig holds named corpora (read/write). Each dataset has its own
// inputs and its own database under .cleva/datasets/<name>.
type DatasetsConfig struct {
	Datasets map[string]DatasetEntry `yaml:"datasets,omitempty"`
}

// DatasetEntry overrides the corpus paths for one dataset. Empty fields keep
// the values from config.yaml.
type DatasetEntry struct {
	Documents   string `yaml:"documents"`
	NameTable   string `yaml:"name_table,omitempty"`
	CacheDir    string `yaml:"cache_dir,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// LoadDatasets loads dataset configuration from the .cleva directory.
func LoadDatasets(basePath string) (*DatasetsConfig, error) {
	datasetsFile := DatasetsFilePath(basePath)

	data, err := os.ReadFile(datasetsFile)
	if os.IsNotExist(err) {
		// Return empty config if file doesn't exist
		return &DatasetsConfig{
			Datasets: make(map[string]DatasetEntry),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading datasets file: %w", err)
	}

	var cfg DatasetsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing datasets file: %w", err)
	}

	if cfg.Datasets == nil {
		cfg.Datasets = make(map[string]DatasetEntry)
	}

	return &cfg, nil
}

// Save writes the dataset configuration to the datasets file.
func (d *DatasetsConfig) Save(basePath string) error {
	configDir := ConfigDir(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling datasets config: %w", err)
	}

	if err := os.WriteFile(DatasetsFilePath(basePath), data, 0644); err != nil {
		return fmt.Errorf("writing datasets file: %w", err)
	}

	return nil
}

// Add adds a dataset to the configuration.
func (d *DatasetsConfig) Add(name string, entry DatasetEntry) {
	if d.Datasets == nil {
		d.Datasets = make(map[string]DatasetEntry)
	}
	d.Datasets[name] = entry
}

// Remove removes a dataset from the configuration.
func (d *DatasetsConfig) Remove(name string) {
	if d.Datasets != nil {
		delete(d.Datasets, name)
	}
}

// Names returns the dataset names in sorted order.
func (d *DatasetsConfig) Names() []string {
	names := make([]string, 0, len(d.Datasets))
	for k := range d.Datasets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Get returns the configuration for a specific dataset.
func (d *DatasetsConfig) Get(name string) (*DatasetEntry, error) {
	if len(d.Datasets) == 0 {
		return nil, errors.New("no datasets configured")
	}

	entry, ok := d.Datasets[name]
	if !ok {
		names := d.Names()
		if len(names) > 5 {
			names = append(names[:5], "...")
		}
		return nil, fmt.Errorf("dataset %q not found (available: %s)", name, strings.Join(names, ", "))
	}

	return &entry, nil
}

// Exists checks if a dataset exists in the configuration.
func (d *DatasetsConfig) Exists(name string) bool {
	if d.Datasets == nil {
		return false
	}
	_, ok := d.Datasets[name]
	return ok
}

// ForDataset returns a copy of c with the dataset's paths applied and the
// database moved to the dataset's directory.
func (c *Config) ForDataset(basePath, name string, entry DatasetEntry) *Config {
	out := *c
	if entry.Documents != "" {
		out.Paths.Documents = resolve(basePath, entry.Documents)
	}
	if entry.NameTable != "" {
		out.Paths.NameTable = resolve(basePath, entry.NameTable)
	}
	if entry.CacheDir != "" {
		out.Paths.CacheDir = resolve(basePath, entry.CacheDir)
	}
	out.SQLite.Path = SQLitePathForDataset(basePath, name)
	return &out
}

// DatasetsExists checks if a datasets file exists in the given path.
func DatasetsExists(basePath string) bool {
	_, err := os.Stat(DatasetsFilePath(basePath))
	return err == nil
}
