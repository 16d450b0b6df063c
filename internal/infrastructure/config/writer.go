package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# CLEVA career timeline configuration

paths:
  documents: data/documents        # one <entity_id>.jsonld file per member
  document_ext: .jsonld
  name_table: data/paranames.tsv   # wikidata_id, language, label
  cache_dir: data/name_cache       # member_names.json / group_names.json
  # output: data/careers.json      # bundle written by 'cleva build'

names:
  primary_language: en
  targets: [yue, zh-hk]            # preference order

graph:
  membership: P54
  start: P580
  end: P582
  jersey: P1618
  birth: P569

categories:
  youth: [under-, youth, u-]
  national: [national]

timeline:
  reference_year: 2025             # or set CLEVA_REFERENCE_YEAR

batch:
  workers: 8
  document_timeout: 30s

sqlite:
  path: .cleva/cleva.db            # or set CLEVA_SQLITE_PATH

log:
  level: info                      # or set CLEVA_LOG_LEVEL
  development: false
`

// WriteDefault creates the .cleva directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)
	configFile := filepath.Join(configDir, DefaultConfigFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)
	configFile := filepath.Join(configDir, DefaultConfigFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Exists checks if a cleva config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
