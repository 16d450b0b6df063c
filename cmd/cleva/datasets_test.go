package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/config"
)

func TestAddDataset(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, config.WriteDefault(tmpDir))

	err := addDataset(tmpDir, "HK Football", config.DatasetEntry{
		Documents:   "corpora/hk",
		Description: "Hong Kong footballers",
	})
	require.NoError(t, err)

	datasets, err := config.LoadDatasets(tmpDir)
	require.NoError(t, err)
	require.True(t, datasets.Exists("HK Football"))

	entry, err := datasets.Get("HK Football")
	require.NoError(t, err)
	assert.Equal(t, "corpora/hk", entry.Documents)
	assert.Equal(t, "Hong Kong footballers", entry.Description)
	assert.Equal(t, filepath.Join(tmpDir, ".cleva", "datasets", "hk_football", "name_cache"), entry.CacheDir)
}

func TestAddDataset_Duplicate(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, config.WriteDefault(tmpDir))
	require.NoError(t, addDataset(tmpDir, "hk", config.DatasetEntry{Documents: "a"}))

	err := addDataset(tmpDir, "hk", config.DatasetEntry{Documents: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddDataset_NotInitialized(t *testing.T) {
	err := addDataset(t.TempDir(), "hk", config.DatasetEntry{Documents: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestAddDataset_DefaultDescription(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, config.WriteDefault(tmpDir))
	require.NoError(t, addDataset(tmpDir, "hk", config.DatasetEntry{Documents: "a"}))

	datasets, err := config.LoadDatasets(tmpDir)
	require.NoError(t, err)
	assert.Contains(t, datasets.Datasets["hk"].Description, "added ")
}

func TestRemoveDataset(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, config.WriteDefault(tmpDir))
	require.NoError(t, addDataset(tmpDir, "hk", config.DatasetEntry{Documents: "a"}))
	require.NoError(t, addDataset(tmpDir, "macau", config.DatasetEntry{Documents: "b"}))

	dir := config.DatasetDir(tmpDir, "hk")
	require.NoError(t, os.MkdirAll(dir, 0755))

	t.Run("keeps state without purge", func(t *testing.T) {
		require.NoError(t, removeDataset(tmpDir, "macau", false))

		datasets, err := config.LoadDatasets(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"hk"}, datasets.Names())
	})

	t.Run("purge deletes state", func(t *testing.T) {
		require.NoError(t, removeDataset(tmpDir, "hk", true))

		_, err := os.Stat(dir)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("unknown dataset", func(t *testing.T) {
		err := removeDataset(tmpDir, "hk", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestLoadConfig_Dataset(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, config.WriteDefault(tmpDir))
	require.NoError(t, addDataset(tmpDir, "hk", config.DatasetEntry{Documents: "corpora/hk"}))
	t.Chdir(tmpDir)

	globalDataset = "hk"
	t.Cleanup(func() { globalDataset = "" })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "corpora", "hk"), cfg.Paths.Documents)
	assert.Equal(t, config.SQLitePathForDataset(tmpDir, "hk"), cfg.SQLite.Path)

	globalDataset = "missing"
	_, err = loadConfig()
	require.Error(t, err)
}
