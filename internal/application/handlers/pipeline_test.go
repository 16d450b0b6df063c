package handlers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/parsers"
)

func TestPipeline_LoadNameTable(t *testing.T) {
	t.Run("missing file degrades", func(t *testing.T) {
		p := NewPipeline(testConfig(t), nopLogger)
		table, err := p.LoadNameTable()
		require.NoError(t, err)
		assert.Nil(t, table)
	})

	t.Run("no path configured", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Paths.NameTable = ""
		table, err := NewPipeline(cfg, nopLogger).LoadNameTable()
		require.NoError(t, err)
		assert.Nil(t, table)
	})

	t.Run("keeps target languages only", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Paths.NameTable = filepath.Join(t.TempDir(), "names.json")
		writeFile(t, cfg.Paths.NameTable, `[
			{"wikidata_id": "Q1", "language": "yue", "label": "一號"},
			{"wikidata_id": "Q2", "language": "fr", "label": "Deux"}
		]`)

		table, err := NewPipeline(cfg, nopLogger).LoadNameTable()
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
		labels, ok := table.Lookup("Q1")
		require.True(t, ok)
		assert.Equal(t, "一號", labels["yue"])
	})

	t.Run("unsupported format", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Paths.NameTable = filepath.Join(t.TempDir(), "names.xlsx")
		_, err := NewPipeline(cfg, nopLogger).LoadNameTable()
		require.ErrorIs(t, err, parsers.ErrUnsupportedFormat)
	})

	t.Run("malformed file", func(t *testing.T) {
		cfg := testConfig(t)
		writeFile(t, cfg.Paths.NameTable, "id\tlang\n")
		_, err := NewPipeline(cfg, nopLogger).LoadNameTable()
		require.Error(t, err)
	})
}

func TestPipeline_LoadNameCache_Missing(t *testing.T) {
	p := NewPipeline(testConfig(t), nopLogger)
	assert.Nil(t, p.LoadNameCache())
}

func TestPipeline_Components(t *testing.T) {
	cfg := testConfig(t)
	cfg.Categories.National = []string{"select"}
	p := NewPipeline(cfg, nopLogger)

	assert.Equal(t, entities.CategoryNationalTeam, p.Categorizer().Categorize("Hong Kong Select", ""))
	assert.Equal(t, entities.CategoryClub, p.Categorizer().Categorize("Hong Kong national team", ""))
	assert.Equal(t, "en", p.NameOptions().PrimaryLanguage)
	assert.Equal(t, 2, p.BatchOptions().Workers)
}
