package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/namecache"
)

func TestNamesHandler_Handle(t *testing.T) {
	pipeline := NewPipeline(testConfig(t), nopLogger)
	handler := NewNamesHandler(pipeline, testSource(), nopLogger)

	result, err := handler.Handle(t.Context(), NamesOptions{})
	require.NoError(t, err)

	assert.True(t, result.Written)
	assert.Equal(t, 3, result.Members.Total)
	assert.Equal(t, 1, result.Members.Primary)
	assert.Equal(t, 2, result.Members.None)
	assert.Equal(t, 2, result.Groups.Total)
	assert.Equal(t, 2, result.Groups.Localized())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "/data/Q4.jsonld", result.Errors[0].Path)

	members, groups, err := namecache.Load(result.CacheDir)
	require.NoError(t, err)
	assert.Equal(t, "一號", members["Q1"].BestLocalizedName)
	assert.Equal(t, entities.NameSourceNone, members["Q3"].Source)
	assert.Equal(t, "阿仙奴", groups["Q9617"].BestLocalizedName)
}

func TestNamesHandler_Handle_DryRun(t *testing.T) {
	pipeline := NewPipeline(testConfig(t), nopLogger)
	handler := NewNamesHandler(pipeline, testSource(), nopLogger)

	result, err := handler.Handle(t.Context(), NamesOptions{DryRun: true})
	require.NoError(t, err)
	assert.False(t, result.Written)

	_, _, err = namecache.Load(result.CacheDir)
	require.ErrorIs(t, err, namecache.ErrCacheUnavailable)
}

func TestNamesHandler_Handle_UsesNameTable(t *testing.T) {
	pipeline := NewPipeline(testConfig(t), nopLogger)
	writeFile(t, pipeline.Config().Paths.NameTable, "wikidata_id\tlanguage\tlabel\nQ3\tzh-hk\t教練\n")
	handler := NewNamesHandler(pipeline, testSource(), nopLogger)

	result, err := handler.Handle(t.Context(), NamesOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Members.Secondary)
	assert.Equal(t, 1, result.Members.None)
}
