package namecache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
)

func TestSaveLoad(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = time.Now })

	dir := filepath.Join(t.TempDir(), "cache")
	members := map[entities.EntityID]entities.NameRecord{
		"Q1": {ID: "Q1", PrimaryName: "Player One", BestLocalizedName: "一號", BestLocalizedTag: "yue",
			LocalizedNames: map[string]string{"yue": "一號"}, Source: entities.NameSourcePrimary},
		"Q2": {ID: "Q2", PrimaryName: "Player Two", BestLocalizedName: "Player Two", Source: entities.NameSourceNone},
	}
	groups := map[entities.EntityID]entities.NameRecord{
		"Q9617": {ID: "Q9617", PrimaryName: "Arsenal F.C.", BestLocalizedName: "阿仙奴", BestLocalizedTag: "zh-hk",
			LocalizedNames: map[string]string{"zh-hk": "阿仙奴"}, Source: entities.NameSourceSecondary,
			Descriptions: map[string]string{"en": "football club"}},
	}

	require.NoError(t, Save(dir, members, groups))

	gotMembers, gotGroups, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, members, gotMembers)
	assert.Equal(t, groups, gotGroups)

	mm, gm, err := ReadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, Metadata{GeneratedAt: fixed, Kind: "members", Total: 2, Primary: 1, None: 1}, mm)
	assert.Equal(t, Metadata{GeneratedAt: fixed, Kind: "groups", Total: 1, Secondary: 1}, gm)

	_, err = os.Stat(filepath.Join(dir, MembersFile+".tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_Unavailable(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, _, err := Load(filepath.Join(t.TempDir(), "nope"))
		require.ErrorIs(t, err, ErrCacheUnavailable)
	})

	t.Run("groups file missing", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, MembersFile), []byte(`{"entities": {}}`), 0644))
		_, _, err := Load(dir)
		require.ErrorIs(t, err, ErrCacheUnavailable)
	})

	t.Run("malformed", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, MembersFile), []byte(`{`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, GroupsFile), []byte(`{}`), 0644))
		_, _, err := Load(dir)
		require.ErrorIs(t, err, ErrCacheUnavailable)
	})
}

func TestLoad_FillsMissingIDs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MembersFile), []byte(`{"entities": {"Q1": {"best_localized_name": "x", "name_source": "none"}}}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, GroupsFile), []byte(`{}`), 0644))

	members, groups, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, entities.EntityID("Q1"), members["Q1"].ID)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}
