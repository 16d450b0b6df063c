package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/parsers"
)

func testTable() *NameTable {
	return NewNameTable([]parsers.NameRow{
		{ID: "Q2", Language: "yue", Label: "乙隊"},
		{ID: "Q3", Language: "zh-hk", Label: "丙隊"},
		{ID: "Q3", Language: "yue", Label: "丙"},
		{ID: "Q5", Language: "zh", Label: "戊"},
		{ID: "Q6", Language: "yue", Label: ""},
		{ID: "", Language: "yue", Label: "no id"},
	}, DefaultNameOptions().Targets)
}

func TestNameTable(t *testing.T) {
	table := testTable()

	assert.Equal(t, 2, table.Len())

	labels, ok := table.Lookup("Q3")
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"zh-hk": "丙隊", "yue": "丙"}, labels)

	_, ok = table.Lookup("Q5")
	assert.False(t, ok, "non-target languages are dropped")

	var nilTable *NameTable
	_, ok = nilTable.Lookup("Q2")
	assert.False(t, ok)
}

func TestNameResolver_Resolve(t *testing.T) {
	doc := mustDecode(t, "Q100", jsonld(
		entityNode("Q1", map[string]string{"en": "Alpha FC", "yue": "阿爾法", "zh-hk": "阿法"}, "football club"),
		entityNode("Q2", map[string]string{"en": "Beta FC"}, ""),
		entityNode("Q4", map[string]string{"en": "Delta FC", "zh-hk": "德爾塔"}, ""),
		entityNode("Q7", map[string]string{"en": "Eta FC", "zh-hk": "伊塔"}, ""),
		entityNode("Q8", nil, ""),
	))

	resolver := NewNameResolver(DefaultNameOptions(), nil, NewNameTable([]parsers.NameRow{
		{ID: "Q2", Language: "yue", Label: "乙隊"},
		{ID: "Q3", Language: "zh-hk", Label: "丙隊"},
		{ID: "Q7", Language: "yue", Label: "伊塔粵"},
	}, DefaultNameOptions().Targets))

	tests := []struct {
		name    string
		id      entities.EntityID
		source  entities.NameSource
		best    string
		tag     string
		primary string
	}{
		{name: "primary prefers yue", id: "Q1", source: entities.NameSourcePrimary, best: "阿爾法", tag: "yue", primary: "Alpha FC"},
		{name: "primary falls back to zh-hk", id: "Q4", source: entities.NameSourcePrimary, best: "德爾塔", tag: "zh-hk", primary: "Delta FC"},
		{name: "secondary when primary lacks targets", id: "Q2", source: entities.NameSourceSecondary, best: "乙隊", tag: "yue", primary: "Beta FC"},
		{name: "secondary when node absent", id: "Q3", source: entities.NameSourceSecondary, best: "丙隊", tag: "zh-hk"},
		{name: "primary wins over secondary in another language", id: "Q7", source: entities.NameSourcePrimary, best: "伊塔", tag: "zh-hk", primary: "Eta FC"},
		{name: "document entity without labels", id: "Q100", source: entities.NameSourceNone, best: "Unknown"},
		{name: "none without labels is Unknown", id: "Q8", source: entities.NameSourceNone, best: entities.UnknownName},
		{name: "absent everywhere", id: "Q999", source: entities.NameSourceNone, best: entities.UnknownName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := resolver.Resolve(tt.id, doc)
			assert.Equal(t, tt.id, rec.ID)
			assert.Equal(t, tt.source, rec.Source)
			assert.Equal(t, tt.best, rec.BestLocalizedName)
			assert.Equal(t, tt.tag, rec.BestLocalizedTag)
			assert.Equal(t, tt.primary, rec.PrimaryName)
			assert.Equal(t, tt.source != entities.NameSourceNone, rec.HasLocalized())
		})
	}
}

func TestNameResolver_NoneUsesPrimaryName(t *testing.T) {
	doc := mustDecode(t, "Q100", jsonld(entityNode("Q2", map[string]string{"en": "Beta FC"}, "club in Spain")))
	resolver := NewNameResolver(DefaultNameOptions(), nil, nil)

	rec := resolver.Resolve("Q2", doc)
	assert.Equal(t, entities.NameSourceNone, rec.Source)
	assert.Equal(t, "Beta FC", rec.BestLocalizedName)
	assert.Empty(t, rec.LocalizedNames)
	assert.Equal(t, "club in Spain", rec.Description("en"))
}

func TestNameResolver_ArticleNameForDocumentEntity(t *testing.T) {
	doc := mustDecode(t, "Q100", jsonld(
		node{"@id": "https://en.wikipedia.org/wiki/Thierry_Henry", "@type": "schema:Article", "inLanguage": "en",
			"name": map[string]string{"@language": "en", "@value": "Thierry Henry"}},
	))
	resolver := NewNameResolver(DefaultNameOptions(), nil, nil)

	rec := resolver.Resolve("Q100", doc)
	assert.Equal(t, "Thierry Henry", rec.PrimaryName)
	assert.Equal(t, "Thierry Henry", rec.BestLocalizedName)

	other := resolver.Resolve("Q101", doc)
	assert.Equal(t, entities.UnknownName, other.BestLocalizedName)
}

func TestNameResolver_CacheHitIsVerbatim(t *testing.T) {
	cached := entities.NameRecord{
		ID:                "Q1",
		PrimaryName:       "Cached FC",
		BestLocalizedName: "快取",
		BestLocalizedTag:  "yue",
		LocalizedNames:    map[string]string{"yue": "快取"},
		Source:            entities.NameSourceSecondary,
	}
	member := entities.NameRecord{ID: "Q9", BestLocalizedName: "member", Source: entities.NameSourceNone}
	group := entities.NameRecord{ID: "Q9", BestLocalizedName: "group", Source: entities.NameSourceNone}

	cache := NewNameCache(
		map[entities.EntityID]entities.NameRecord{"Q9": member},
		map[entities.EntityID]entities.NameRecord{"Q1": cached, "Q9": group},
	)
	doc := mustDecode(t, "Q100", jsonld(entityNode("Q1", map[string]string{"en": "Alpha FC", "yue": "阿爾法"}, "")))
	resolver := NewNameResolver(DefaultNameOptions(), cache, testTable())

	assert.Equal(t, cached, resolver.Resolve("Q1", doc))
	assert.Equal(t, member, resolver.Resolve("Q9", doc), "member cache is consulted first")
	assert.Equal(t, 3, cache.Len())
}

func TestNameResolver_NilDocument(t *testing.T) {
	resolver := NewNameResolver(DefaultNameOptions(), nil, testTable())

	rec := resolver.Resolve("Q2", nil)
	assert.Equal(t, entities.NameSourceSecondary, rec.Source)
	assert.Equal(t, "乙隊", rec.BestLocalizedName)
}

func TestNameResolver_ResolveAll(t *testing.T) {
	resolver := NewNameResolver(DefaultNameOptions(), nil, testTable())

	got := resolver.ResolveAll([]entities.EntityID{"Q2", "Q3", "Q2", "Q404"}, nil)
	assert.Len(t, got, 3)
	assert.Equal(t, "丙", got["Q3"].BestLocalizedName)
	assert.Equal(t, entities.NameSourceNone, got["Q404"].Source)
}

func TestNameResolver_SecondaryLabelsAreCopied(t *testing.T) {
	table := testTable()
	resolver := NewNameResolver(DefaultNameOptions(), nil, table)

	rec := resolver.Resolve("Q2", nil)
	rec.LocalizedNames["yue"] = "changed"

	labels, _ := table.Lookup("Q2")
	assert.Equal(t, "乙隊", labels["yue"])
}
