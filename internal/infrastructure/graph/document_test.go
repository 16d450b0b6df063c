package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
)

func decodeString(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := Decode(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestNode_LabelSet(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected LabelSet
	}{
		{
			name:     "single object",
			input:    `{"@graph": [{"@id": "wd:Q1", "label": {"@language": "en", "@value": "Arsenal"}}]}`,
			expected: LabelSet{{Language: "en", Value: "Arsenal"}},
		},
		{
			name: "list of objects",
			input: `{"@graph": [{"@id": "wd:Q1", "label": [
				{"@language": "en", "@value": "Arsenal"},
				{"@language": "yue", "@value": "阿仙奴"}
			]}]}`,
			expected: LabelSet{{Language: "en", Value: "Arsenal"}, {Language: "yue", Value: "阿仙奴"}},
		},
		{
			name:     "bare string",
			input:    `{"@graph": [{"@id": "wd:Q1", "label": "Arsenal"}]}`,
			expected: LabelSet{{Value: "Arsenal"}},
		},
		{
			name:     "absent",
			input:    `{"@graph": [{"@id": "wd:Q1"}]}`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decodeString(t, tt.input)
			node, ok := doc.Entity("Q1")
			require.True(t, ok)
			assert.Equal(t, tt.expected, node.LabelSet("label"))
		})
	}
}

func TestLabelSet_Filter(t *testing.T) {
	set := LabelSet{
		{Language: "en", Value: "Arsenal"},
		{Language: "zh-hk", Value: "阿森納"},
		{Language: "yue", Value: "阿仙奴"},
		{Language: "yue", Value: "second"},
		{Language: "zh", Value: "阿森纳"},
	}

	got := set.Filter([]string{"yue", "zh-hk"})
	assert.Equal(t, map[string]string{"yue": "阿仙奴", "zh-hk": "阿森納"}, got)

	v, ok := set.Get("en")
	assert.True(t, ok)
	assert.Equal(t, "Arsenal", v)

	_, ok = set.Get("fr")
	assert.False(t, ok)
}

func TestNode_Types(t *testing.T) {
	doc := decodeString(t, `{"@graph": [
		{"@id": "s:1", "@type": "wikibase:Statement"},
		{"@id": "s:2", "@type": ["wikibase:Statement", "wikibase:BestRank"]},
		{"@id": "wd:Q3", "@type": "wikibase:Item"}
	]}`)

	require.Len(t, doc.Nodes, 3)
	assert.True(t, doc.Nodes[0].HasType(StatementType))
	assert.True(t, doc.Nodes[1].HasType(StatementType))
	assert.False(t, doc.Nodes[2].HasType(StatementType))
	assert.Len(t, doc.Statements(), 2)
}

func TestNode_Refs(t *testing.T) {
	doc := decodeString(t, `{"@graph": [
		{"@id": "s:1", "pq:P54": "wd:Q9"},
		{"@id": "s:2", "pq:P54": ["wd:Q9", "wd:Q10", 7]}
	]}`)

	assert.Equal(t, []entities.EntityID{"Q9"}, doc.Nodes[0].Refs("pq:P54"))
	assert.Equal(t, []entities.EntityID{"Q9", "Q10"}, doc.Nodes[1].Refs("pq:P54"))
	assert.Nil(t, doc.Nodes[0].Refs("missing"))
}

func TestDecode(t *testing.T) {
	t.Run("missing graph is empty", func(t *testing.T) {
		doc := decodeString(t, `{"@context": {}}`)
		assert.Empty(t, doc.Nodes)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := Decode(strings.NewReader("not json"))
		require.Error(t, err)
	})

	t.Run("first entity node wins", func(t *testing.T) {
		doc := decodeString(t, `{"@graph": [
			{"@id": "wd:Q1", "label": {"@language": "en", "@value": "first"}},
			{"@id": "wd:Q1", "label": {"@language": "en", "@value": "second"}}
		]}`)
		node, ok := doc.Entity("Q1")
		require.True(t, ok)
		assert.Equal(t, "first", node.LabelSet("label").First())
	})
}

func TestDocument_ArticleName(t *testing.T) {
	doc := decodeString(t, `{"@graph": [
		{"@id": "https://fr.wikipedia.org/wiki/X", "@type": "schema:Article", "inLanguage": "fr", "name": {"@language": "fr", "@value": "Fr"}},
		{"@id": "https://en.wikipedia.org/wiki/X", "@type": "schema:Article", "inLanguage": "en", "name": {"@language": "en", "@value": "Thierry Henry"}}
	]}`)

	assert.Equal(t, "Thierry Henry", doc.ArticleName("en"))
	assert.Equal(t, "", doc.ArticleName("de"))
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		input string
		year  int
		ok    bool
	}{
		{"2004-10-01T00:00:00Z", 2004, true},
		{"+1999-01-01T00:00:00Z", 1999, true},
		{"1987", 1987, true},
		{"87", 0, false},
		{"abcd-01-01", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			year, ok := ParseYear(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.year, year)
		})
	}
}
