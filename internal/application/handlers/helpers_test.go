package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/mocks"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/config"
)

var nopLogger = zap.NewNop().Sugar()

const (
	clubNode = `{"@id": "wd:Q9617",
		"label": [{"@language": "en", "@value": "Arsenal F.C."}, {"@language": "yue", "@value": "阿仙奴"}],
		"description": {"@language": "en", "@value": "football club"}}`
	nationalNode = `{"@id": "wd:Q100",
		"label": [{"@language": "en", "@value": "Hong Kong national football team"}, {"@language": "yue", "@value": "香港足球代表隊"}]}`
)

// testSource is a small corpus: two players who overlapped at one club, a
// document without affiliations and an unparseable document.
func testSource() *mocks.DocumentSource {
	return mocks.NewDocumentSource().
		Add("/data/Q1.jsonld", `{"@graph": [
			{"@id": "wd:Q1", "label": [{"@language": "en", "@value": "Player One"}, {"@language": "yue", "@value": "一號"}]},
			{"@id": "s:1", "@type": ["wikibase:Statement"], "ps:P54": "wd:Q9617",
				"P580": "2001-01-01T00:00:00Z", "P582": "2006-01-01T00:00:00Z"},
			{"@id": "s:2", "@type": ["wikibase:Statement"], "ps:P54": "wd:Q100",
				"P580": "2003-01-01T00:00:00Z", "P582": {"@id": "_:b1"}},
			`+clubNode+`,
			`+nationalNode+`
		]}`).
		Add("/data/Q2.jsonld", `{"@graph": [
			{"@id": "wd:Q2", "label": {"@language": "en", "@value": "Player Two"}},
			{"@id": "s:3", "@type": ["wikibase:Statement"], "ps:P54": "wd:Q9617",
				"P580": "2004-01-01T00:00:00Z"},
			`+clubNode+`
		]}`).
		Add("/data/Q3.jsonld", `{"@graph": [{"@id": "wd:Q3", "label": {"@language": "en", "@value": "Coach"}}]}`).
		Add("/data/Q4.jsonld", `{not json`)
}

// testConfig returns a default config whose side inputs live in a temp dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Documents = "/data"
	cfg.Paths.NameTable = filepath.Join(dir, "names.tsv")
	cfg.Paths.CacheDir = filepath.Join(dir, "cache")
	cfg.Batch.Workers = 2
	cfg.SQLite.Path = ":memory:"
	return cfg
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}
