// Package graph reads Wikidata-style JSON-LD statement graphs.
package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
)

const (
	// EntityPrefix is the namespace prefix on entity references.
	EntityPrefix = "wd:"
	// PlaceholderPrefix marks anonymous (blank) nodes.
	PlaceholderPrefix = "_:"
	// StatementType is the @type of statement nodes.
	StatementType = "wikibase:Statement"
	// ArticleType is the @type of sitelink article nodes.
	ArticleType = "schema:Article"
)

// Node is a single object of a document's @graph.
type Node map[string]json.RawMessage

// LangValue is a language-tagged literal.
type LangValue struct {
	Language string `json:"@language"`
	Value    string `json:"@value"`
}

// LabelSet is a list of language-tagged literals normalized from either a
// single object or a list of objects.
type LabelSet []LangValue

// Get returns the value for the given language tag.
func (s LabelSet) Get(lang string) (string, bool) {
	for _, lv := range s {
		if lv.Language == lang && lv.Value != "" {
			return lv.Value, true
		}
	}
	return "", false
}

// Filter returns tag → value for the tags in langs, keeping the first value per tag.
func (s LabelSet) Filter(langs []string) map[string]string {
	out := make(map[string]string)
	for _, lv := range s {
		if lv.Value == "" {
			continue
		}
		for _, l := range langs {
			if lv.Language == l {
				if _, seen := out[l]; !seen {
					out[l] = lv.Value
				}
				break
			}
		}
	}
	return out
}

// First returns the first value in the set.
func (s LabelSet) First() string {
	for _, lv := range s {
		if lv.Value != "" {
			return lv.Value
		}
	}
	return ""
}

// ID returns the node's @id.
func (n Node) ID() string {
	return n.String("@id")
}

// Has reports whether the node carries key.
func (n Node) Has(key string) bool {
	_, ok := n[key]
	return ok
}

// String returns the value of key when it is a JSON string.
func (n Node) String(key string) string {
	raw, ok := n[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Types returns the @type discriminator whether it is a string or a list.
func (n Node) Types() []string {
	return n.Strings("@type")
}

// HasType reports whether t is among the node's types.
func (n Node) HasType(t string) bool {
	for _, v := range n.Types() {
		if v == t {
			return true
		}
	}
	return false
}

// Strings returns the value of key as a list of strings. A bare string
// becomes a one-element list and non-string elements are dropped.
func (n Node) Strings(key string) []string {
	raw, ok := n[key]
	if !ok {
		return nil
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return []string{s}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Refs returns the entity ids referenced by key with the "wd:" prefix removed.
func (n Node) Refs(key string) []entities.EntityID {
	var out []entities.EntityID
	for _, s := range n.Strings(key) {
		if id := StripPrefix(s); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// LabelSet returns the language-tagged literals stored under key. This is the
// only place that knows a label may be a single object or a list of objects.
func (n Node) LabelSet(key string) LabelSet {
	raw, ok := n[key]
	if !ok {
		return nil
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '{':
		var lv LangValue
		if err := json.Unmarshal(raw, &lv); err != nil {
			return nil
		}
		return LabelSet{lv}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		set := make(LabelSet, 0, len(items))
		for _, item := range items {
			var lv LangValue
			if err := json.Unmarshal(item, &lv); err == nil {
				set = append(set, lv)
			}
		}
		return set
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return LabelSet{{Value: s}}
	default:
		return nil
	}
}

// StripPrefix removes the "wd:" namespace prefix from an entity reference.
func StripPrefix(ref string) entities.EntityID {
	return entities.EntityID(strings.TrimPrefix(strings.TrimSpace(ref), EntityPrefix))
}

// Document is a decoded JSON-LD statement graph.
type Document struct {
	ID    entities.EntityID
	Path  string
	Nodes []Node
	index map[entities.EntityID]int
}

type rawDocument struct {
	Graph []Node `json:"@graph"`
}

// Decode reads a JSON-LD document. A missing @graph decodes to an empty document.
func Decode(r io.Reader) (*Document, error) {
	var raw rawDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing JSON-LD: %w", err)
	}
	return NewDocument(raw.Graph), nil
}

// NewDocument builds a document over nodes and indexes entity nodes by id.
func NewDocument(nodes []Node) *Document {
	doc := &Document{
		Nodes: nodes,
		index: make(map[entities.EntityID]int),
	}
	for i, n := range nodes {
		id := n.ID()
		if !strings.HasPrefix(id, EntityPrefix) {
			continue
		}
		eid := StripPrefix(id)
		if _, seen := doc.index[eid]; !seen {
			doc.index[eid] = i
		}
	}
	return doc
}

// Entity returns the node describing id, if present.
func (d *Document) Entity(id entities.EntityID) (Node, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.index[id]
	if !ok {
		return nil, false
	}
	return d.Nodes[i], true
}

// Statements returns the statement nodes in graph order.
func (d *Document) Statements() []Node {
	var out []Node
	for _, n := range d.Nodes {
		if n.HasType(StatementType) {
			out = append(out, n)
		}
	}
	return out
}

// ArticleName returns the title of the Wikipedia article in lang, if the
// graph carries one.
func (d *Document) ArticleName(lang string) string {
	for _, n := range d.Nodes {
		if !n.HasType(ArticleType) || n.String("inLanguage") != lang {
			continue
		}
		if !strings.Contains(n.ID(), "wikipedia.org") {
			continue
		}
		if name := n.LabelSet("name").First(); name != "" {
			return name
		}
	}
	return ""
}
