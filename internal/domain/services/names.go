package services

import (
	"maps"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/graph"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/parsers"
)

// Keys of the label and description sets on entity nodes.
const (
	labelKey       = "label"
	descriptionKey = "description"
)

// NameOptions configures name resolution.
type NameOptions struct {
	// PrimaryLanguage is the tag of the non-localized name, e.g. "en".
	PrimaryLanguage string
	// Targets are the localized tags in preference order, e.g. ["yue", "zh-hk"].
	Targets []string
}

// DefaultNameOptions returns English primary names with Cantonese targets.
func DefaultNameOptions() NameOptions {
	return NameOptions{
		PrimaryLanguage: "en",
		Targets:         []string{"yue", "zh-hk"},
	}
}

// NameTable is the secondary name source: entity id → language tag → label.
type NameTable struct {
	entries map[entities.EntityID]map[string]string
}

// NewNameTable keeps the rows in one of langs with a non-empty id and label.
// A later row for the same id and tag replaces an earlier one.
func NewNameTable(rows []parsers.NameRow, langs []string) *NameTable {
	accept := make(map[string]bool, len(langs))
	for _, l := range langs {
		accept[l] = true
	}

	t := &NameTable{entries: make(map[entities.EntityID]map[string]string)}
	for _, row := range rows {
		if row.ID == "" || row.Label == "" || !accept[row.Language] {
			continue
		}
		id := entities.EntityID(row.ID)
		if t.entries[id] == nil {
			t.entries[id] = make(map[string]string)
		}
		t.entries[id][row.Language] = row.Label
	}
	return t
}

// Lookup returns the labels of id.
func (t *NameTable) Lookup(id entities.EntityID) (map[string]string, bool) {
	if t == nil {
		return nil, false
	}
	labels, ok := t.entries[id]
	return labels, ok && len(labels) > 0
}

// Len returns the number of entities in the table.
func (t *NameTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// NameCache holds pre-resolved names for members and groups. It is
// read-only once constructed and safe for concurrent lookups.
type NameCache struct {
	Members map[entities.EntityID]entities.NameRecord
	Groups  map[entities.EntityID]entities.NameRecord
}

// NewNameCache creates a cache over the given maps. Nil maps are allowed.
func NewNameCache(members, groups map[entities.EntityID]entities.NameRecord) *NameCache {
	return &NameCache{Members: members, Groups: groups}
}

// Lookup checks the member cache first, then the group cache.
func (c *NameCache) Lookup(id entities.EntityID) (entities.NameRecord, bool) {
	if c == nil {
		return entities.NameRecord{}, false
	}
	if rec, ok := c.Members[id]; ok {
		return rec, true
	}
	rec, ok := c.Groups[id]
	return rec, ok
}

// Len returns the total number of cached records.
func (c *NameCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Members) + len(c.Groups)
}

// ResolveContext is what a NameStrategy may consult besides the entity id.
type ResolveContext struct {
	// Node is the entity's node in the current document, if any.
	Node graph.Node
	// Base carries the primary name and descriptions read from the document.
	Base entities.NameRecord
}

// NameStrategy is one step of the resolution chain. It reports false when it
// has nothing for the entity and the next step should run.
type NameStrategy func(id entities.EntityID, rc *ResolveContext) (entities.NameRecord, bool)

// NameResolver resolves display names through an ordered chain of sources:
// cache, primary labels, secondary table, then none.
type NameResolver struct {
	opts  NameOptions
	chain []NameStrategy
}

// NewNameResolver creates a resolver. cache and table may be nil.
func NewNameResolver(opts NameOptions, cache *NameCache, table *NameTable) *NameResolver {
	r := &NameResolver{opts: opts}
	if cache != nil {
		r.chain = append(r.chain, r.fromCache(cache))
	}
	r.chain = append(r.chain, r.fromPrimary)
	if table != nil {
		r.chain = append(r.chain, r.fromSecondary(table))
	}
	r.chain = append(r.chain, r.fromNone)
	return r
}

// Options returns the resolver's language options.
func (r *NameResolver) Options() NameOptions {
	return r.opts
}

// Resolve returns the best available name record for id. doc may be nil.
// It never fails: entities missing from every source get name_source "none".
func (r *NameResolver) Resolve(id entities.EntityID, doc *graph.Document) entities.NameRecord {
	rc := r.context(id, doc)
	for _, step := range r.chain {
		if rec, ok := step(id, rc); ok {
			return rec
		}
	}
	return r.unresolved(rc.Base)
}

// ResolveAll resolves each id against doc.
func (r *NameResolver) ResolveAll(ids []entities.EntityID, doc *graph.Document) map[entities.EntityID]entities.NameRecord {
	out := make(map[entities.EntityID]entities.NameRecord, len(ids))
	for _, id := range ids {
		if _, done := out[id]; done {
			continue
		}
		out[id] = r.Resolve(id, doc)
	}
	return out
}

func (r *NameResolver) context(id entities.EntityID, doc *graph.Document) *ResolveContext {
	rc := &ResolveContext{Base: entities.NameRecord{ID: id}}
	node, ok := doc.Entity(id)
	if ok {
		rc.Node = node
		rc.Base.PrimaryName, _ = node.LabelSet(labelKey).Get(r.opts.PrimaryLanguage)
		rc.Base.Descriptions = node.LabelSet(descriptionKey).Filter(r.descriptionLangs())
		if len(rc.Base.Descriptions) == 0 {
			rc.Base.Descriptions = nil
		}
	}
	if rc.Base.PrimaryName == "" && doc != nil && doc.ID == id {
		rc.Base.PrimaryName = doc.ArticleName(r.opts.PrimaryLanguage)
	}
	return rc
}

func (r *NameResolver) descriptionLangs() []string {
	return append([]string{r.opts.PrimaryLanguage}, r.opts.Targets...)
}

func (r *NameResolver) fromCache(cache *NameCache) NameStrategy {
	return func(id entities.EntityID, _ *ResolveContext) (entities.NameRecord, bool) {
		return cache.Lookup(id)
	}
}

func (r *NameResolver) fromPrimary(_ entities.EntityID, rc *ResolveContext) (entities.NameRecord, bool) {
	if rc.Node == nil {
		return entities.NameRecord{}, false
	}
	labels := rc.Node.LabelSet(labelKey).Filter(r.opts.Targets)
	if len(labels) == 0 {
		return entities.NameRecord{}, false
	}
	return r.localized(rc.Base, labels, entities.NameSourcePrimary), true
}

func (r *NameResolver) fromSecondary(table *NameTable) NameStrategy {
	return func(id entities.EntityID, rc *ResolveContext) (entities.NameRecord, bool) {
		labels, ok := table.Lookup(id)
		if !ok {
			return entities.NameRecord{}, false
		}
		return r.localized(rc.Base, maps.Clone(labels), entities.NameSourceSecondary), true
	}
}

func (r *NameResolver) fromNone(_ entities.EntityID, rc *ResolveContext) (entities.NameRecord, bool) {
	return r.unresolved(rc.Base), true
}

func (r *NameResolver) localized(base entities.NameRecord, labels map[string]string, source entities.NameSource) entities.NameRecord {
	rec := base
	rec.LocalizedNames = labels
	rec.Source = source
	for _, tag := range r.opts.Targets {
		if name, ok := labels[tag]; ok {
			rec.BestLocalizedName = name
			rec.BestLocalizedTag = tag
			break
		}
	}
	return rec
}

func (r *NameResolver) unresolved(base entities.NameRecord) entities.NameRecord {
	rec := base
	rec.Source = entities.NameSourceNone
	rec.LocalizedNames = nil
	rec.BestLocalizedTag = ""
	rec.BestLocalizedName = rec.PrimaryName
	if rec.BestLocalizedName == "" {
		rec.BestLocalizedName = entities.UnknownName
	}
	return rec
}
