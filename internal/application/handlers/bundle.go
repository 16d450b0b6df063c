package handlers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
)

// Bundle is the JSON document written by a build with an output path.
type Bundle struct {
	Metadata       BundleMetadata                              `json:"metadata"`
	Careers        map[entities.EntityID]entities.CareerRecord `json:"careers"`
	Unaffiliated   map[entities.EntityID]entities.CareerRecord `json:"unaffiliated,omitempty"`
	GroupIndex     map[entities.EntityID]BundleGroup           `json:"group_index"`
	CandidatePairs []entities.CandidatePair                    `json:"candidate_pairs"`
	Errors         []BundleError                               `json:"errors"`
	Summary        entities.BatchSummary                       `json:"summary"`
}

// BundleMetadata describes the build that produced a bundle.
type BundleMetadata struct {
	RunID          string    `json:"run_id"`
	GeneratedAt    time.Time `json:"generated_at"`
	ReferenceYear  int       `json:"reference_year"`
	Careers        int       `json:"careers"`
	Groups         int       `json:"groups"`
	Pairs          int       `json:"pairs"`
	LocalizedPairs int       `json:"localized_pairs"`
}

// BundleGroup is one entry of the group index.
type BundleGroup struct {
	Name    entities.NameRecord   `json:"name"`
	Members []entities.Membership `json:"members"`
}

// BundleError is a document that failed during the build.
type BundleError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// NewBundle assembles a bundle from a build result.
func NewBundle(r *BuildResult) *Bundle {
	b := &Bundle{
		Metadata: BundleMetadata{
			RunID:         r.Run.ID,
			GeneratedAt:   r.Run.FinishedAt,
			ReferenceYear: r.Run.ReferenceYear,
			Careers:       len(r.Careers),
			Groups:        len(r.GroupIndex),
			Pairs:         len(r.Pairs),
		},
		Careers:        make(map[entities.EntityID]entities.CareerRecord, len(r.Careers)),
		GroupIndex:     make(map[entities.EntityID]BundleGroup, len(r.GroupIndex)),
		CandidatePairs: r.Pairs,
		Errors:         make([]BundleError, 0, len(r.Errors)),
		Summary:        r.Run.Summary,
	}
	if b.CandidatePairs == nil {
		b.CandidatePairs = []entities.CandidatePair{}
	}

	for _, rec := range r.Careers {
		b.Careers[rec.EntityID] = rec
	}
	if len(r.Unaffiliated) > 0 {
		b.Unaffiliated = make(map[entities.EntityID]entities.CareerRecord, len(r.Unaffiliated))
		for _, rec := range r.Unaffiliated {
			b.Unaffiliated[rec.EntityID] = rec
		}
	}
	for gid, members := range r.GroupIndex {
		b.GroupIndex[gid] = BundleGroup{Name: r.GroupNames[gid], Members: members}
	}
	for _, p := range r.Pairs {
		if p.FullyLocalized() {
			b.Metadata.LocalizedPairs++
		}
	}
	for _, e := range r.Errors {
		b.Errors = append(b.Errors, BundleError{Path: e.Path, Message: e.Message})
	}
	return b
}

// WriteBundle writes b to path as indented JSON, replacing any existing file.
func WriteBundle(path string, b *Bundle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling bundle: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing bundle: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing bundle: %w", err)
	}
	return nil
}

// ReadBundle reads a bundle written by WriteBundle.
func ReadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing bundle: %w", err)
	}
	return &b, nil
}
