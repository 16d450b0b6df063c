package entities

// EntityID identifies a person or organization in the knowledge graph (e.g. "Q107051").
// It never carries a namespace prefix such as "wd:".
type EntityID string

// UnknownName is the display name used when no source carries any label.
const UnknownName = "Unknown"

// NameSource records which source supplied the localized names of a NameRecord.
type NameSource string

const (
	NameSourcePrimary   NameSource = "primary"
	NameSourceSecondary NameSource = "secondary"
	NameSourceNone      NameSource = "none"
)

// NameRecord is the resolved display-name information for one entity.
type NameRecord struct {
	ID                EntityID          `json:"id"`
	PrimaryName       string            `json:"primary_name,omitempty"`
	LocalizedNames    map[string]string `json:"localized_names,omitempty"`
	BestLocalizedName string            `json:"best_localized_name"`
	BestLocalizedTag  string            `json:"best_localized_tag,omitempty"`
	Source            NameSource        `json:"name_source"`
	Descriptions      map[string]string `json:"descriptions,omitempty"`
}

// HasLocalized reports whether any source supplied a localized label.
func (n NameRecord) HasLocalized() bool {
	return n.Source != NameSourceNone && len(n.LocalizedNames) > 0
}

// DisplayName returns the best localized name, falling back to the primary name.
func (n NameRecord) DisplayName() string {
	if n.BestLocalizedName != "" {
		return n.BestLocalizedName
	}
	if n.PrimaryName != "" {
		return n.PrimaryName
	}
	return UnknownName
}

// Description returns the description for the given language tag, or "".
func (n NameRecord) Description(tag string) string {
	return n.Descriptions[tag]
}
