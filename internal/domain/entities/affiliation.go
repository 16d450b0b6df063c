package entities

// Category classifies the kind of group an affiliation belongs to.
type Category string

const (
	CategoryClub         Category = "club"
	CategoryNationalTeam Category = "national_team"
	CategoryYouthTeam    Category = "youth_team"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{CategoryClub, CategoryNationalTeam, CategoryYouthTeam}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryClub, CategoryNationalTeam, CategoryYouthTeam:
		return true
	default:
		return false
	}
}

// EndState is the normalized state of an affiliation's end marker.
type EndState string

const (
	// EndEnded means the source carried a parseable end date.
	EndEnded EndState = "ended"
	// EndOngoing means the end marker was absent or an anonymous placeholder node.
	EndOngoing EndState = "ongoing"
	// EndUnknown means an end marker was present but could not be read.
	EndUnknown EndState = "unknown"
)

// EndMarker is the tri-state end of an affiliation. Year is set only for EndEnded.
type EndMarker struct {
	State EndState
	Year  int
}

// Ended returns an end marker for a known end year.
func Ended(year int) EndMarker { return EndMarker{State: EndEnded, Year: year} }

// Ongoing returns an end marker for an affiliation that has not ended.
func Ongoing() EndMarker { return EndMarker{State: EndOngoing} }

// UnknownEnd returns an end marker for an unreadable end date.
func UnknownEnd() EndMarker { return EndMarker{State: EndUnknown} }

// YearPtr returns the end year, or nil unless the marker is EndEnded.
func (m EndMarker) YearPtr() *int {
	if m.State != EndEnded {
		return nil
	}
	y := m.Year
	return &y
}

// RawAffiliation is a membership statement as read from a document, before
// names are resolved and a category is assigned.
type RawAffiliation struct {
	GroupID   EntityID
	StartYear *int
	End       EndMarker
	Jersey    string
}

// Interval is a closed range of years with optional endpoints.
type Interval struct {
	Start *int `json:"start_year"`
	End   *int `json:"end_year"`
}

// AffiliationInterval is one normalized, categorized membership of a member in a group.
type AffiliationInterval struct {
	MemberID    EntityID   `json:"member_id"`
	GroupID     EntityID   `json:"group_id"`
	StartYear   *int       `json:"start_year"`
	EndYear     *int       `json:"end_year"`
	IsOpenEnded bool       `json:"is_open_ended"`
	End         EndState   `json:"end_state"`
	Category    Category   `json:"category"`
	Jersey      string     `json:"jersey,omitempty"`
	Group       NameRecord `json:"group"`
}

// Interval returns the year range of the affiliation.
func (a AffiliationInterval) Interval() Interval {
	return Interval{Start: a.StartYear, End: a.EndYear}
}

// IsCurrent reports whether the affiliation is still ongoing.
func (a AffiliationInterval) IsCurrent() bool {
	return a.IsOpenEnded
}

// IntPtr returns a pointer to a copy of v.
func IntPtr(v int) *int {
	return &v
}
