package entities

// Membership is one member's stint in a group, as indexed by the teammate graph.
type Membership struct {
	MemberID EntityID   `json:"member_id"`
	Member   NameRecord `json:"member"`
	Interval Interval   `json:"interval"`
	Category Category   `json:"category"`
	Jersey   string     `json:"jersey,omitempty"`
}

// CandidatePair is two distinct members whose stints in the same group overlap.
// MemberA always sorts before MemberB.
type CandidatePair struct {
	MemberA   EntityID   `json:"member_a"`
	MemberB   EntityID   `json:"member_b"`
	GroupID   EntityID   `json:"group_id"`
	Category  Category   `json:"category"`
	IntervalA Interval   `json:"interval_a"`
	IntervalB Interval   `json:"interval_b"`
	NameA     NameRecord `json:"name_a"`
	NameB     NameRecord `json:"name_b"`
	GroupName NameRecord `json:"group_name"`
}

// FullyLocalized reports whether both members and the group have localized names.
func (p CandidatePair) FullyLocalized() bool {
	return p.NameA.HasLocalized() && p.NameB.HasLocalized() && p.GroupName.HasLocalized()
}

// Key returns a stable identifier for the pair within its group.
func (p CandidatePair) Key() string {
	return string(p.GroupID) + ":" + string(p.MemberA) + ":" + string(p.MemberB)
}
