package entities

// Span is the overall year range of a career.
type Span struct {
	Start int `json:"start_year"`
	End   int `json:"end_year"`
}

// Years returns the length of the span in years.
func (s Span) Years() int {
	return s.End - s.Start
}

// JerseyNumber is a shirt number worn by a member, optionally tied to teams.
type JerseyNumber struct {
	Number    string     `json:"number"`
	Teams     []EntityID `json:"teams,omitempty"`
	StartYear *int       `json:"start_year,omitempty"`
	EndYear   *int       `json:"end_year,omitempty"`
	IsCurrent bool       `json:"is_current"`
}

// CareerRecord is the assembled career timeline of one member.
type CareerRecord struct {
	EntityID     EntityID              `json:"entity_id"`
	Name         NameRecord            `json:"name"`
	BirthYear    *int                  `json:"birth_year,omitempty"`
	Affiliations []AffiliationInterval `json:"affiliations"`
	Span         *Span                 `json:"career_span,omitempty"`
	Jerseys      []JerseyNumber        `json:"jerseys,omitempty"`
	SourcePath   string                `json:"source_path,omitempty"`
}

// ByCategory returns the affiliations of the given category in source order.
func (r CareerRecord) ByCategory(c Category) []AffiliationInterval {
	var out []AffiliationInterval
	for _, a := range r.Affiliations {
		if a.Category == c {
			out = append(out, a)
		}
	}
	return out
}

// Clubs returns the club affiliations.
func (r CareerRecord) Clubs() []AffiliationInterval {
	return r.ByCategory(CategoryClub)
}

// NationalTeams returns the senior national-team affiliations.
func (r CareerRecord) NationalTeams() []AffiliationInterval {
	return r.ByCategory(CategoryNationalTeam)
}

// YouthTeams returns the youth-team affiliations.
func (r CareerRecord) YouthTeams() []AffiliationInterval {
	return r.ByCategory(CategoryYouthTeam)
}

// Current returns the affiliations that have not ended.
func (r CareerRecord) Current() []AffiliationInterval {
	var out []AffiliationInterval
	for _, a := range r.Affiliations {
		if a.IsCurrent() {
			out = append(out, a)
		}
	}
	return out
}

// Former returns the affiliations that have ended.
func (r CareerRecord) Former() []AffiliationInterval {
	var out []AffiliationInterval
	for _, a := range r.Affiliations {
		if !a.IsCurrent() {
			out = append(out, a)
		}
	}
	return out
}
