package services

import (
	"context"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/infrastructure/graph"
)

// DefaultReferenceYear stands in for the end of ongoing affiliations.
const DefaultReferenceYear = 2025

// TimelineBuilder assembles a CareerRecord from one member document.
type TimelineBuilder struct {
	parser      *graph.Parser
	resolver    *NameResolver
	categorizer *Categorizer
	refYear     int
}

// NewTimelineBuilder creates a timeline builder.
func NewTimelineBuilder(parser *graph.Parser, resolver *NameResolver, categorizer *Categorizer, refYear int) *TimelineBuilder {
	return &TimelineBuilder{
		parser:      parser,
		resolver:    resolver,
		categorizer: categorizer,
		refYear:     refYear,
	}
}

// ReferenceYear returns the year used for open-ended affiliations.
func (b *TimelineBuilder) ReferenceYear() int {
	return b.refYear
}

// Build parses doc's membership statements and assembles the career of the
// document's entity. It returns parse warnings alongside the record.
func (b *TimelineBuilder) Build(ctx context.Context, doc *graph.Document) (entities.CareerRecord, []string, error) {
	raws, warnings := b.parser.Affiliations(doc)

	rec := entities.CareerRecord{
		EntityID:     doc.ID,
		Name:         b.resolver.Resolve(doc.ID, doc),
		BirthYear:    b.parser.BirthYear(doc, doc.ID),
		Jerseys:      b.parser.Jerseys(doc),
		SourcePath:   doc.Path,
		Affiliations: make([]entities.AffiliationInterval, 0, len(raws)),
	}

	groups := make(map[entities.EntityID]entities.NameRecord)
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return entities.CareerRecord{}, nil, err
		}

		group, ok := groups[raw.GroupID]
		if !ok {
			group = b.resolver.Resolve(raw.GroupID, doc)
			groups[raw.GroupID] = group
		}

		end := raw.End.YearPtr()
		rec.Affiliations = append(rec.Affiliations, entities.AffiliationInterval{
			MemberID:    doc.ID,
			GroupID:     raw.GroupID,
			StartYear:   raw.StartYear,
			EndYear:     end,
			IsOpenEnded: end == nil,
			End:         raw.End.State,
			Category:    b.CategorizeGroup(group),
			Jersey:      raw.Jersey,
			Group:       group,
		})
	}

	rec.Span = CareerSpan(rec.Affiliations, b.refYear)

	return rec, warnings, nil
}

// CategorizeGroup classifies a resolved group using its primary-language description.
func (b *TimelineBuilder) CategorizeGroup(group entities.NameRecord) entities.Category {
	return b.categorizer.CategorizeGroup(group, b.resolver.Options().PrimaryLanguage)
}

// Tenure returns the length in years of an affiliation, using refYear for an
// open end and never going below zero. It is undefined without a start year.
func Tenure(a entities.AffiliationInterval, refYear int) (int, bool) {
	if a.StartYear == nil {
		return 0, false
	}
	return max(endOr(a.EndYear, refYear)-*a.StartYear, 0), true
}

// CareerSpan returns the range from the earliest start year to the latest
// end year, where refYear always counts as an end. It is nil when no
// affiliation has a start year.
func CareerSpan(affs []entities.AffiliationInterval, refYear int) *entities.Span {
	var span *entities.Span
	end := refYear
	for _, a := range affs {
		if a.StartYear != nil {
			if span == nil {
				span = &entities.Span{Start: *a.StartYear}
			} else {
				span.Start = min(span.Start, *a.StartYear)
			}
		}
		if a.EndYear != nil {
			end = max(end, *a.EndYear)
		}
	}
	if span != nil {
		span.End = end
	}
	return span
}

// PrimaryAffiliation returns the affiliation with the longest tenure among
// those accepted by keep (all when keep is nil). On equal tenure the one
// encountered first wins. Affiliations without a start year are ignored.
func PrimaryAffiliation(affs []entities.AffiliationInterval, refYear int, keep func(entities.AffiliationInterval) bool) (entities.AffiliationInterval, bool) {
	var (
		best    entities.AffiliationInterval
		bestLen int
		found   bool
	)
	for _, a := range affs {
		if keep != nil && !keep(a) {
			continue
		}
		tenure, ok := Tenure(a, refYear)
		if !ok {
			continue
		}
		if !found || tenure > bestLen {
			best, bestLen, found = a, tenure, true
		}
	}
	return best, found
}

// InCategory returns a filter for PrimaryAffiliation matching category c.
func InCategory(c entities.Category) func(entities.AffiliationInterval) bool {
	return func(a entities.AffiliationInterval) bool {
		return a.Category == c
	}
}

// NationalDebut returns the earliest start year among senior national-team
// affiliations. Youth teams do not count.
func NationalDebut(rec entities.CareerRecord) (entities.AffiliationInterval, bool) {
	var (
		first entities.AffiliationInterval
		found bool
	)
	for _, a := range rec.NationalTeams() {
		if a.StartYear == nil {
			continue
		}
		if !found || *a.StartYear < *first.StartYear {
			first, found = a, true
		}
	}
	return first, found
}
