package graph

import (
	"fmt"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
)

// Properties names the statement properties the parser reads.
type Properties struct {
	Membership string // e.g. "P54", read as "ps:P54" on statements
	Start      string // qualifier holding the start date
	End        string // qualifier holding the end date
	Jersey     string // jersey number, as a statement value and as a qualifier
	Birth      string // date of birth on the entity node
}

// DefaultProperties returns the Wikidata properties for sports team membership.
func DefaultProperties() Properties {
	return Properties{
		Membership: "P54",
		Start:      "P580",
		End:        "P582",
		Jersey:     "P1618",
		Birth:      "P569",
	}
}

// Parser turns statement graphs into raw affiliations.
type Parser struct {
	props Properties
}

// NewParser creates a parser reading the given properties.
func NewParser(props Properties) *Parser {
	return &Parser{props: props}
}

// Affiliations returns the membership statements of doc in graph order,
// along with warnings for statements that were repaired or dropped.
func (p *Parser) Affiliations(doc *Document) ([]entities.RawAffiliation, []string) {
	var (
		out      []entities.RawAffiliation
		warnings []string
	)
	valueKey := "ps:" + p.props.Membership
	jerseyKey := "pq:" + p.props.Jersey

	for _, st := range doc.Statements() {
		if !st.Has(valueKey) {
			continue
		}
		refs := st.Refs(valueKey)
		if len(refs) == 0 {
			warnings = append(warnings, fmt.Sprintf("statement %s: empty %s value", st.ID(), valueKey))
			continue
		}

		start, startWarn := p.startYear(st)
		if startWarn != "" {
			warnings = append(warnings, startWarn)
		}
		end, endWarn := p.endMarker(st)
		if endWarn != "" {
			warnings = append(warnings, endWarn)
		}
		if start != nil && end.State == entities.EndEnded && *start > end.Year {
			warnings = append(warnings, fmt.Sprintf("statement %s: start %d after end %d, start dropped", st.ID(), *start, end.Year))
			start = nil
		}

		var jersey string
		if nums := st.Strings(jerseyKey); len(nums) > 0 {
			jersey = nums[0]
		}

		out = append(out, entities.RawAffiliation{
			GroupID:   refs[0],
			StartYear: start,
			End:       end,
			Jersey:    jersey,
		})
	}

	return out, warnings
}

func (p *Parser) startYear(st Node) (*int, string) {
	year, kind := dateMarker(st, p.props.Start)
	switch kind {
	case markerYear:
		return entities.IntPtr(year), ""
	case markerInvalid:
		return nil, fmt.Sprintf("statement %s: unreadable %s", st.ID(), p.props.Start)
	default:
		return nil, ""
	}
}

func (p *Parser) endMarker(st Node) (entities.EndMarker, string) {
	year, kind := dateMarker(st, p.props.End)
	switch kind {
	case markerYear:
		return entities.Ended(year), ""
	case markerInvalid:
		return entities.UnknownEnd(), fmt.Sprintf("statement %s: unreadable %s", st.ID(), p.props.End)
	default:
		return entities.Ongoing(), ""
	}
}

// Jerseys returns the jersey-number statements of doc in graph order.
func (p *Parser) Jerseys(doc *Document) []entities.JerseyNumber {
	var out []entities.JerseyNumber
	valueKey := "ps:" + p.props.Jersey
	teamKey := "pq:" + p.props.Membership

	for _, st := range doc.Statements() {
		nums := st.Strings(valueKey)
		if len(nums) == 0 || nums[0] == "" {
			continue
		}
		j := entities.JerseyNumber{
			Number: nums[0],
			Teams:  st.Refs(teamKey),
		}
		if y, kind := dateMarker(st, p.props.Start); kind == markerYear {
			j.StartYear = entities.IntPtr(y)
		}
		end, kind := dateMarker(st, p.props.End)
		switch kind {
		case markerYear:
			j.EndYear = entities.IntPtr(end)
		case markerAbsent, markerPlaceholder:
			j.IsCurrent = true
		}
		out = append(out, j)
	}

	return out
}

// BirthYear returns the birth year recorded on the entity node for id.
func (p *Parser) BirthYear(doc *Document, id entities.EntityID) *int {
	node, ok := doc.Entity(id)
	if !ok {
		return nil
	}
	if year, kind := dateMarker(node, p.props.Birth); kind == markerYear {
		return entities.IntPtr(year)
	}
	return nil
}
