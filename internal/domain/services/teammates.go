package services

import (
	"slices"
	"sort"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
)

// TeammateGraph indexes members by group and derives candidate teammate pairs
// from overlapping stints.
type TeammateGraph struct {
	refYear    int
	members    map[entities.EntityID][]entities.Membership
	groups     map[entities.EntityID]entities.NameRecord
	categories map[entities.EntityID]entities.Category
	order      []entities.EntityID
}

// NewTeammateGraph indexes the affiliations of records in the given order.
// A group takes its name and category from its first indexed affiliation.
func NewTeammateGraph(records []entities.CareerRecord, refYear int) *TeammateGraph {
	g := &TeammateGraph{
		refYear:    refYear,
		members:    make(map[entities.EntityID][]entities.Membership),
		groups:     make(map[entities.EntityID]entities.NameRecord),
		categories: make(map[entities.EntityID]entities.Category),
	}
	for _, rec := range records {
		for _, a := range rec.Affiliations {
			if _, seen := g.members[a.GroupID]; !seen {
				g.order = append(g.order, a.GroupID)
				g.groups[a.GroupID] = a.Group
				g.categories[a.GroupID] = a.Category
			}
			g.members[a.GroupID] = append(g.members[a.GroupID], entities.Membership{
				MemberID: rec.EntityID,
				Member:   rec.Name,
				Interval: a.Interval(),
				Category: a.Category,
				Jersey:   a.Jersey,
			})
		}
	}
	return g
}

// Groups returns the indexed group ids in first-seen order.
func (g *TeammateGraph) Groups() []entities.EntityID {
	return slices.Clone(g.order)
}

// Members returns the memberships of a group in corpus order.
func (g *TeammateGraph) Members(groupID entities.EntityID) []entities.Membership {
	return slices.Clone(g.members[groupID])
}

// GroupName returns the resolved name of a group.
func (g *TeammateGraph) GroupName(groupID entities.EntityID) (entities.NameRecord, bool) {
	n, ok := g.groups[groupID]
	return n, ok
}

// Index returns group id → memberships.
func (g *TeammateGraph) Index() map[entities.EntityID][]entities.Membership {
	out := make(map[entities.EntityID][]entities.Membership, len(g.members))
	for id, ms := range g.members {
		out[id] = slices.Clone(ms)
	}
	return out
}

// Pairs returns every pair of distinct members whose stints in a shared group
// overlap. When categories are given, only groups of those categories are
// considered. Each member pair is reported once per group, ordered by group
// id and then by sweep order.
func (g *TeammateGraph) Pairs(categories ...entities.Category) []entities.CandidatePair {
	groupIDs := slices.Clone(g.order)
	slices.Sort(groupIDs)

	var pairs []entities.CandidatePair
	for _, gid := range groupIDs {
		ms := g.members[gid]
		if len(ms) < 2 {
			continue
		}
		if len(categories) > 0 && !slices.Contains(categories, g.categories[gid]) {
			continue
		}
		pairs = append(pairs, g.sweep(gid, ms)...)
	}
	return pairs
}

// sweep sorts a group's stints by start year and compares each stint only
// with later stints that start no later than it ends.
func (g *TeammateGraph) sweep(groupID entities.EntityID, ms []entities.Membership) []entities.CandidatePair {
	active := make([]entities.Membership, 0, len(ms))
	for _, m := range ms {
		if m.Interval.Start != nil {
			active = append(active, m)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return *active[i].Interval.Start < *active[j].Interval.Start
	})

	var (
		pairs []entities.CandidatePair
		seen  = make(map[[2]entities.EntityID]bool)
	)
	for i := range active {
		end := endOr(active[i].Interval.End, g.refYear)
		for j := i + 1; j < len(active) && *active[j].Interval.Start <= end; j++ {
			a, b := active[i], active[j]
			if a.MemberID == b.MemberID || !Overlaps(a.Interval, b.Interval, g.refYear) {
				continue
			}
			if b.MemberID < a.MemberID {
				a, b = b, a
			}
			key := [2]entities.EntityID{a.MemberID, b.MemberID}
			if seen[key] {
				continue
			}
			seen[key] = true
			pairs = append(pairs, entities.CandidatePair{
				MemberA:   a.MemberID,
				MemberB:   b.MemberID,
				GroupID:   groupID,
				Category:  g.categories[groupID],
				IntervalA: a.Interval,
				IntervalB: b.Interval,
				NameA:     a.Member,
				NameB:     b.Member,
				GroupName: g.groups[groupID],
			})
		}
	}
	return pairs
}

// TeammatesOf returns the pairs involving member.
func TeammatesOf(pairs []entities.CandidatePair, member entities.EntityID) []entities.CandidatePair {
	var out []entities.CandidatePair
	for _, p := range pairs {
		if p.MemberA == member || p.MemberB == member {
			out = append(out, p)
		}
	}
	return out
}
