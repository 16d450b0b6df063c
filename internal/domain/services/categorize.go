package services

import (
	"strings"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
)

// CategoryMarkers are the case-insensitive substrings that classify a group.
type CategoryMarkers struct {
	Youth    []string
	National []string
}

// DefaultCategoryMarkers returns the markers used for football teams.
func DefaultCategoryMarkers() CategoryMarkers {
	return CategoryMarkers{
		Youth:    []string{"under-", "youth", "u-"},
		National: []string{"national"},
	}
}

// Categorizer classifies groups as club, national team, or youth team by
// keyword matching on the group's name and description. Youth takes
// precedence over national; anything else is a club.
type Categorizer struct {
	youth    []string
	national []string
}

// NewCategorizer creates a categorizer with the given markers.
func NewCategorizer(m CategoryMarkers) *Categorizer {
	return &Categorizer{
		youth:    lowerAll(m.Youth),
		national: lowerAll(m.National),
	}
}

// Categorize classifies a group from its name and description.
func (c *Categorizer) Categorize(name, description string) entities.Category {
	name = strings.ToLower(name)
	description = strings.ToLower(description)

	switch {
	case containsAny(name, c.youth) || containsAny(description, c.youth):
		return entities.CategoryYouthTeam
	case containsAny(name, c.national) || containsAny(description, c.national):
		return entities.CategoryNationalTeam
	default:
		return entities.CategoryClub
	}
}

// CategorizeGroup classifies a resolved group using its name and description in lang.
func (c *Categorizer) CategorizeGroup(group entities.NameRecord, lang string) entities.Category {
	return c.Categorize(group.PrimaryName, group.Description(lang))
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
