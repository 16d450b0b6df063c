package services

import "github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"

// Overlaps reports whether two year intervals share at least one year.
// An interval without a start never overlaps; a missing end counts as refYear.
// Bounds are inclusive, so [2000, 2005] and [2005, 2010] overlap.
func Overlaps(a, b entities.Interval, refYear int) bool {
	if a.Start == nil || b.Start == nil {
		return false
	}
	s1, e1 := *a.Start, endOr(a.End, refYear)
	s2, e2 := *b.Start, endOr(b.End, refYear)
	return !(e1 < s2 || e2 < s1)
}

func endOr(end *int, refYear int) int {
	if end == nil {
		return refYear
	}
	return *end
}
