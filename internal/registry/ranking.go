package registry

import (
	"fmt"
	"sort"
	"strings"
)

// Field is a roster value rankings can sort by
type Field string

const (
	ByPoints           Field = "points"
	ByCreditsRemaining Field = "credits"
)

// ParseField accepts "points", "credits" and "credits_remaining"
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "points", "":
		return ByPoints, nil
	case "credits", "credits_remaining":
		return ByCreditsRemaining, nil
	}
	return "", fmt.Errorf("unknown ranking field %q", s)
}

func (f Field) value(e Entry) float64 {
	if f == ByCreditsRemaining {
		return e.CreditsRemaining
	}
	return e.Points
}

// compare orders a before b, returning -1, 0 or 1
func (f Field) compare(a, b Entry, desc bool) int {
	va, vb := f.value(a), f.value(b)
	switch {
	case va == vb:
		return 0
	case (va > vb) == desc:
		return -1
	default:
		return 1
	}
}

// TopK returns the k rosters with the most extreme value of field. Ties keep
// ID order. k <= 0 returns every roster.
func (r *Registry) TopK(by Field, k int, descending bool) []Entry {
	ranked := r.All()
	sort.SliceStable(ranked, func(i, j int) bool {
		return by.compare(ranked[i], ranked[j], descending) < 0
	})
	return limit(ranked, k)
}

// TopKSecondary keeps the k best rosters under the primary field, with ties
// at the cut decided by the secondary field and then ID, and orders that set
// by the secondary field. Rosters equal on the secondary field keep their
// primary order.
func (r *Registry) TopKSecondary(primary, secondary Field, k int, primaryDesc, secondaryDesc bool) []Entry {
	ranked := r.All()
	sort.SliceStable(ranked, func(i, j int) bool {
		if c := primary.compare(ranked[i], ranked[j], primaryDesc); c != 0 {
			return c < 0
		}
		return secondary.compare(ranked[i], ranked[j], secondaryDesc) < 0
	})
	ranked = limit(ranked, k)

	sort.SliceStable(ranked, func(i, j int) bool {
		return secondary.compare(ranked[i], ranked[j], secondaryDesc) < 0
	})
	return ranked
}

func limit(entries []Entry, k int) []Entry {
	if k > 0 && k < len(entries) {
		return entries[:k]
	}
	return entries
}
