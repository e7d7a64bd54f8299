// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package upgrades

import "github.com/tomtom215/velorank/internal/models"

// unknownCategory is the sentinel for a rider nobody has seen race in a
// categorized field yet.
const unknownCategory = 9

// categorySet is a rider's inferred set of possible categories. It
// starts as {unknownCategory} and narrows as categorized results come
// in.
type categorySet map[int]struct{}

func newCategorySet(cats ...int) categorySet {
	s := make(categorySet, len(cats))
	for _, c := range cats {
		s[c] = struct{}{}
	}
	return s
}

func (s categorySet) contains(c int) bool {
	_, ok := s[c]
	return ok
}

// isOnly reports whether the set is exactly {c}.
func (s categorySet) isOnly(c int) bool {
	return len(s) == 1 && s.contains(c)
}

// min returns the smallest category, or unknownCategory for an empty
// set.
func (s categorySet) min() int {
	if len(s) == 0 {
		return unknownCategory
	}
	m := 0
	first := true
	for c := range s {
		if first || c < m {
			m = c
			first = false
		}
	}
	return m
}

// max returns the largest category, or unknownCategory for an empty
// set.
func (s categorySet) max() int {
	if len(s) == 0 {
		return unknownCategory
	}
	m := 0
	first := true
	for c := range s {
		if first || c > m {
			m = c
			first = false
		}
	}
	return m
}

// intersection returns the members of s that also appear in cats.
func (s categorySet) intersection(cats models.IntList) categorySet {
	out := categorySet{}
	for _, c := range cats {
		if s.contains(c) {
			out[c] = struct{}{}
		}
	}
	return out
}

// sorted returns the set as an ascending list, the storage form of
// sum_categories.
func (s categorySet) sorted() models.IntList {
	out := make(models.IntList, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	return out.Sorted()
}
