package movie

import (
	"cmp"
	"fmt"
	"strings"
)

// Comparator orders two records, returning a negative number when a sorts
// before b, zero when they are equal and a positive number otherwise.
type Comparator func(a, b Record) int

// ByTitle compares titles byte-wise
func ByTitle(a, b Record) int {
	return strings.Compare(a.Title, b.Title)
}

// ByPopularity compares popularity scores numerically
func ByPopularity(a, b Record) int {
	return cmp.Compare(a.Popularity, b.Popularity)
}

// Direction selects ascending or descending order
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns the string representation of a Direction
func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// Sort orders the records in [0, count) with an exchange sort.
//
// Equal neighbours are never swapped, so the sort is stable.
func Sort(s *Store, compare Comparator, dir Direction) {
	n := s.count
	for i := 0; i < n-1; i++ {
		swapped := false
		for j := 0; j < n-i-1; j++ {
			c := compare(s.records[j], s.records[j+1])
			if (dir == Ascending && c > 0) || (dir == Descending && c < 0) {
				s.swap(j, j+1)
				swapped = true
			}
		}
		if !swapped {
			return
		}
	}
}

// SortMode is one of the sort variants offered by the menus
type SortMode int

const (
	SortNone SortMode = iota
	SortTitleAsc
	SortTitleDesc
	SortPopularityAsc
	SortPopularityDesc
)

// String returns the flag form of a SortMode
func (m SortMode) String() string {
	switch m {
	case SortTitleAsc:
		return "title"
	case SortTitleDesc:
		return "-title"
	case SortPopularityAsc:
		return "popularity"
	case SortPopularityDesc:
		return "-popularity"
	default:
		return "none"
	}
}

// Label returns the human readable description printed before sorting
func (m SortMode) Label() string {
	switch m {
	case SortTitleAsc:
		return "Title (Ascending)"
	case SortTitleDesc:
		return "Title (Descending)"
	case SortPopularityAsc:
		return "Popularity (Ascending)"
	case SortPopularityDesc:
		return "Popularity (Descending)"
	default:
		return "None"
	}
}

// Comparator returns the comparator for the mode, nil for SortNone
func (m SortMode) Comparator() Comparator {
	switch m {
	case SortTitleAsc, SortTitleDesc:
		return ByTitle
	case SortPopularityAsc, SortPopularityDesc:
		return ByPopularity
	default:
		return nil
	}
}

// Direction returns the direction for the mode
func (m SortMode) Direction() Direction {
	if m == SortTitleDesc || m == SortPopularityDesc {
		return Descending
	}
	return Ascending
}

// Apply sorts the store according to the mode. SortNone leaves it untouched.
func (m SortMode) Apply(s *Store) {
	if c := m.Comparator(); c != nil {
		Sort(s, c, m.Direction())
	}
}

// ParseSortMode parses the flag form of a sort mode
func ParseSortMode(v string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none":
		return SortNone, nil
	case "title", "+title":
		return SortTitleAsc, nil
	case "-title":
		return SortTitleDesc, nil
	case "popularity", "+popularity":
		return SortPopularityAsc, nil
	case "-popularity":
		return SortPopularityDesc, nil
	default:
		return SortNone, fmt.Errorf("invalid sort mode: %s (must be title, -title, popularity, -popularity or none)", v)
	}
}
