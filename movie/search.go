package movie

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FindByTitle fuzzy-matches query against the titles in [0, count) and
// returns the matching records, closest match first.
func (s *Store) FindByTitle(query string) []Record {
	if query == "" || s.count == 0 {
		return nil
	}

	titles := make([]string, s.count)
	for i := 0; i < s.count; i++ {
		titles[i] = s.records[i].Title
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Stable(ranks)

	matches := make([]Record, 0, len(ranks))
	for _, rank := range ranks {
		matches = append(matches, s.records[rank.OriginalIndex])
	}
	return matches
}
