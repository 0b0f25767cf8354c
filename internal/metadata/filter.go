package metadata

import "strings"

// Filter selects a subset of the cleaned table. Zero values mean
// "no constraint" for every field.
type Filter struct {
	YearFrom    int      // inclusive; rows without a year never match a year bound
	YearTo      int      // inclusive
	Journals    []string // case-insensitive exact journal names, OR-ed
	HasAbstract *bool    // nil = both
	TitleQuery  string   // case-insensitive substring match on the title
}

// IsZero reports whether the filter has no constraints.
func (f Filter) IsZero() bool {
	return f.YearFrom == 0 && f.YearTo == 0 && len(f.Journals) == 0 &&
		f.HasAbstract == nil && f.TitleQuery == ""
}

// Apply returns the rows matching every constraint. The input slice is
// not modified.
func (f Filter) Apply(papers []Paper) []Paper {
	if f.IsZero() {
		out := make([]Paper, len(papers))
		copy(out, papers)
		return out
	}

	journals := make(map[string]bool, len(f.Journals))
	for _, j := range f.Journals {
		journals[strings.ToLower(strings.TrimSpace(j))] = true
	}
	query := strings.ToLower(f.TitleQuery)

	out := make([]Paper, 0)
	for _, paper := range papers {
		if !f.matchYear(paper) {
			continue
		}
		if len(journals) > 0 && !journals[strings.ToLower(paper.Journal)] {
			continue
		}
		if f.HasAbstract != nil && paper.HasAbstract != *f.HasAbstract {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(paper.Title), query) {
			continue
		}
		out = append(out, paper)
	}
	return out
}

func (f Filter) matchYear(paper Paper) bool {
	if f.YearFrom == 0 && f.YearTo == 0 {
		return true
	}
	if !paper.HasDate {
		return false
	}
	if f.YearFrom != 0 && paper.Year < f.YearFrom {
		return false
	}
	if f.YearTo != 0 && paper.Year > f.YearTo {
		return false
	}
	return true
}
