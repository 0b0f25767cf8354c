package metadata

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"
)

// YearCount is the number of papers published in one year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// GroupCount is a named group (journal, source) with its paper count.
type GroupCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// WordCount is one title word with its total occurrence count.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// HistogramBin is one bucket of the abstract-length distribution.
type HistogramBin struct {
	From  int `json:"from"`
	To    int `json:"to"` // exclusive
	Count int `json:"count"`
}

// LengthStats summarizes the abstract word-count distribution.
type LengthStats struct {
	Count     int            `json:"count"`
	Mean      float64        `json:"mean"`
	Median    float64        `json:"median"`
	Max       int            `json:"max"`
	P99       int            `json:"p99"`
	Histogram []HistogramBin `json:"histogram,omitempty"`
}

// Overview is the dataset summary shown on the dashboard header.
type Overview struct {
	TotalPapers    int `json:"total_papers"`
	WithAbstract   int `json:"papers_with_abstract"`
	UniqueJournals int `json:"unique_journals"`
	YearMin        int `json:"year_min,omitempty"`
	YearMax        int `json:"year_max,omitempty"`
}

// stopWords excluded from title word-frequency analysis.
var stopWords = map[string]bool{
	"the": true, "and": true, "but": true, "for": true, "with": true,
	"are": true, "was": true, "were": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "must": true, "can": true, "cannot": true,
	"from": true, "this": true, "that": true, "its": true, "their": true,
	"using": true, "based": true, "among": true, "during": true,
}

// Aggregator computes the descriptive statistics over a cleaned table.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// CountByYear groups papers by derived publication year, ascending.
// Rows without a year are excluded.
func (a *Aggregator) CountByYear(papers []Paper) []YearCount {
	byYear := make(map[int]int)
	for _, paper := range papers {
		if paper.HasDate {
			byYear[paper.Year]++
		}
	}

	counts := make([]YearCount, 0, len(byYear))
	for year, count := range byYear {
		counts = append(counts, YearCount{Year: year, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Year < counts[j].Year
	})
	return counts
}

// PeakYear returns the year with the most papers. The second return is
// false when no paper has a year.
func (a *Aggregator) PeakYear(counts []YearCount) (YearCount, bool) {
	var peak YearCount
	found := false
	for _, yc := range counts {
		if !found || yc.Count > peak.Count {
			peak = yc
			found = true
		}
	}
	return peak, found
}

// TopJournals returns the n most frequent journals, count descending with
// name as the tiebreak. Rows without a journal are skipped.
func (a *Aggregator) TopJournals(papers []Paper, n int) []GroupCount {
	return a.topGroups(papers, n, func(p Paper) string { return p.Journal })
}

// TopSources returns the n most frequent source databases.
func (a *Aggregator) TopSources(papers []Paper, n int) []GroupCount {
	return a.topGroups(papers, n, func(p Paper) string { return p.Source })
}

func (a *Aggregator) topGroups(papers []Paper, n int, key func(Paper) string) []GroupCount {
	byGroup := make(map[string]int)
	for _, paper := range papers {
		if name := strings.TrimSpace(key(paper)); name != "" {
			byGroup[name]++
		}
	}

	groups := make([]GroupCount, 0, len(byGroup))
	for name, count := range byGroup {
		groups = append(groups, GroupCount{Name: name, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Name < groups[j].Name
	})

	if n > 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// TitleWordCounts tokenizes every title and counts word occurrences.
// Words are lowercased, stripped of non-letters; stop words and words
// shorter than three runes are dropped. The counts sum to the total
// retained word occurrences across all titles.
func (a *Aggregator) TitleWordCounts(papers []Paper) map[string]int {
	counts := make(map[string]int)
	for _, paper := range papers {
		for _, word := range TokenizeTitle(paper.Title) {
			counts[word]++
		}
	}
	return counts
}

// TopWords returns the n most frequent title words.
func (a *Aggregator) TopWords(papers []Paper, n int) []WordCount {
	byWord := a.TitleWordCounts(papers)

	words := make([]WordCount, 0, len(byWord))
	for word, count := range byWord {
		words = append(words, WordCount{Word: word, Count: count})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})

	if n > 0 && len(words) > n {
		words = words[:n]
	}
	return words
}

// TokenizeTitle splits a title into analysis tokens: lowercase, letters
// only, minimum three runes, stop words removed.
func TokenizeTitle(title string) []string {
	var tokens []string
	var b strings.Builder

	flush := func() {
		word := b.String()
		b.Reset()
		if len([]rune(word)) > 2 && !stopWords[word] {
			tokens = append(tokens, word)
		}
	}

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			if b.Len() > 0 {
				flush()
			}
		default:
			// Non-letter, non-space runes are stripped: "COVID-19" -> "covid".
		}
	}
	if b.Len() > 0 {
		flush()
	}
	return tokens
}

// AbstractLengthStats computes the distribution of abstract word counts
// over papers that have an abstract. The histogram covers [0, p99] in
// bins buckets.
func (a *Aggregator) AbstractLengthStats(papers []Paper, bins int) LengthStats {
	var lengths []int
	for _, paper := range papers {
		if paper.HasAbstract {
			lengths = append(lengths, paper.AbstractWordCount)
		}
	}
	if len(lengths) == 0 {
		return LengthStats{}
	}
	if bins <= 0 {
		bins = 30
	}

	sort.Ints(lengths)

	total := 0
	for _, l := range lengths {
		total += l
	}

	stats := LengthStats{
		Count: len(lengths),
		Mean:  float64(total) / float64(len(lengths)),
		Max:   lengths[len(lengths)-1],
		P99:   lengths[(len(lengths)-1)*99/100],
	}
	if n := len(lengths); n%2 == 1 {
		stats.Median = float64(lengths[n/2])
	} else {
		stats.Median = float64(lengths[n/2-1]+lengths[n/2]) / 2
	}

	// Outliers above p99 are excluded from the histogram, as in the
	// distribution plots.
	width := stats.P99/bins + 1
	histogram := make([]HistogramBin, bins)
	for i := range histogram {
		histogram[i] = HistogramBin{From: i * width, To: (i + 1) * width}
	}
	for _, l := range lengths {
		if l > stats.P99 {
			continue
		}
		idx := l / width
		if idx >= bins {
			idx = bins - 1
		}
		histogram[idx].Count++
	}
	stats.Histogram = histogram

	return stats
}

// Summarize produces the dashboard overview for a (possibly filtered) table.
func (a *Aggregator) Summarize(ctx context.Context, papers []Paper) Overview {
	overview := Overview{TotalPapers: len(papers)}

	journals := make(map[string]bool)
	for _, paper := range papers {
		if paper.HasAbstract {
			overview.WithAbstract++
		}
		if paper.Journal != "" {
			journals[paper.Journal] = true
		}
		if paper.HasDate {
			if overview.YearMin == 0 || paper.Year < overview.YearMin {
				overview.YearMin = paper.Year
			}
			if paper.Year > overview.YearMax {
				overview.YearMax = paper.Year
			}
		}
	}
	overview.UniqueJournals = len(journals)

	a.logger.DebugContext(ctx, "summarized table",
		slog.Int("total_papers", overview.TotalPapers),
		slog.Int("unique_journals", overview.UniqueJournals))

	return overview
}
