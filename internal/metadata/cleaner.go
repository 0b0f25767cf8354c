package metadata

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// UnknownTitle is substituted for rows that have an abstract but no title.
const UnknownTitle = "Unknown Title"

// CleanerConfig holds configuration options for the Cleaner.
type CleanerConfig struct {
	MinYear int // lower bound for plausible publication years
	MaxYear int // upper bound, current year when zero
}

// DefaultCleanerConfig returns the standard cleaning bounds.
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{MinYear: 1900}
}

// CleanStats reports what the cleaning pass did.
type CleanStats struct {
	RowsIn            int `json:"rows_in"`
	RowsOut           int `json:"rows_out"`
	DuplicatesDropped int `json:"duplicates_dropped"`
	EmptyDropped      int `json:"empty_dropped"`
	BadYearDropped    int `json:"bad_year_dropped"`
	DatesParsed       int `json:"dates_parsed"`
	TitlesFilled      int `json:"titles_filled"`
}

// Cleaner deduplicates rows, normalizes dates, applies missing-value
// policies and derives the analysis columns.
type Cleaner struct {
	logger  *slog.Logger
	minYear int
	maxYear int
}

// NewCleaner creates a cleaner with the given configuration.
func NewCleaner(logger *slog.Logger, config CleanerConfig) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MinYear <= 0 {
		config.MinYear = 1900
	}
	if config.MaxYear <= 0 {
		config.MaxYear = time.Now().Year()
	}
	return &Cleaner{
		logger:  logger,
		minYear: config.MinYear,
		maxYear: config.MaxYear,
	}
}

// Clean runs the full cleaning pass over the loaded rows. The returned slice
// is never longer than the input.
func (c *Cleaner) Clean(ctx context.Context, papers []Paper) ([]Paper, CleanStats) {
	stats := CleanStats{RowsIn: len(papers)}
	seen := make(map[string]bool, len(papers))
	cleaned := make([]Paper, 0, len(papers))

	for _, paper := range papers {
		// Rows with no title and no abstract carry nothing to analyze.
		if paper.Title == "" && paper.Abstract == "" {
			stats.EmptyDropped++
			continue
		}

		if key := dedupeKey(paper); key != "" {
			if seen[key] {
				stats.DuplicatesDropped++
				continue
			}
			seen[key] = true
		}

		if paper.Title == "" {
			paper.Title = UnknownTitle
			stats.TitlesFilled++
		}

		if date, ok := parsePublishTime(paper.PublishTime); ok {
			year := date.Year()
			if year < c.minYear || year > c.maxYear {
				stats.BadYearDropped++
				continue
			}
			paper.PublishDate = date
			paper.Year = year
			paper.HasDate = true
			stats.DatesParsed++
		}

		paper.TitleWordCount = countWords(paper.Title)
		paper.AbstractWordCount = countWords(paper.Abstract)
		paper.HasAbstract = paper.AbstractWordCount > 0
		paper.AuthorCount = countAuthors(paper.Authors)

		cleaned = append(cleaned, paper)
	}

	stats.RowsOut = len(cleaned)

	c.logger.InfoContext(ctx, "cleaning pass complete",
		slog.Int("rows_in", stats.RowsIn),
		slog.Int("rows_out", stats.RowsOut),
		slog.Int("duplicates_dropped", stats.DuplicatesDropped),
		slog.Int("empty_dropped", stats.EmptyDropped),
		slog.Int("bad_year_dropped", stats.BadYearDropped),
		slog.Int("dates_parsed", stats.DatesParsed),
		slog.Int("titles_filled", stats.TitlesFilled))

	return cleaned, stats
}

// dedupeKey identifies a row for duplicate detection: cord_uid when present,
// falling back to DOI, then to the normalized title.
func dedupeKey(paper Paper) string {
	if paper.CordUID != "" {
		return "uid:" + paper.CordUID
	}
	if paper.DOI != "" {
		return "doi:" + strings.ToLower(paper.DOI)
	}
	if paper.Title != "" {
		return "title:" + strings.ToLower(strings.Join(strings.Fields(paper.Title), " "))
	}
	return ""
}

// parsePublishTime normalizes the heterogeneous publish_time formats.
// Multi-date values ("2020-03-15; 2020-03-18") take the first entry.
func parsePublishTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if idx := strings.IndexAny(raw, ";["); idx >= 0 {
		raw = strings.Trim(strings.TrimSpace(raw[:idx]), `'"`)
		if raw == "" {
			return time.Time{}, false
		}
	}

	date, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// countWords counts whitespace-separated words.
func countWords(s string) int {
	return len(strings.Fields(s))
}

// countAuthors estimates the number of authors from the separator count.
// A non-empty string is at least one author.
func countAuthors(s string) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	separators := strings.Count(s, ";") + strings.Count(s, ",")
	if separators == 0 {
		return 1
	}
	return separators + 1
}
