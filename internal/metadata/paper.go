// Package metadata implements the paper-metadata table pipeline:
// loading the delimited CORD-19 metadata file, cleaning it and computing
// the descriptive aggregates served by the explorer.
package metadata

import "time"

// Paper is one research-paper metadata record.
type Paper struct {
	CordUID     string    `json:"cord_uid" csv:"cord_uid"`
	Source      string    `json:"source" csv:"source_x"`
	Title       string    `json:"title" csv:"title"`
	DOI         string    `json:"doi" csv:"doi"`
	PMCID       string    `json:"pmcid,omitempty" csv:"pmcid"`
	PubmedID    string    `json:"pubmed_id,omitempty" csv:"pubmed_id"`
	License     string    `json:"license,omitempty" csv:"license"`
	Abstract    string    `json:"abstract" csv:"abstract"`
	PublishTime string    `json:"publish_time" csv:"publish_time"`
	Authors     string    `json:"authors" csv:"authors"`
	Journal     string    `json:"journal" csv:"journal"`
	URL         string    `json:"url,omitempty" csv:"url"`

	// Derived fields, populated by the cleaner.
	PublishDate       time.Time `json:"-"`
	Year              int       `json:"year,omitempty"`
	HasDate           bool      `json:"-"`
	TitleWordCount    int       `json:"title_word_count"`
	AbstractWordCount int       `json:"abstract_word_count"`
	AuthorCount       int       `json:"author_count"`
	HasAbstract       bool      `json:"has_abstract"`
}

// Column names of the documented metadata.csv schema.
const (
	ColCordUID     = "cord_uid"
	ColSource      = "source_x"
	ColTitle       = "title"
	ColDOI         = "doi"
	ColPMCID       = "pmcid"
	ColPubmedID    = "pubmed_id"
	ColLicense     = "license"
	ColAbstract    = "abstract"
	ColPublishTime = "publish_time"
	ColAuthors     = "authors"
	ColJournal     = "journal"
	ColURL         = "url"
)

// DefaultColumns is the column subset loaded when none is configured.
func DefaultColumns() []string {
	return []string{
		ColCordUID, ColSource, ColTitle, ColDOI, ColPMCID, ColPubmedID,
		ColLicense, ColAbstract, ColPublishTime, ColAuthors, ColJournal, ColURL,
	}
}
