package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/ByteCortex00/Frameworks-Assignment/internal/metadata"
)

// Default output file names inside the data directory.
const (
	CleanedFile  = "cleaned_metadata.csv"
	YearsFile    = "publications_by_year.csv"
	JournalsFile = "top_journals.csv"
	SourcesFile  = "source_distribution.csv"
	WordsFile    = "title_word_frequency.csv"
)

// cleanedHeaders are the columns of the cleaned-table export, original
// metadata columns first, derived columns after.
var cleanedHeaders = []string{
	"cord_uid", "source_x", "title", "doi", "pmcid", "pubmed_id",
	"license", "abstract", "publish_time", "authors", "journal", "url",
	"year", "title_word_count", "abstract_word_count", "author_count",
	"has_abstract",
}

// DatasetExporter writes the cleaned table and the aggregate views
// as CSV report files.
type DatasetExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewDatasetExporter creates a dataset exporter on top of a CSV writer.
func NewDatasetExporter(writer *CSVWriter, logger *slog.Logger) *DatasetExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetExporter{writer: writer, logger: logger}
}

// ExportCleaned streams the full cleaned table to CleanedFile.
func (e *DatasetExporter) ExportCleaned(papers []metadata.Paper) error {
	stream, err := e.writer.CreateStreamWriter(CleanedFile, cleanedHeaders)
	if err != nil {
		return fmt.Errorf("failed to create cleaned-table writer: %w", err)
	}

	for i := range papers {
		if err := stream.WriteRecord(paperRecord(&papers[i])); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to finish cleaned-table export: %w", err)
	}

	e.logger.Info("exported cleaned table",
		slog.String("file", CleanedFile),
		slog.Int("rows", len(papers)))
	return nil
}

// ExportYearCounts writes the publications-per-year view.
func (e *DatasetExporter) ExportYearCounts(counts []metadata.YearCount) error {
	records := make([][]string, 0, len(counts))
	for _, yc := range counts {
		records = append(records, []string{
			strconv.Itoa(yc.Year),
			strconv.Itoa(yc.Count),
		})
	}
	return e.writer.WriteSimpleCSV(YearsFile, []string{"year", "papers"}, records)
}

// ExportGroupCounts writes a named-group view (journals, sources).
func (e *DatasetExporter) ExportGroupCounts(file, label string, groups []metadata.GroupCount) error {
	records := make([][]string, 0, len(groups))
	for _, g := range groups {
		records = append(records, []string{g.Name, strconv.Itoa(g.Count)})
	}
	return e.writer.WriteSimpleCSV(file, []string{label, "papers"}, records)
}

// ExportWordCounts writes the title word-frequency view.
func (e *DatasetExporter) ExportWordCounts(words []metadata.WordCount) error {
	records := make([][]string, 0, len(words))
	for _, wc := range words {
		records = append(records, []string{wc.Word, strconv.Itoa(wc.Count)})
	}
	return e.writer.WriteSimpleCSV(WordsFile, []string{"word", "occurrences"}, records)
}

// WriteTable streams a paper table to an arbitrary writer, prefixed with
// a UTF-8 BOM. Used by the dashboard's CSV download.
func WriteTable(w io.Writer, papers []metadata.Paper) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cleanedHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i := range papers {
		if err := cw.Write(paperRecord(&papers[i])); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func paperRecord(p *metadata.Paper) []string {
	year := ""
	if p.HasDate {
		year = strconv.Itoa(p.Year)
	}
	return []string{
		p.CordUID, p.Source, p.Title, p.DOI, p.PMCID, p.PubmedID,
		p.License, p.Abstract, p.PublishTime, p.Authors, p.Journal, p.URL,
		year,
		strconv.Itoa(p.TitleWordCount),
		strconv.Itoa(p.AbstractWordCount),
		strconv.Itoa(p.AuthorCount),
		strconv.FormatBool(p.HasAbstract),
	}
}
