package exporter

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ByteCortex00/Frameworks-Assignment/internal/config"
	"github.com/ByteCortex00/Frameworks-Assignment/internal/metadata"
)

// WorkbookFile is the Excel summary written next to the CSV reports.
const WorkbookFile = "metadata_summary.xlsx"

// Summary bundles the aggregate views that go into the workbook.
type Summary struct {
	Overview metadata.Overview
	Years    []metadata.YearCount
	Journals []metadata.GroupCount
	Sources  []metadata.GroupCount
	Words    []metadata.WordCount
	Lengths  metadata.LengthStats
}

// WorkbookExporter writes the aggregate views into a single Excel
// workbook, one sheet per view.
type WorkbookExporter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter.
func NewWorkbookExporter(paths *config.Paths, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{paths: paths, logger: logger}
}

// Export writes the summary workbook to the data directory.
func (e *WorkbookExporter) Export(summary Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := e.writeOverviewSheet(f, headerStyle, summary); err != nil {
		return err
	}
	if err := writeCountSheet(f, headerStyle, "Publications by Year", "Year", yearRows(summary.Years)); err != nil {
		return err
	}
	if err := writeCountSheet(f, headerStyle, "Top Journals", "Journal", groupRows(summary.Journals)); err != nil {
		return err
	}
	if err := writeCountSheet(f, headerStyle, "Sources", "Source", groupRows(summary.Sources)); err != nil {
		return err
	}
	if err := writeCountSheet(f, headerStyle, "Title Words", "Word", wordRows(summary.Words)); err != nil {
		return err
	}

	// The default sheet is replaced by Overview.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	fullPath := e.paths.GetDataPath(WorkbookFile)
	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("exported summary workbook", slog.String("file", fullPath))
	return nil
}

func (e *WorkbookExporter) writeOverviewSheet(f *excelize.File, headerStyle int, summary Summary) error {
	const sheet = "Overview"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total papers", summary.Overview.TotalPapers},
		{"Papers with abstract", summary.Overview.WithAbstract},
		{"Unique journals", summary.Overview.UniqueJournals},
		{"Earliest year", summary.Overview.YearMin},
		{"Latest year", summary.Overview.YearMax},
		{"Mean abstract length (words)", summary.Lengths.Mean},
		{"Median abstract length (words)", summary.Lengths.Median},
		{"Longest abstract (words)", summary.Lengths.Max},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write overview row %d: %w", i, err)
		}
	}

	if err := f.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 32)
}

func writeCountSheet(f *excelize.File, headerStyle int, sheet, label string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := []interface{}{label, "Papers"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header on %s: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %s: %w", i, sheet, err)
		}
	}

	if err := f.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 28)
}

func yearRows(counts []metadata.YearCount) [][]interface{} {
	rows := make([][]interface{}, 0, len(counts))
	for _, yc := range counts {
		rows = append(rows, []interface{}{strconv.Itoa(yc.Year), yc.Count})
	}
	return rows
}

func groupRows(groups []metadata.GroupCount) [][]interface{} {
	rows := make([][]interface{}, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []interface{}{g.Name, g.Count})
	}
	return rows
}

func wordRows(words []metadata.WordCount) [][]interface{} {
	rows := make([][]interface{}, 0, len(words))
	for _, wc := range words {
		rows = append(rows, []interface{}{wc.Word, wc.Count})
	}
	return rows
}
